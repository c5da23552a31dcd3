// Package pipeline runs a list of layout passes over a graph.
//
// A pass list such as "Random,OpenOrd,YifanHu:10,ForceAtlas:3,Center" is
// parsed by [ParsePasses] and executed in order by a [Runner]. Each pass is
// driven through InitAlgo, GoAlgo while CanAlgo (capped by the optional
// iteration suffix) and EndAlgo. After every pass a collapsed layout is
// reseeded with a Random pass, so a later pass never starts from a single
// point.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Run(ctx, g, pipeline.Options{
//	    Passes: "Random,YifanHu:100,ForceAtlas:1000,Center",
//	    Seed:   7,
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Stats.Iterations, result.Positions["a"])
//
// Finished layouts are cached by graph content and options; a repeated run
// applies the cached positions and reports CacheHit.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcelayout/pkg/cache"
	"github.com/matzehuels/forcelayout/pkg/errors"
	"github.com/matzehuels/forcelayout/pkg/geom"
	"github.com/matzehuels/forcelayout/pkg/layout"
	"github.com/matzehuels/forcelayout/pkg/spatial"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API and Config
// =============================================================================

const (
	// DefaultPasses is the pass list used when none is given.
	DefaultPasses = "Random,OpenOrd,YifanHu:10,ForceAtlas:3,Center"

	// DefaultSeed seeds Random and OpenOrd when no seed is given.
	DefaultSeed = uint64(42)

	// DefaultReseedThreshold is the per-axis positional variance below which
	// a layout is reseeded after a pass.
	DefaultReseedThreshold = layout.DefaultDegenerateThreshold

	// DefaultRandomSize is the side of the square Random scatters into.
	DefaultRandomSize = layout.DefaultRandomSize

	// DefaultRescaleDistance is the shortest edge length Rescale targets.
	DefaultRescaleDistance = layout.DefaultRescaleMinEdgeLength

	// DefaultIterations is the iteration cap for YifanHu and ForceAtlas
	// passes without a suffix.
	DefaultIterations = 100
)

// =============================================================================
// Options - Runner Configuration
// =============================================================================

// Options configures a run. It is JSON serializable for API requests; the
// algorithm sections use the layout parameter structs directly.
type Options struct {
	Passes          string  `json:"passes,omitempty"`
	Seed            uint64  `json:"seed,omitempty"`
	ReseedThreshold float64 `json:"reseed_threshold,omitempty"`
	Workers         int     `json:"workers,omitempty"`

	// Index selects the repulsion index: quadtree, grid or exact. Empty
	// keeps each algorithm's default quad-tree.
	Index    string  `json:"index,omitempty"`
	Theta    float64 `json:"theta,omitempty"`
	CellSize float64 `json:"cell_size,omitempty"`

	RandomSize      float64 `json:"random_size,omitempty"`
	RescaleDistance float64 `json:"rescale_distance,omitempty"`

	ForceAtlas layout.ForceAtlasParams `json:"forceatlas"`
	YifanHu    layout.YifanHuParams    `json:"yifanhu"`
	OpenOrd    layout.OpenOrdParams    `json:"openord"`

	// Refresh ignores cached layouts (the result is still stored).
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// SetDefaults fills zero fields.
func (o *Options) SetDefaults() {
	if o.Passes == "" {
		o.Passes = DefaultPasses
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.ReseedThreshold == 0 {
		o.ReseedThreshold = DefaultReseedThreshold
	}
	if o.RandomSize == 0 {
		o.RandomSize = DefaultRandomSize
	}
	if o.RescaleDistance == 0 {
		o.RescaleDistance = DefaultRescaleDistance
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// Validate checks option ranges and the pass list. Algorithm parameters
// are validated by each pass's InitAlgo.
func (o *Options) Validate() error {
	if _, err := ParsePasses(o.Passes); err != nil {
		return err
	}
	checks := []struct {
		name string
		v    float64
	}{
		{"reseed_threshold", o.ReseedThreshold},
		{"theta", o.Theta},
		{"cell_size", o.CellSize},
		{"random_size", o.RandomSize},
		{"rescale_distance", o.RescaleDistance},
	}
	for _, c := range checks {
		if err := errors.ValidateFinite(c.name, c.v); err != nil {
			return err
		}
		if c.v < 0 {
			return errors.New(errors.ErrCodeInvalidParams, "%s must not be negative, got %v", c.name, c.v)
		}
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidParams, "workers must not be negative, got %d", o.Workers)
	}
	if _, err := spatial.New(o.Index, o.Theta, o.CellSize); err != nil {
		return err
	}
	return nil
}

// LayoutKeyOpts returns the cache key options for these options.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	passes, _ := ParsePasses(o.Passes)
	names := make([]string, len(passes))
	for i, p := range passes {
		names[i] = p.String()
	}
	return cache.LayoutKeyOpts{
		Passes:          names,
		Seed:            o.Seed,
		ReseedThreshold: o.ReseedThreshold,
		Index:           o.Index,
		Theta:           o.Theta,
		RandomSize:      o.RandomSize,
		RescaleDistance: o.RescaleDistance,
		Params: map[string]any{
			"forceatlas": o.ForceAtlas,
			"yifanhu":    o.YifanHu,
			"openord":    o.OpenOrd,
			"cell_size":  o.CellSize,
		},
	}
}

// =============================================================================
// Result
// =============================================================================

// Result describes a finished run.
type Result struct {
	RunID     string                 `json:"run_id"`
	Passes    []PassResult           `json:"passes"`
	Positions map[string]geom.Vector `json:"positions"`
	Stats     Stats                  `json:"stats"`
	CacheHit  bool                   `json:"cache_hit"`
}

// PassResult describes one executed pass.
type PassResult struct {
	Name       string        `json:"name"`
	Iterations int           `json:"iterations"`
	State      string        `json:"state,omitempty"`
	Skipped    bool          `json:"skipped,omitempty"`
	Reseeded   bool          `json:"reseeded,omitempty"`
	Duration   time.Duration `json:"duration"`
	LastStep   *layout.Step  `json:"last_step,omitempty"`
}

// Stats contains run totals.
type Stats struct {
	NodeCount  int           `json:"node_count"`
	EdgeCount  int           `json:"edge_count"`
	Iterations int           `json:"iterations"`
	Duration   time.Duration `json:"duration"`
	VarianceX  float64       `json:"variance_x"`
	VarianceY  float64       `json:"variance_y"`
}
