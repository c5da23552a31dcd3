package pipeline

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/layout"
	"github.com/matzehuels/forcelayout/pkg/spatial"
)

// =============================================================================
// Algorithm Construction
// =============================================================================

// newAlgorithm builds the algorithm for pass p, or returns nil for an
// unknown pass. The iteration suffix, when present, also becomes the
// algorithm's own budget.
func newAlgorithm(ctx context.Context, g *graph.Graph, p Pass, opts Options, logger *log.Logger) (layout.Algorithm, error) {
	algOpts := []layout.Option{
		layout.WithContext(ctx),
		layout.WithWorkers(opts.Workers),
		layout.WithLogger(logger),
	}
	if opts.Index != "" || opts.Theta != 0 {
		idx, err := spatial.New(opts.Index, opts.Theta, opts.CellSize)
		if err != nil {
			return nil, err
		}
		algOpts = append(algOpts, layout.WithIndex(idx))
	}

	n, hasN := p.Iterations()
	switch p.Name {
	case PassRandom:
		return layout.NewRandom(g, layout.RandomParams{Size: opts.RandomSize, Seed: opts.Seed}, algOpts...), nil
	case PassCenter:
		return layout.NewCenter(g, algOpts...), nil
	case PassRescale:
		d, ok := p.Distance()
		if !ok {
			d = opts.RescaleDistance
		}
		return layout.NewRescale(g, layout.RescaleParams{MinEdgeLength: d}, algOpts...), nil
	case PassOpenOrd:
		params := opts.OpenOrd
		if params.Seed == 0 {
			params.Seed = opts.Seed
		}
		if hasN && n > 0 {
			params = layout.OpenOrdParams{Iterations: n, DensityRadius: params.DensityRadius, Seed: params.Seed}
		}
		return layout.NewOpenOrd(g, params, algOpts...), nil
	case PassYifanHu:
		params := opts.YifanHu
		if hasN && n > 0 {
			params.MaxIterations = n
		} else if params.MaxIterations == 0 {
			params.MaxIterations = DefaultIterations
		}
		return layout.NewYifanHu(g, params, algOpts...), nil
	case PassForceAtlas:
		params := opts.ForceAtlas
		if hasN && n > 0 {
			params.MaxIterations = n
		} else if params.MaxIterations == 0 {
			params.MaxIterations = DefaultIterations
		}
		return layout.NewForceAtlas(g, params, algOpts...), nil
	}
	return nil, nil
}

// reseedSeed derives the Random seed used to reseed after the pass at
// index i, so that consecutive reseeds differ.
func reseedSeed(seed uint64, i int) uint64 {
	return seed ^ (uint64(i+1) * 0x9E3779B97F4A7C15)
}
