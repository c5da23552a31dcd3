package pipeline

import (
	"context"
	"encoding/json"
	"io"
	stderrors "errors"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/forcelayout/pkg/cache"
	"github.com/matzehuels/forcelayout/pkg/errors"
	"github.com/matzehuels/forcelayout/pkg/geom"
	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/layout"
	"github.com/matzehuels/forcelayout/pkg/observability"
)

// cacheKeyType labels layout entries in cache hooks.
const cacheKeyType = "layout"

// Runner executes pass lists with caching.
//
// The Runner is stateless except for the cache and logger, so one Runner
// can serve concurrent Run calls on different graphs.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of stored layouts. Zero means cache.TTLLayout.
	TTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// means DefaultKeyer and a nil logger discards output.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Run lays out g in place according to opts.
//
// A nil or empty graph fails with INVALID_STATE and bad options with
// INVALID_INPUT or INVALID_PARAMS. Cancellation is checked between
// iterations; the current pass is ended cleanly and the context error is
// returned with code TIMEOUT. Cache failures are logged and ignored.
func (r *Runner) Run(ctx context.Context, g *graph.Graph, opts Options) (res *Result, err error) {
	if g == nil || g.NodeCount() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidState, "graph has no nodes")
	}
	if err := g.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "invalid graph")
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	passes, _ := ParsePasses(opts.Passes)

	runID := uuid.NewString()
	logger := opts.Logger.With("run", runID[:8])
	start := time.Now()
	hooks := observability.Layout()
	hooks.OnRunStart(ctx, runID, g.NodeCount(), g.EdgeCount())
	defer func() { hooks.OnRunComplete(ctx, runID, time.Since(start), err) }()

	res = &Result{
		RunID: runID,
		Stats: Stats{NodeCount: g.NodeCount(), EdgeCount: g.EdgeCount()},
	}
	logger.Info("imported graph", "nodes", g.NodeCount(), "edges", g.EdgeCount())

	key := r.layoutKey(g, opts)
	if key != "" && !opts.Refresh {
		if cached, ok := r.lookup(ctx, key, g, logger); ok {
			res.Passes = cached.Passes
			res.Stats.Iterations = cached.Iterations
			res.CacheHit = true
			r.finish(res, g, start)
			logger.Info("layout from cache", "passes", opts.Passes, "duration", res.Stats.Duration)
			return res, nil
		}
	}

	for i, p := range passes {
		pr, err := r.runPass(ctx, g, p, opts, logger)
		if err != nil {
			return nil, err
		}
		if g.NodeCount() > 1 && layout.Degenerate(g, opts.ReseedThreshold) {
			if err := r.reseed(ctx, g, opts, reseedSeed(opts.Seed, i), logger); err != nil {
				return nil, err
			}
			pr.Reseeded = true
			hooks.OnReseed(ctx, p.Name)
			logger.Warn("layout collapsed, reseeded", "pass", p.String())
		}
		res.Passes = append(res.Passes, pr)
		res.Stats.Iterations += pr.Iterations
		if logger.GetLevel() <= log.DebugLevel {
			dumpPositions(logger, p.String(), g)
		}
	}

	r.finish(res, g, start)
	r.store(ctx, key, res, logger)
	logger.Info("layout complete",
		"passes", len(res.Passes),
		"iterations", res.Stats.Iterations,
		"duration", res.Stats.Duration)
	return res, nil
}

// runPass drives one pass through InitAlgo, GoAlgo and EndAlgo.
func (r *Runner) runPass(ctx context.Context, g *graph.Graph, p Pass, opts Options, logger *log.Logger) (pr PassResult, err error) {
	start := time.Now()
	pr.Name = p.String()
	defer func() {
		pr.Duration = time.Since(start)
		observability.Layout().OnPassComplete(ctx, p.Name, pr.Iterations, pr.Duration, err)
	}()

	alg, err := newAlgorithm(ctx, g, p, opts, logger)
	if err != nil {
		return pr, err
	}
	if alg == nil {
		pr.Skipped = true
		logger.Warn("unknown pass, skipping", "pass", p.String(), "known", KnownPasses)
		return pr, nil
	}

	if err := alg.InitAlgo(); err != nil {
		return pr, err
	}
	defer alg.EndAlgo()

	limit, ok := p.Iterations()
	if !ok {
		limit = math.MaxInt
	}
	for i := 0; i < limit && alg.CanAlgo(); i++ {
		if err := ctx.Err(); err != nil {
			return pr, cancelled(err, p)
		}
		if err := alg.GoAlgo(); err != nil {
			if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
				return pr, cancelled(err, p)
			}
			return pr, err
		}
	}

	pr.Iterations = alg.Iteration()
	pr.State = alg.State().String()
	if pr.Iterations > 0 {
		last := alg.LastStep()
		pr.LastStep = &last
	}
	logger.Info("pass done", "pass", pr.Name, "iterations", pr.Iterations, "state", pr.State, "duration", time.Since(start))
	return pr, nil
}

func cancelled(err error, p Pass) error {
	return errors.Wrap(errors.ErrCodeTimeout, err, "layout interrupted during %s", p.String())
}

// reseed scatters the layout with a Random pass.
func (r *Runner) reseed(ctx context.Context, g *graph.Graph, opts Options, seed uint64, logger *log.Logger) error {
	alg := layout.NewRandom(g, layout.RandomParams{Size: opts.RandomSize, Seed: seed}, layout.WithContext(ctx), layout.WithLogger(logger))
	if err := alg.InitAlgo(); err != nil {
		return err
	}
	defer alg.EndAlgo()
	for alg.CanAlgo() {
		if err := alg.GoAlgo(); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) finish(res *Result, g *graph.Graph, start time.Time) {
	res.Positions = make(map[string]geom.Vector, g.NodeCount())
	for _, n := range g.Nodes() {
		res.Positions[n.ID] = n.Pos()
	}
	res.Stats.VarianceX, res.Stats.VarianceY = layout.Variance(g)
	res.Stats.Duration = time.Since(start)
}

func dumpPositions(logger *log.Logger, pass string, g *graph.Graph) {
	for _, n := range g.Nodes() {
		logger.Debug("position", "pass", pass, "node", n.ID, "x", n.X, "y", n.Y)
	}
}

// =============================================================================
// Caching
// =============================================================================

// cachedLayout is the cache payload of a finished run.
type cachedLayout struct {
	Positions  map[string]geom.Vector `json:"positions"`
	Passes     []PassResult           `json:"passes"`
	Iterations int                    `json:"iterations"`
}

// layoutKey hashes the graph, including its starting positions, together
// with the options. It returns "" if the graph cannot be serialized.
func (r *Runner) layoutKey(g *graph.Graph, opts Options) string {
	data, err := graph.Marshal(g)
	if err != nil {
		return ""
	}
	return r.Keyer.LayoutKey(cache.Hash(data), opts.LayoutKeyOpts())
}

// lookup applies a cached layout to g. Entries that do not cover every
// node are ignored.
func (r *Runner) lookup(ctx context.Context, key string, g *graph.Graph, logger *log.Logger) (cachedLayout, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		hooks.OnCacheError(ctx, cacheKeyType, err)
		logger.Warn("cache read failed", "err", err)
		return cachedLayout{}, false
	}
	if !hit {
		hooks.OnCacheMiss(ctx, cacheKeyType)
		return cachedLayout{}, false
	}

	var cl cachedLayout
	if err := json.Unmarshal(data, &cl); err != nil {
		hooks.OnCacheError(ctx, cacheKeyType, err)
		return cachedLayout{}, false
	}
	pos := make([]geom.Vector, 0, g.NodeCount())
	for _, n := range g.Nodes() {
		p, ok := cl.Positions[n.ID]
		if !ok || !p.Finite() {
			hooks.OnCacheMiss(ctx, cacheKeyType)
			return cachedLayout{}, false
		}
		pos = append(pos, p)
	}
	if err := g.SetPositions(pos); err != nil {
		hooks.OnCacheError(ctx, cacheKeyType, err)
		return cachedLayout{}, false
	}
	hooks.OnCacheHit(ctx, cacheKeyType)
	return cl, true
}

func (r *Runner) store(ctx context.Context, key string, res *Result, logger *log.Logger) {
	if key == "" {
		return
	}
	data, err := json.Marshal(cachedLayout{Positions: res.Positions, Passes: res.Passes, Iterations: res.Stats.Iterations})
	if err != nil {
		return
	}
	ttl := r.TTL
	if ttl <= 0 {
		ttl = cache.TTLLayout
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		observability.Cache().OnCacheError(ctx, cacheKeyType, err)
		logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
