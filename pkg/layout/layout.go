package layout

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcelayout/pkg/errors"
	"github.com/matzehuels/forcelayout/pkg/geom"
	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/spatial"
)

// =============================================================================
// Algorithm - Common Capability Set
// =============================================================================

// Algorithm is a layout that runs as InitAlgo, then GoAlgo while CanAlgo,
// then EndAlgo. Implementations are not safe for concurrent use.
type Algorithm interface {
	// Name returns the pass name used by the runner, e.g. "YifanHu".
	Name() string
	// InitAlgo validates parameters and the graph and resets the
	// simulation state. It may be called again after EndAlgo.
	InitAlgo() error
	// CanAlgo reports whether another iteration should run. It never
	// changes state.
	CanAlgo() bool
	// GoAlgo runs exactly one iteration. It fails with INVALID_STATE when
	// CanAlgo is false.
	GoAlgo() error
	// EndAlgo releases per-run resources. Always legal and idempotent.
	EndAlgo()
	// State returns the current engine state.
	State() State
	// Iteration returns the number of completed iterations in this run.
	Iteration() int
	// LastStep returns statistics for the most recent iteration.
	LastStep() Step
}

// State is the simulation driver state.
type State int

// Engine states, in lifecycle order.
const (
	Uninitialized State = iota
	Initialized
	Running
	Converged
	IterationLimitReached
	Ended
)

var stateNames = [...]string{"uninitialized", "initialized", "running", "converged", "iteration-limit", "ended"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Step describes one completed iteration.
type Step struct {
	Iteration         int     `json:"iteration"`
	Stage             string  `json:"stage,omitempty"`
	TotalDisplacement float64 `json:"total_displacement"`
	MaxDisplacement   float64 `json:"max_displacement"`
	Energy            float64 `json:"energy,omitempty"`
	VarianceX         float64 `json:"variance_x"`
	VarianceY         float64 `json:"variance_y"`
}

// =============================================================================
// Options
// =============================================================================

// Metric selects the value compared against the convergence threshold.
type Metric string

// Convergence metrics.
const (
	MetricNone             Metric = ""
	MetricMaxDisplacement  Metric = "max-displacement"
	MetricMeanDisplacement Metric = "mean-displacement"
	MetricVariance         Metric = "variance"
)

// Option configures an algorithm.
type Option func(*options)

type options struct {
	ctx       context.Context
	index     spatial.Index
	workers   int
	metric    Metric
	threshold float64
	logger    *log.Logger
	observer  func(Step)
}

func newOptions(opts []Option) options {
	o := options{ctx: context.Background()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}
	return o
}

// WithIndex sets the spatial index used for repulsion. Defaults to a
// Barnes-Hut quad-tree with the algorithm's theta.
func WithIndex(idx spatial.Index) Option { return func(o *options) { o.index = idx } }

// WithWorkers sets the number of goroutines used for force computation.
// Zero means GOMAXPROCS.
func WithWorkers(n int) Option { return func(o *options) { o.workers = n } }

// WithConvergence stops the run once metric drops below threshold after an
// iteration.
func WithConvergence(m Metric, threshold float64) Option {
	return func(o *options) { o.metric, o.threshold = m, threshold }
}

// WithLogger sets the logger for per-iteration debug output.
func WithLogger(l *log.Logger) Option { return func(o *options) { o.logger = l } }

// WithObserver registers a callback invoked after every iteration.
func WithObserver(fn func(Step)) Option { return func(o *options) { o.observer = fn } }

// WithContext sets the context passed to parallel force computation.
// Cancellation aborts the current iteration with the context error.
func WithContext(ctx context.Context) Option { return func(o *options) { o.ctx = ctx } }

// ValidMetric reports whether m names a known convergence metric.
func ValidMetric(m Metric) bool {
	switch m {
	case MetricNone, MetricMaxDisplacement, MetricMeanDisplacement, MetricVariance:
		return true
	}
	return false
}

// =============================================================================
// engine - Shared State Machine
// =============================================================================

// engine owns the state machine, iteration budget and step bookkeeping
// shared by every algorithm.
type engine struct {
	name    string
	g       *graph.Graph
	opts    options
	state   State
	iter    int
	maxIter int
	last    Step
}

func newEngine(name string, g *graph.Graph, opts []Option) engine {
	return engine{name: name, g: g, opts: newOptions(opts)}
}

// Name implements Algorithm.
func (e *engine) Name() string { return e.name }

// State implements Algorithm.
func (e *engine) State() State { return e.state }

// Iteration implements Algorithm.
func (e *engine) Iteration() int { return e.iter }

// LastStep implements Algorithm.
func (e *engine) LastStep() Step { return e.last }

// CanAlgo implements Algorithm.
func (e *engine) CanAlgo() bool {
	return (e.state == Initialized || e.state == Running) && e.iter < e.maxIter
}

// checkGraph fails with INVALID_STATE for a missing, empty or corrupt graph.
func (e *engine) checkGraph() error {
	if e.g == nil {
		return errors.New(errors.ErrCodeInvalidState, "%s: no graph", e.name)
	}
	if e.g.NodeCount() == 0 {
		return errors.New(errors.ErrCodeInvalidState, "%s: graph has no nodes", e.name)
	}
	if err := e.g.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidState, err, "%s: invalid graph", e.name)
	}
	return nil
}

// begin resets the run with the given iteration budget.
func (e *engine) begin(maxIter int) {
	e.state = Initialized
	e.iter = 0
	e.maxIter = maxIter
	e.last = Step{}
}

// step runs one iteration through fn and advances the state machine. fn
// returns the iteration statistics and whether the algorithm considers
// itself converged.
func (e *engine) step(fn func() (Step, bool, error)) error {
	if !e.CanAlgo() {
		return errors.New(errors.ErrCodeInvalidState, "%s: cannot iterate in state %s after %d of %d iterations",
			e.name, e.state, e.iter, e.maxIter)
	}

	st, done, err := fn()
	if err != nil {
		return err
	}

	e.iter++
	st.Iteration = e.iter
	st.VarianceX, st.VarianceY = geom.Variance(e.g.Positions())
	e.last = st

	switch {
	case done || e.metricConverged(st):
		e.state = Converged
	case e.iter >= e.maxIter:
		e.state = IterationLimitReached
	default:
		e.state = Running
	}

	if e.opts.observer != nil {
		e.opts.observer(st)
	}
	e.opts.logger.Debug("iteration", "pass", e.name, "iter", st.Iteration, "stage", st.Stage,
		"max_disp", st.MaxDisplacement, "energy", st.Energy)
	return nil
}

func (e *engine) metricConverged(st Step) bool {
	var v float64
	switch e.opts.metric {
	case MetricMaxDisplacement:
		v = st.MaxDisplacement
	case MetricMeanDisplacement:
		v = st.TotalDisplacement / float64(max(e.g.NodeCount(), 1))
	case MetricVariance:
		v = max(st.VarianceX, st.VarianceY)
	default:
		return false
	}
	return v < e.opts.threshold
}

// end moves to Ended. Callers release their own resources first.
func (e *engine) end() { e.state = Ended }

// index returns the configured index or a quad-tree with theta.
func (e *engine) index(theta float64) spatial.Index {
	if e.opts.index != nil {
		return e.opts.index
	}
	return &spatial.QuadTree{Theta: theta}
}
