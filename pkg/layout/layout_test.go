package layout

import (
	"context"
	"math"
	"math/rand/v2"
	"slices"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/forcelayout/pkg/errors"
	"github.com/matzehuels/forcelayout/pkg/geom"
	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/spatial"
)

// randomGraph builds n nodes at seeded random positions with roughly 1.5n
// random edges.
func randomGraph(t testing.TB, n int, seed uint64) *graph.Graph {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	g := graph.New(nil)
	for i := range n {
		err := g.AddNode(graph.Node{
			ID: "n" + strconv.Itoa(i),
			X:  rng.Float64()*200 - 100,
			Y:  rng.Float64()*200 - 100,
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	for range n * 3 / 2 {
		a, b := rng.IntN(n), rng.IntN(n)
		err := g.AddEdge(graph.Edge{From: "n" + strconv.Itoa(a), To: "n" + strconv.Itoa(b), Weight: 1 + float64(rng.IntN(3))})
		if err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func cycle(t testing.TB, n int) *graph.Graph {
	t.Helper()
	g := graph.New(nil)
	for i := range n {
		if err := g.AddNode(graph.Node{ID: strconv.Itoa(i)}); err != nil {
			t.Fatal(err)
		}
	}
	for i := range n {
		if err := g.AddEdge(graph.Edge{From: strconv.Itoa(i), To: strconv.Itoa((i + 1) % n), Weight: 1, Directed: true}); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

// run drives alg through its whole lifecycle.
func run(t testing.TB, alg Algorithm) {
	t.Helper()
	if err := alg.InitAlgo(); err != nil {
		t.Fatalf("%s.InitAlgo: %v", alg.Name(), err)
	}
	for alg.CanAlgo() {
		if err := alg.GoAlgo(); err != nil {
			t.Fatalf("%s.GoAlgo: %v", alg.Name(), err)
		}
	}
	alg.EndAlgo()
}

func ptr[T any](v T) *T { return &v }

func allFinite(g *graph.Graph) bool {
	for _, p := range g.Positions() {
		if !p.Finite() {
			return false
		}
	}
	return true
}

type constructor func(g *graph.Graph, opts ...Option) Algorithm

var algorithms = map[string]constructor{
	"Random": func(g *graph.Graph, opts ...Option) Algorithm {
		return NewRandom(g, RandomParams{Seed: 1}, opts...)
	},
	"Center": func(g *graph.Graph, opts ...Option) Algorithm { return NewCenter(g, opts...) },
	"Rescale": func(g *graph.Graph, opts ...Option) Algorithm {
		return NewRescale(g, RescaleParams{}, opts...)
	},
	"ForceAtlas": func(g *graph.Graph, opts ...Option) Algorithm {
		return NewForceAtlas(g, ForceAtlasParams{MaxIterations: 10}, opts...)
	},
	"YifanHu": func(g *graph.Graph, opts ...Option) Algorithm {
		return NewYifanHu(g, YifanHuParams{MaxIterations: 10}, opts...)
	},
	"OpenOrd": func(g *graph.Graph, opts ...Option) Algorithm {
		return NewOpenOrd(g, OpenOrdParams{Iterations: 20, Seed: 1}, opts...)
	},
}

func TestStateMachine(t *testing.T) {
	for name, newAlg := range algorithms {
		t.Run(name, func(t *testing.T) {
			g := randomGraph(t, 12, 5)
			alg := newAlg(g)

			if alg.Name() != name {
				t.Errorf("Name() = %q, want %q", alg.Name(), name)
			}
			if alg.State() != Uninitialized || alg.CanAlgo() {
				t.Fatalf("fresh algorithm: state %s, CanAlgo %v", alg.State(), alg.CanAlgo())
			}
			if err := alg.GoAlgo(); !errors.Is(err, errors.ErrCodeInvalidState) {
				t.Fatalf("GoAlgo before InitAlgo = %v, want INVALID_STATE", err)
			}

			if err := alg.InitAlgo(); err != nil {
				t.Fatal(err)
			}
			if alg.State() != Initialized || !alg.CanAlgo() || alg.Iteration() != 0 {
				t.Fatalf("after InitAlgo: state %s, CanAlgo %v, iteration %d", alg.State(), alg.CanAlgo(), alg.Iteration())
			}

			for want := 1; alg.CanAlgo(); want++ {
				// CanAlgo is a pure query.
				if !alg.CanAlgo() {
					t.Fatal("CanAlgo changed between calls")
				}
				if err := alg.GoAlgo(); err != nil {
					t.Fatal(err)
				}
				if alg.Iteration() != want {
					t.Fatalf("Iteration() = %d, want %d", alg.Iteration(), want)
				}
				if alg.LastStep().Iteration != want {
					t.Fatalf("LastStep().Iteration = %d, want %d", alg.LastStep().Iteration, want)
				}
				if !allFinite(g) {
					t.Fatalf("iteration %d produced non-finite positions", want)
				}
			}

			if s := alg.State(); s != Converged && s != IterationLimitReached {
				t.Errorf("final state = %s", s)
			}
			before := alg.Iteration()
			if err := alg.GoAlgo(); !errors.Is(err, errors.ErrCodeInvalidState) {
				t.Errorf("GoAlgo after the run = %v, want INVALID_STATE", err)
			}
			if alg.Iteration() != before {
				t.Error("failed GoAlgo advanced the iteration counter")
			}

			alg.EndAlgo()
			alg.EndAlgo()
			if alg.State() != Ended || alg.CanAlgo() {
				t.Errorf("after EndAlgo: state %s, CanAlgo %v", alg.State(), alg.CanAlgo())
			}

			// A finished algorithm can be started again.
			if err := alg.InitAlgo(); err != nil {
				t.Fatalf("second InitAlgo: %v", err)
			}
			if !alg.CanAlgo() || alg.Iteration() != 0 {
				t.Error("second InitAlgo did not reset the run")
			}
			alg.EndAlgo()
		})
	}
}

func TestInitAlgoRejectsMissingGraph(t *testing.T) {
	for name, newAlg := range algorithms {
		t.Run(name, func(t *testing.T) {
			for _, g := range []*graph.Graph{nil, graph.New(nil)} {
				alg := newAlg(g)
				if err := alg.InitAlgo(); !errors.Is(err, errors.ErrCodeInvalidState) {
					t.Errorf("InitAlgo = %v, want INVALID_STATE", err)
				}
				if alg.CanAlgo() {
					t.Error("CanAlgo true after failed InitAlgo")
				}
				alg.EndAlgo()
			}
		})
	}
}

func TestInitAlgoRejectsInvalidParams(t *testing.T) {
	g := cycle(t, 4)
	tests := []struct {
		name string
		alg  Algorithm
	}{
		{"random size", NewRandom(g, RandomParams{Size: -1})},
		{"rescale length", NewRescale(g, RescaleParams{MinEdgeLength: -5})},
		{"forceatlas inertia", NewForceAtlas(g, ForceAtlasParams{Inertia: ptr(1.5)})},
		{"forceatlas freeze inertia", NewForceAtlas(g, ForceAtlasParams{FreezeInertia: ptr(-0.1)})},
		{"forceatlas repulsion", NewForceAtlas(g, ForceAtlasParams{Repulsion: -1, Attraction: 1})},
		{"yifanhu step ratio", NewYifanHu(g, YifanHuParams{StepRatio: 2})},
		{"yifanhu theta", NewYifanHu(g, YifanHuParams{Theta: -0.5})},
		{"openord stage", NewOpenOrd(g, OpenOrdParams{LiquidStage: -1, SimmerStage: 3})},
		{"openord radius", NewOpenOrd(g, OpenOrdParams{DensityRadius: -2})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.alg.InitAlgo()
			if !errors.Is(err, errors.ErrCodeInvalidParams) {
				t.Fatalf("InitAlgo = %v, want INVALID_PARAMS", err)
			}
			if tt.alg.State() != Uninitialized {
				t.Errorf("state = %s after rejected params", tt.alg.State())
			}
		})
	}
}

func TestDeterminism(t *testing.T) {
	for name, newAlg := range algorithms {
		t.Run(name, func(t *testing.T) {
			var trace [2][][]geom.Vector
			for k := range trace {
				g := randomGraph(t, 40, 9)
				alg := newAlg(g, WithObserver(func(Step) {
					trace[k] = append(trace[k], g.Positions())
				}))
				run(t, alg)
			}
			if len(trace[0]) == 0 {
				t.Fatal("observer never called")
			}
			if len(trace[0]) != len(trace[1]) {
				t.Fatalf("runs took %d and %d iterations", len(trace[0]), len(trace[1]))
			}
			for i := range trace[0] {
				if !slices.Equal(trace[0][i], trace[1][i]) {
					t.Fatalf("iteration %d differs between runs", i+1)
				}
			}
		})
	}
}

func TestWorkerCountDoesNotChangeResult(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large graph in short mode")
	}
	for _, name := range []string{"ForceAtlas", "YifanHu", "OpenOrd"} {
		t.Run(name, func(t *testing.T) {
			var out [2][]geom.Vector
			for k, workers := range []int{1, 4} {
				g := randomGraph(t, 400, 21)
				run(t, algorithms[name](g, WithWorkers(workers)))
				out[k] = g.Positions()
			}
			if !slices.Equal(out[0], out[1]) {
				t.Error("positions depend on the worker count")
			}
		})
	}
}

func TestNodeMassChangesLayout(t *testing.T) {
	for _, name := range []string{"ForceAtlas", "YifanHu"} {
		t.Run(name, func(t *testing.T) {
			var out [2][]geom.Vector
			for k, mass := range []float64{0, 1000} {
				g := randomGraph(t, 12, 3)
				n, err := g.Node("n0")
				if err != nil {
					t.Fatal(err)
				}
				n.Mass = mass
				run(t, algorithms[name](g))
				out[k] = g.Positions()
			}
			if slices.Equal(out[0], out[1]) {
				t.Error("a heavy node left the layout unchanged")
			}
		})
	}
}

func TestDisplacementCap(t *testing.T) {
	const maxDisp = 3.0
	g := randomGraph(t, 30, 4)
	alg := NewForceAtlas(g, ForceAtlasParams{MaxDisplacement: maxDisp, MaxIterations: 25})
	if err := alg.InitAlgo(); err != nil {
		t.Fatal(err)
	}
	for alg.CanAlgo() {
		before := g.Positions()
		if err := alg.GoAlgo(); err != nil {
			t.Fatal(err)
		}
		for i, p := range g.Positions() {
			if d := p.Sub(before[i]).Norm(); d > maxDisp+1e-9 {
				t.Fatalf("iteration %d: node %d moved %v > %v", alg.Iteration(), i, d, maxDisp)
			}
		}
		if alg.LastStep().MaxDisplacement > maxDisp+1e-9 {
			t.Fatalf("LastStep().MaxDisplacement = %v", alg.LastStep().MaxDisplacement)
		}
	}
	alg.EndAlgo()
}

func TestCoincidentNodesSeparate(t *testing.T) {
	newGraph := func() *graph.Graph {
		g := graph.New(nil)
		_ = g.AddNode(graph.Node{ID: "a", X: 5, Y: 5})
		_ = g.AddNode(graph.Node{ID: "b", X: 5, Y: 5})
		_ = g.AddEdge(graph.Edge{From: "a", To: "b", Weight: 0})
		return g
	}

	tests := []struct {
		name string
		alg  func(g *graph.Graph) Algorithm
	}{
		{"ForceAtlas", func(g *graph.Graph) Algorithm {
			return NewForceAtlas(g, ForceAtlasParams{Repulsion: 1000, MaxIterations: 1})
		}},
		{"YifanHu", func(g *graph.Graph) Algorithm {
			return NewYifanHu(g, YifanHuParams{MaxIterations: 1})
		}},
		{"ForceAtlas exact index", func(g *graph.Graph) Algorithm {
			return NewForceAtlas(g, ForceAtlasParams{Repulsion: 1000, MaxIterations: 1}, WithIndex(&spatial.Exact{}))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGraph()
			run(t, tt.alg(g))
			a, _ := g.Node("a")
			b, _ := g.Node("b")
			if !a.Pos().Finite() || !b.Pos().Finite() {
				t.Fatalf("non-finite positions %v %v", a.Pos(), b.Pos())
			}
			if d := a.Pos().Sub(b.Pos()).Norm(); d <= 0 {
				t.Errorf("nodes still coincide after one iteration")
			}
		})
	}
}

func TestForceAtlasFourCycle(t *testing.T) {
	for _, seed := range []uint64{1, 2, 3, 42} {
		t.Run(strconv.FormatUint(seed, 10), func(t *testing.T) {
			g := cycle(t, 4)
			run(t, NewRandom(g, RandomParams{Seed: seed}))
			run(t, NewForceAtlas(g, ForceAtlasParams{}, WithIndex(&spatial.Exact{})))

			p := g.Positions()
			dist := func(i, j int) float64 { return p[i].Sub(p[j]).Norm() }
			edges := (dist(0, 1) + dist(1, 2) + dist(2, 3) + dist(3, 0)) / 4
			diagonals := (dist(0, 2) + dist(1, 3)) / 2
			if edges >= diagonals {
				t.Errorf("mean edge length %.2f not below mean diagonal %.2f", edges, diagonals)
			}
		})
	}
}

func TestForceAtlasRespectsFixedNodes(t *testing.T) {
	g := randomGraph(t, 10, 8)
	pinned, _ := g.Node("n0")
	pinned.Fixed = true
	want := pinned.Pos()

	run(t, NewForceAtlas(g, ForceAtlasParams{MaxIterations: 20}))
	if pinned.Pos() != want {
		t.Errorf("fixed node moved from %v to %v", want, pinned.Pos())
	}
}

func TestYifanHuReducesSpread(t *testing.T) {
	g := cycle(t, 6)
	run(t, NewRandom(g, RandomParams{Size: 5000, Seed: 3}))
	before, _ := Variance(g)

	alg := NewYifanHu(g, YifanHuParams{MaxIterations: 200})
	run(t, alg)
	after, _ := Variance(g)
	if after >= before {
		t.Errorf("x variance grew from %.1f to %.1f", before, after)
	}
}

func TestYifanHuStepShrinksWithoutAdaptiveCooling(t *testing.T) {
	off := false
	g := cycle(t, 5)
	run(t, NewRandom(g, RandomParams{Seed: 2}))
	alg := NewYifanHu(g, YifanHuParams{MaxIterations: 3, AdaptiveCooling: &off, ConvergenceThreshold: 1e-12})
	if err := alg.InitAlgo(); err != nil {
		t.Fatal(err)
	}
	initial := alg.StepLength()
	if initial != DefaultYHOptimalDistance/5 {
		t.Errorf("initial step = %v, want K/5", initial)
	}
	for alg.CanAlgo() {
		if err := alg.GoAlgo(); err != nil {
			t.Fatal(err)
		}
	}
	want := initial * math.Pow(DefaultYHStepRatio, float64(alg.Iteration()))
	if math.Abs(alg.StepLength()-want) > 1e-9 {
		t.Errorf("step = %v, want %v", alg.StepLength(), want)
	}
	alg.EndAlgo()
}

func TestYifanHuConvergesWithoutForces(t *testing.T) {
	g := graph.New(nil)
	_ = g.AddNode(graph.Node{ID: "only"})
	alg := NewYifanHu(g, YifanHuParams{})
	run(t, alg)
	if alg.State() != Ended || alg.Iteration() != 1 {
		t.Errorf("single node: state %s after %d iterations, want one iteration", alg.State(), alg.Iteration())
	}
}

func TestOpenOrdStageOrder(t *testing.T) {
	tests := []struct {
		name   string
		params OpenOrdParams
		want   []string
	}{
		{
			"one each",
			OpenOrdParams{LiquidStage: 1, ExpansionStage: 1, CooldownStage: 1, CrunchStage: 1, SimmerStage: 1},
			[]string{StageLiquid, StageExpansion, StageCooldown, StageCrunch, StageSimmer},
		},
		{
			"empty stages pass through",
			OpenOrdParams{LiquidStage: 2, CooldownStage: 1, SimmerStage: 1},
			[]string{StageLiquid, StageLiquid, StageCooldown, StageSimmer},
		},
		{
			"derived from iterations",
			OpenOrdParams{Iterations: 20},
			[]string{
				StageLiquid, StageLiquid, StageLiquid, StageLiquid, StageLiquid,
				StageExpansion, StageExpansion, StageExpansion, StageExpansion, StageExpansion,
				StageCooldown, StageCooldown, StageCooldown, StageCooldown, StageCooldown,
				StageCrunch, StageCrunch,
				StageSimmer, StageSimmer, StageSimmer,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			g := randomGraph(t, 15, 6)
			alg := NewOpenOrd(g, tt.params, WithObserver(func(s Step) { got = append(got, s.Stage) }))
			run(t, alg)
			if !slices.Equal(got, tt.want) {
				t.Errorf("stages = %v, want %v", got, tt.want)
			}
			if alg.Iteration() != len(tt.want) {
				t.Errorf("Iteration() = %d, want %d", alg.Iteration(), len(tt.want))
			}
		})
	}
}

func TestForceAtlasSetDefaultsKeepsZero(t *testing.T) {
	unset := ForceAtlasParams{}
	unset.SetDefaults()
	if *unset.Inertia != DefaultFAInertia || *unset.FreezeStrength != DefaultFAFreezeStrength || *unset.FreezeInertia != DefaultFAFreezeInertia {
		t.Errorf("defaults = %v, %v, %v", *unset.Inertia, *unset.FreezeStrength, *unset.FreezeInertia)
	}

	zero := ForceAtlasParams{Inertia: ptr(0.0), FreezeStrength: ptr(0.0), FreezeInertia: ptr(0.0)}
	zero.SetDefaults()
	if *zero.Inertia != 0 || *zero.FreezeStrength != 0 || *zero.FreezeInertia != 0 {
		t.Errorf("explicit zeros overridden: %v, %v, %v", *zero.Inertia, *zero.FreezeStrength, *zero.FreezeInertia)
	}

	// Without inertia a node's step depends only on the current force, so
	// the layout differs from the default run.
	var out [2][]geom.Vector
	for k, p := range []ForceAtlasParams{{MaxIterations: 10}, {MaxIterations: 10, Inertia: ptr(0.0)}} {
		g := randomGraph(t, 12, 8)
		run(t, NewForceAtlas(g, p))
		out[k] = g.Positions()
	}
	if slices.Equal(out[0], out[1]) {
		t.Error("zero inertia had no effect")
	}
}

func TestOpenOrdSetDefaults(t *testing.T) {
	p := OpenOrdParams{}
	p.SetDefaults()
	if p.totalStages() != DefaultOOIterations {
		t.Errorf("total stages = %d, want %d", p.totalStages(), DefaultOOIterations)
	}
	if p.LiquidStage != 187 || p.CrunchStage != 75 || p.SimmerStage != 114 {
		t.Errorf("stages = %+v", p)
	}

	explicit := OpenOrdParams{CrunchStage: 3, Iterations: 500}
	explicit.SetDefaults()
	if explicit.totalStages() != 3 {
		t.Errorf("explicit stages overridden: %+v", explicit)
	}
}

func TestRandom(t *testing.T) {
	g := randomGraph(t, 50, 1)
	pinned, _ := g.Node("n3")
	pinned.Fixed = true
	pinnedPos := pinned.Pos()

	run(t, NewRandom(g, RandomParams{Size: 10, Seed: 77}))
	for _, n := range g.Nodes() {
		if n.Fixed {
			continue
		}
		if math.Abs(n.X) > 5 || math.Abs(n.Y) > 5 {
			t.Errorf("%s at %v outside [-5, 5]²", n.ID, n.Pos())
		}
	}
	if pinned.Pos() != pinnedPos {
		t.Error("Random moved a fixed node")
	}

	// Pinning a node does not reshuffle the others.
	other := randomGraph(t, 50, 1)
	run(t, NewRandom(other, RandomParams{Size: 10, Seed: 77}))
	a, _ := g.Node("n4")
	b, _ := other.Node("n4")
	if a.Pos() != b.Pos() {
		t.Errorf("n4 at %v with a pinned neighbour, %v without", a.Pos(), b.Pos())
	}
}

func TestCenter(t *testing.T) {
	g := randomGraph(t, 20, 2)
	run(t, NewCenter(g))
	if c := geom.Centroid(g.Positions()); c.Norm() > 1e-9 {
		t.Errorf("centroid after Center = %v", c)
	}
}

func TestRescale(t *testing.T) {
	g := cycle(t, 3)
	_ = g.SetPositions([]geom.Vector{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 0, Y: 4}})
	run(t, NewRescale(g, RescaleParams{MinEdgeLength: 10}))

	p := g.Positions()
	if d := p[0].Sub(p[1]).Norm(); math.Abs(d-10) > 1e-9 {
		t.Errorf("shortest edge = %v, want 10", d)
	}
	if p[2] != (geom.Vector{X: 0, Y: 20}) {
		t.Errorf("p[2] = %v, want (0, 20)", p[2])
	}

	// Without edges the layout is left alone.
	lone := graph.New(nil)
	_ = lone.AddNode(graph.Node{ID: "x", X: 3, Y: 4})
	run(t, NewRescale(lone, RescaleParams{}))
	if n, _ := lone.Node("x"); n.X != 3 || n.Y != 4 {
		t.Errorf("edgeless graph moved to %v", n.Pos())
	}
}

func TestDegenerate(t *testing.T) {
	g := randomGraph(t, 10, 3)
	for _, n := range g.Nodes() {
		n.SetPos(geom.Vector{X: 0.1, Y: -0.1})
	}
	if !Degenerate(g, DefaultDegenerateThreshold) {
		t.Error("collapsed layout not reported as degenerate")
	}
	run(t, NewRandom(g, RandomParams{Seed: 5}))
	if Degenerate(g, DefaultDegenerateThreshold) {
		t.Error("random layout reported as degenerate")
	}
	if Degenerate(g, math.Inf(1)) != true {
		t.Error("infinite threshold should always be degenerate")
	}
}

func TestWithConvergence(t *testing.T) {
	g := randomGraph(t, 20, 12)
	alg := NewForceAtlas(g, ForceAtlasParams{MaxIterations: 500}, WithConvergence(MetricMaxDisplacement, math.Inf(1)))
	run(t, alg)
	if alg.Iteration() != 1 {
		t.Errorf("Iteration() = %d, want 1 with an always-met threshold", alg.Iteration())
	}
}

func TestContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := randomGraph(t, 20, 12)
	alg := NewYifanHu(g, YifanHuParams{}, WithContext(ctx))
	if err := alg.InitAlgo(); err != nil {
		t.Fatal(err)
	}
	if err := alg.GoAlgo(); err == nil {
		t.Fatal("GoAlgo with a cancelled context succeeded")
	}
	if alg.Iteration() != 0 {
		t.Errorf("Iteration() = %d after a cancelled step", alg.Iteration())
	}
	alg.EndAlgo()
}

func TestPositionsStayFinite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping property tests in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40
	properties := gopter.NewProperties(parameters)

	properties.Property("every pass keeps positions finite", prop.ForAll(
		func(n int, seed uint64) bool {
			g := randomGraph(t, n, seed)
			passes := []Algorithm{
				NewRandom(g, RandomParams{Seed: seed}),
				NewOpenOrd(g, OpenOrdParams{Iterations: 10, Seed: seed}),
				NewYifanHu(g, YifanHuParams{MaxIterations: 10}),
				NewForceAtlas(g, ForceAtlasParams{MaxIterations: 10}),
				NewCenter(g),
				NewRescale(g, RescaleParams{}),
			}
			for _, alg := range passes {
				if err := alg.InitAlgo(); err != nil {
					return false
				}
				for alg.CanAlgo() {
					if err := alg.GoAlgo(); err != nil || !allFinite(g) {
						return false
					}
				}
				alg.EndAlgo()
			}
			return true
		},
		gen.IntRange(1, 40),
		gen.UInt64(),
	))

	properties.TestingRun(t)
}
