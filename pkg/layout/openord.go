package layout

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/forcelayout/pkg/force"
	"github.com/matzehuels/forcelayout/pkg/geom"
	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/spatial"
)

// OpenOrd stage names, in run order.
const (
	StageLiquid    = "liquid"
	StageExpansion = "expansion"
	StageCooldown  = "cooldown"
	StageCrunch    = "crunch"
	StageSimmer    = "simmer"
)

// schedule is the temperature, attraction and damping of one stage plus
// their per-iteration decay.
type schedule struct {
	name        string
	length      int
	temperature float64
	attraction  float64
	damping     float64
	decay       func(s *schedule)
}

// floors below which the stage decay stops.
const (
	minAttraction  = 1.0
	minDamping     = 0.1
	minTemperature = 50.0
)

func schedules(p OpenOrdParams) []schedule {
	all := []schedule{
		{name: StageLiquid, length: p.LiquidStage, temperature: 2000, attraction: 10, damping: 1.0},
		{name: StageExpansion, length: p.ExpansionStage, temperature: 2000, attraction: 2, damping: 1.0,
			decay: func(s *schedule) {
				if s.attraction > minAttraction {
					s.attraction -= 0.05
				}
				if s.damping > minDamping {
					s.damping -= 0.005
				}
			}},
		{name: StageCooldown, length: p.CooldownStage, temperature: 2000, attraction: 1, damping: 0.1,
			decay: func(s *schedule) {
				if s.temperature > minTemperature {
					s.temperature -= 10
				}
				if s.damping > minDamping {
					s.damping -= 0.005
				}
			}},
		{name: StageCrunch, length: p.CrunchStage, temperature: 250, attraction: 1, damping: 0.25},
		{name: StageSimmer, length: p.SimmerStage, temperature: 250, attraction: 0.5, damping: 0.0,
			decay: func(s *schedule) {
				if s.temperature > minTemperature {
					s.temperature -= 2
				}
			}},
	}
	var out []schedule
	for _, s := range all {
		if s.length > 0 {
			out = append(out, s)
		}
	}
	return out
}

// neighbor is a weighted adjacency entry.
type neighbor struct {
	j int
	w float64
}

// OpenOrd is the staged OpenOrd layout. Each iteration every free node
// compares a damped move towards the weighted centroid of its neighbours
// with a random jump around it and keeps the position of lower energy.
// Energy is edge attraction plus the local density of other nodes.
type OpenOrd struct {
	engine
	params OpenOrdParams

	sys    *force.System
	grid   *spatial.Grid
	adj    [][]neighbor
	rng    *rand.Rand
	stages []schedule
	stage  int
	inStep int
}

// NewOpenOrd creates an OpenOrd pass over g.
func NewOpenOrd(g *graph.Graph, p OpenOrdParams, opts ...Option) *OpenOrd {
	p.SetDefaults()
	return &OpenOrd{engine: newEngine("OpenOrd", g, opts), params: p}
}

// Params returns the effective parameters.
func (o *OpenOrd) Params() OpenOrdParams { return o.params }

// Stage returns the name of the stage the next iteration runs in, or ""
// once every stage is done.
func (o *OpenOrd) Stage() string {
	if o.stage >= len(o.stages) {
		return ""
	}
	return o.stages[o.stage].name
}

// InitAlgo implements Algorithm.
func (o *OpenOrd) InitAlgo() error {
	if err := o.checkGraph(); err != nil {
		return err
	}
	if err := validateParams(o.name, &o.params); err != nil {
		return err
	}
	p := o.params
	o.sys = force.NewSystem(o.g)
	o.grid = &spatial.Grid{CellSize: p.DensityRadius}
	o.adj = make([][]neighbor, o.sys.Len())
	for _, sp := range o.sys.Springs {
		if sp.Source == sp.Target || sp.Weight == 0 {
			continue
		}
		o.adj[sp.Source] = append(o.adj[sp.Source], neighbor{sp.Target, sp.Weight})
		o.adj[sp.Target] = append(o.adj[sp.Target], neighbor{sp.Source, sp.Weight})
	}
	o.rng = rand.New(rand.NewPCG(p.Seed, p.Seed^0xdeadbeef))
	o.stages = schedules(p)
	o.stage, o.inStep = 0, 0
	o.begin(p.totalStages())
	return nil
}

// GoAlgo implements Algorithm.
func (o *OpenOrd) GoAlgo() error {
	return o.step(func() (Step, bool, error) {
		cur := &o.stages[o.stage]
		o.sys.Sync()
		n := o.sys.Len()
		o.grid.Build(o.sys.Bodies(func(int) float64 { return 1 }))

		// Jumps are drawn up front so the result does not depend on how
		// the nodes are split over workers.
		jumps := make([]geom.Vector, n)
		scale := 0.01 * cur.temperature
		for i := range jumps {
			jumps[i] = geom.Vector{X: (0.5 - o.rng.Float64()) * scale, Y: (0.5 - o.rng.Float64()) * scale}
		}

		quartic := cur.name == StageLiquid || cur.name == StageExpansion
		af := math.Pow(cur.attraction, 4) * 0.02
		disp := make([]geom.Vector, n)
		energies := make([]float64, n)
		err := force.ParallelFor(o.opts.ctx, n, o.opts.workers, func(lo, hi int) error {
			for i := lo; i < hi; i++ {
				if o.sys.Nodes[i].Fixed {
					continue
				}
				old := o.sys.Pos[i]
				analytic := old
				if c, ok := o.centroid(i); ok {
					analytic = old.Scale(1 - cur.damping).Add(c.Scale(cur.damping))
				}
				jump := analytic.Add(jumps[i])

				best, e := analytic, o.energy(i, analytic, af, quartic)
				if ej := o.energy(i, jump, af, quartic); ej < e {
					best, e = jump, ej
				}
				disp[i] = best.Sub(old)
				energies[i] = e
			}
			return nil
		})
		if err != nil {
			return Step{}, false, err
		}

		mv := o.sys.Apply(disp, 0)
		var total float64
		for _, e := range energies {
			total += e
		}
		st := Step{Stage: cur.name, TotalDisplacement: mv.Total, MaxDisplacement: mv.Max, Energy: total}
		o.advance()
		return st, false, nil
	})
}

// centroid returns the weighted centroid of i's neighbours.
func (o *OpenOrd) centroid(i int) (geom.Vector, bool) {
	var c geom.Vector
	var w float64
	for _, nb := range o.adj[i] {
		c = c.Add(o.sys.Pos[nb.j].Scale(nb.w))
		w += nb.w
	}
	if w == 0 {
		return geom.Vector{}, false
	}
	return c.Scale(1 / w), true
}

// energy is the attraction of i's edges at p plus the density around p.
func (o *OpenOrd) energy(i int, p geom.Vector, af float64, quartic bool) float64 {
	var e float64
	for _, nb := range o.adj[i] {
		d := p.Sub(o.sys.Pos[nb.j]).Norm()
		d2 := d * d
		if quartic {
			d2 *= d2
		}
		e += nb.w * af * d2
	}
	return e + o.grid.Density(p.X, p.Y, i)
}

// advance applies the stage decay and moves to the next stage when the
// current one is exhausted.
func (o *OpenOrd) advance() {
	cur := &o.stages[o.stage]
	if cur.decay != nil {
		cur.decay(cur)
	}
	o.inStep++
	if o.inStep >= cur.length {
		o.stage++
		o.inStep = 0
	}
}

// EndAlgo implements Algorithm.
func (o *OpenOrd) EndAlgo() {
	o.sys, o.grid, o.adj, o.rng = nil, nil, nil, nil
	o.stages = nil
	o.end()
}

var _ Algorithm = (*OpenOrd)(nil)
