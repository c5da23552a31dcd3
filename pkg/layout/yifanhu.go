package layout

import (
	"math"

	"github.com/matzehuels/forcelayout/pkg/force"
	"github.com/matzehuels/forcelayout/pkg/geom"
	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/spatial"
)

// progressSteps is the number of consecutive energy decreases after which
// adaptive cooling enlarges the step again.
const progressSteps = 5

// YifanHu is the Yifan Hu spring-electrical layout with Barnes-Hut
// repulsion and an adaptive step length. Every free node moves a fixed
// distance along its net force; the step shrinks while the system energy
// rises and grows after a run of decreases.
type YifanHu struct {
	engine
	params YifanHuParams

	sys      *force.System
	model    *force.YifanHu
	idx      spatial.Index
	stepLen  float64
	energy   float64
	energy0  float64
	progress int
}

// NewYifanHu creates a Yifan Hu pass over g.
func NewYifanHu(g *graph.Graph, p YifanHuParams, opts ...Option) *YifanHu {
	p.SetDefaults()
	return &YifanHu{engine: newEngine("YifanHu", g, opts), params: p}
}

// Params returns the effective parameters.
func (y *YifanHu) Params() YifanHuParams { return y.params }

// StepLength returns the current step length.
func (y *YifanHu) StepLength() float64 { return y.stepLen }

// InitAlgo implements Algorithm.
func (y *YifanHu) InitAlgo() error {
	if err := y.checkGraph(); err != nil {
		return err
	}
	if err := validateParams(y.name, &y.params); err != nil {
		return err
	}
	p := y.params
	y.sys = force.NewSystem(y.g)
	y.model = &force.YifanHu{K: p.OptimalDistance, C: p.RelativeStrength}
	y.idx = y.index(p.Theta)
	y.stepLen = p.InitialStep
	y.energy = math.Inf(1)
	y.energy0 = math.Inf(1)
	y.progress = 0
	y.begin(p.MaxIterations)
	return nil
}

// GoAlgo implements Algorithm.
func (y *YifanHu) GoAlgo() error {
	return y.step(func() (Step, bool, error) {
		y.sys.Sync()
		forces, err := force.Forces(y.opts.ctx, y.sys, y.model, y.idx, y.opts.workers)
		if err != nil {
			return Step{}, false, err
		}

		y.energy0 = y.energy
		y.energy = 0
		move := y.stepLen * y.params.StepDisplacement
		disp := make([]geom.Vector, len(forces))
		for i, fv := range forces {
			if y.sys.Nodes[i].Fixed {
				continue
			}
			n := fv.Norm()
			y.energy += n * n
			if n > 0 {
				disp[i] = fv.Scale(move / n)
			}
		}
		mv := y.sys.Apply(disp, 0)

		y.updateStep()
		st := Step{TotalDisplacement: mv.Total, MaxDisplacement: mv.Max, Energy: y.energy}
		return st, y.converged(), nil
	})
}

func (y *YifanHu) updateStep() {
	r := y.params.StepRatio
	if !isTrue(y.params.AdaptiveCooling) {
		y.stepLen *= r
		return
	}
	if y.energy < y.energy0 {
		y.progress++
		if y.progress >= progressSteps {
			y.progress = 0
			y.stepLen /= r
		}
		return
	}
	y.progress = 0
	y.stepLen *= r
}

// converged reports whether the relative energy change fell below the
// threshold. A system without any net force is converged.
func (y *YifanHu) converged() bool {
	if y.energy == 0 {
		return true
	}
	return math.Abs((y.energy-y.energy0)/y.energy) < y.params.ConvergenceThreshold
}

// EndAlgo implements Algorithm.
func (y *YifanHu) EndAlgo() {
	y.sys, y.model, y.idx = nil, nil, nil
	y.end()
}

var _ Algorithm = (*YifanHu)(nil)
