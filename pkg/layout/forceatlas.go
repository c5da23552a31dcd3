package layout

import (
	"math"

	"github.com/matzehuels/forcelayout/pkg/force"
	"github.com/matzehuels/forcelayout/pkg/geom"
	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/spatial"
)

// ForceAtlas is the classic ForceAtlas layout: degree-weighted repulsion,
// linear attraction and weak gravity, integrated with inertia. With
// FreezeBalance on, nodes whose direction keeps flipping are slowed down.
type ForceAtlas struct {
	engine
	params ForceAtlasParams

	sys      *force.System
	model    *force.ForceAtlas
	idx      spatial.Index
	velocity []geom.Vector
	freeze   []float64
}

// NewForceAtlas creates a ForceAtlas pass over g.
func NewForceAtlas(g *graph.Graph, p ForceAtlasParams, opts ...Option) *ForceAtlas {
	p.SetDefaults()
	return &ForceAtlas{engine: newEngine("ForceAtlas", g, opts), params: p}
}

// Params returns the effective parameters.
func (f *ForceAtlas) Params() ForceAtlasParams { return f.params }

// InitAlgo implements Algorithm.
func (f *ForceAtlas) InitAlgo() error {
	if err := f.checkGraph(); err != nil {
		return err
	}
	if err := validateParams(f.name, &f.params); err != nil {
		return err
	}
	p := f.params
	f.sys = force.NewSystem(f.g)
	f.model = &force.ForceAtlas{
		RepulsionStrength:              p.Repulsion,
		AttractionStrength:             p.Attraction,
		GravityStrength:                p.Gravity,
		AdjustSizes:                    isTrue(p.AdjustSizes),
		OutboundAttractionDistribution: isTrue(p.OutboundAttractionDistribution),
	}
	f.idx = f.index(p.Theta)
	f.velocity = make([]geom.Vector, f.sys.Len())
	f.freeze = make([]float64, f.sys.Len())
	f.begin(p.MaxIterations)
	return nil
}

// GoAlgo implements Algorithm.
func (f *ForceAtlas) GoAlgo() error {
	return f.step(func() (Step, bool, error) {
		f.sys.Sync()
		forces, err := force.Forces(f.opts.ctx, f.sys, f.model, f.idx, f.opts.workers)
		if err != nil {
			return Step{}, false, err
		}

		p := f.params
		balance := isTrue(p.FreezeBalance)
		inertia := floatOr(p.Inertia, DefaultFAInertia)
		freezeInertia := floatOr(p.FreezeInertia, DefaultFAFreezeInertia)
		freezeStrength := floatOr(p.FreezeStrength, DefaultFAFreezeStrength)
		disp := make([]geom.Vector, len(forces))
		var energy float64
		for i, fv := range forces {
			if f.sys.Nodes[i].Fixed {
				f.velocity[i] = geom.Vector{}
				continue
			}
			energy += fv.Dot(fv)

			raw := f.velocity[i].Scale(inertia).Add(fv.Scale(p.Speed))
			ratio := 1.0
			if balance {
				change := raw.Sub(f.velocity[i]).Norm()
				f.freeze[i] = freezeInertia*f.freeze[i] + (1-freezeInertia)*0.1*freezeStrength*math.Sqrt(change)
				ratio = min(1/(1+f.freeze[i]), p.MaxDisplacement/(raw.Norm()+0.0001))
			}
			disp[i] = raw.Scale(ratio).Clamp(p.MaxDisplacement)
			f.velocity[i] = disp[i]
		}

		mv := f.sys.Apply(disp, p.MaxDisplacement)
		return Step{TotalDisplacement: mv.Total, MaxDisplacement: mv.Max, Energy: energy}, false, nil
	})
}

// EndAlgo implements Algorithm.
func (f *ForceAtlas) EndAlgo() {
	f.sys, f.model, f.idx = nil, nil, nil
	f.velocity, f.freeze = nil, nil
	f.end()
}

var _ Algorithm = (*ForceAtlas)(nil)
