package layout

import (
	"math/rand/v2"

	"github.com/matzehuels/forcelayout/pkg/geom"
	"github.com/matzehuels/forcelayout/pkg/graph"
)

// Random places every free node uniformly in [-Size/2, Size/2]² in one
// iteration. The same seed always yields the same positions.
type Random struct {
	engine
	params RandomParams
	rng    *rand.Rand
}

// NewRandom creates a Random pass over g.
func NewRandom(g *graph.Graph, p RandomParams, opts ...Option) *Random {
	p.SetDefaults()
	return &Random{engine: newEngine("Random", g, opts), params: p}
}

// InitAlgo implements Algorithm.
func (r *Random) InitAlgo() error {
	if err := r.checkGraph(); err != nil {
		return err
	}
	if err := validateParams(r.name, &r.params); err != nil {
		return err
	}
	seed := r.params.Seed
	r.rng = rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	r.begin(1)
	return nil
}

// GoAlgo implements Algorithm.
func (r *Random) GoAlgo() error {
	return r.step(func() (Step, bool, error) {
		var st Step
		size := r.params.Size
		for _, n := range r.g.Nodes() {
			// Draw for fixed nodes too so that pinning a node does not
			// reshuffle everyone else.
			p := geom.Vector{X: size * (r.rng.Float64() - 0.5), Y: size * (r.rng.Float64() - 0.5)}
			if n.Fixed {
				continue
			}
			d := p.Sub(n.Pos()).Norm()
			st.TotalDisplacement += d
			st.MaxDisplacement = max(st.MaxDisplacement, d)
			n.SetPos(p)
		}
		return st, true, nil
	})
}

// EndAlgo implements Algorithm.
func (r *Random) EndAlgo() {
	r.rng = nil
	r.end()
}

var _ Algorithm = (*Random)(nil)
