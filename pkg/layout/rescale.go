package layout

import (
	"math"

	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/spatial"
)

// Rescale scales the layout about the origin so that the shortest edge has
// length MinEdgeLength. Graphs without a measurable edge are left alone.
type Rescale struct {
	engine
	params RescaleParams
}

// NewRescale creates a Rescale pass over g.
func NewRescale(g *graph.Graph, p RescaleParams, opts ...Option) *Rescale {
	p.SetDefaults()
	return &Rescale{engine: newEngine("Rescale", g, opts), params: p}
}

// InitAlgo implements Algorithm.
func (r *Rescale) InitAlgo() error {
	if err := r.checkGraph(); err != nil {
		return err
	}
	if err := validateParams(r.name, &r.params); err != nil {
		return err
	}
	r.begin(1)
	return nil
}

// GoAlgo implements Algorithm.
func (r *Rescale) GoAlgo() error {
	return r.step(func() (Step, bool, error) {
		shortest := math.Inf(1)
		for _, e := range r.g.Edges() {
			a, _ := r.g.Node(e.From)
			b, _ := r.g.Node(e.To)
			if d := a.Pos().Sub(b.Pos()).Norm(); d >= spatial.MinDistance && d < shortest {
				shortest = d
			}
		}

		var st Step
		if math.IsInf(shortest, 1) {
			return st, true, nil
		}
		k := r.params.MinEdgeLength / shortest
		for _, n := range r.g.Nodes() {
			if n.Fixed {
				continue
			}
			p := n.Pos().Scale(k)
			d := p.Sub(n.Pos()).Norm()
			st.TotalDisplacement += d
			st.MaxDisplacement = max(st.MaxDisplacement, d)
			n.SetPos(p)
		}
		return st, true, nil
	})
}

// EndAlgo implements Algorithm.
func (r *Rescale) EndAlgo() { r.end() }

var _ Algorithm = (*Rescale)(nil)
