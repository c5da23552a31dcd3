package layout

import (
	"github.com/matzehuels/forcelayout/pkg/geom"
	"github.com/matzehuels/forcelayout/pkg/graph"
)

// Center translates the layout so that the centroid of the free nodes sits
// at the origin. Fixed nodes neither move nor count towards the centroid.
type Center struct {
	engine
}

// NewCenter creates a Center pass over g.
func NewCenter(g *graph.Graph, opts ...Option) *Center {
	return &Center{engine: newEngine("Center", g, opts)}
}

// InitAlgo implements Algorithm.
func (c *Center) InitAlgo() error {
	if err := c.checkGraph(); err != nil {
		return err
	}
	c.begin(1)
	return nil
}

// GoAlgo implements Algorithm.
func (c *Center) GoAlgo() error {
	return c.step(func() (Step, bool, error) {
		var free []geom.Vector
		for _, n := range c.g.Nodes() {
			if !n.Fixed {
				free = append(free, n.Pos())
			}
		}
		shift := geom.Centroid(free)
		d := shift.Norm()
		for _, n := range c.g.Nodes() {
			if !n.Fixed {
				n.SetPos(n.Pos().Sub(shift))
			}
		}
		return Step{TotalDisplacement: d * float64(len(free)), MaxDisplacement: d}, true, nil
	})
}

// EndAlgo implements Algorithm.
func (c *Center) EndAlgo() { c.end() }

var _ Algorithm = (*Center)(nil)
