package force

import (
	"github.com/matzehuels/forcelayout/pkg/geom"
	"github.com/matzehuels/forcelayout/pkg/spatial"
)

// YifanHu holds the Yifan Hu spring-electrical force laws with natural
// spring length K and relative repulsion strength C: repulsion C·K²/d,
// attraction weight·d²/K, unit base mass and no gravity. Repulsion scales
// with the mass of the pushing body.
type YifanHu struct {
	K float64
	C float64
}

// Mass implements Model.
func (y *YifanHu) Mass(*System, int) float64 { return 1 }

// Repulsion implements Model.
func (y *YifanHu) Repulsion(self, other spatial.Body, delta geom.Vector, dist float64) geom.Vector {
	return delta.Scale(y.C * y.K * y.K * other.Mass / (dist * dist))
}

// Attraction implements Model.
func (y *YifanHu) Attraction(s *System, sp Spring, delta geom.Vector, dist float64) geom.Vector {
	return delta.Scale(sp.Weight * dist / y.K)
}

// Gravity implements Model.
func (y *YifanHu) Gravity(*System, int) geom.Vector { return geom.Vector{} }

var _ Model = (*YifanHu)(nil)
