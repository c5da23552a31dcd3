package force

import (
	"github.com/matzehuels/forcelayout/pkg/geom"
	"github.com/matzehuels/forcelayout/pkg/spatial"
)

// collisionFactor multiplies repulsion between overlapping nodes when
// AdjustSizes is on.
const collisionFactor = 100

// fixedBonus multiplies attraction on edges with a fixed endpoint.
const fixedBonus = 100

// ForceAtlas holds the ForceAtlas force laws.
//
// Base mass is 1+degree. Repulsion between two bodies is
// RepulsionStrength·m1·m2/d and attraction along an edge is
// AttractionStrength·weight·d. Gravity pulls every node towards the origin
// with magnitude 0.0001·GravityStrength·|p|.
type ForceAtlas struct {
	RepulsionStrength  float64
	AttractionStrength float64
	GravityStrength    float64

	// AdjustSizes measures distances between node borders instead of
	// centres; overlapping nodes repel with a constant collision force and
	// do not attract.
	AdjustSizes bool

	// OutboundAttractionDistribution divides edge attraction by
	// 1+out-degree of the source, pushing hubs to the periphery.
	OutboundAttractionDistribution bool
}

// Mass implements Model.
func (f *ForceAtlas) Mass(s *System, i int) float64 { return float64(1 + s.Degree[i]) }

// Repulsion implements Model.
func (f *ForceAtlas) Repulsion(self, other spatial.Body, delta geom.Vector, dist float64) geom.Vector {
	c := f.RepulsionStrength * self.Mass * other.Mass
	dir := delta.Scale(1 / dist)
	if !f.AdjustSizes {
		return dir.Scale(c / dist)
	}
	gap := dist - self.Size - other.Size
	switch {
	case gap > 0:
		return dir.Scale(c / gap)
	case gap < 0:
		return dir.Scale(collisionFactor * c)
	default:
		return geom.Vector{}
	}
}

// Attraction implements Model.
func (f *ForceAtlas) Attraction(s *System, sp Spring, delta geom.Vector, dist float64) geom.Vector {
	c := f.AttractionStrength * sp.Weight
	if s.Nodes[sp.Source].Fixed || s.Nodes[sp.Target].Fixed {
		c *= fixedBonus
	}
	if f.OutboundAttractionDistribution {
		c /= float64(1 + s.OutDegree[sp.Source])
	}
	dir := delta.Scale(1 / dist)
	if !f.AdjustSizes {
		return dir.Scale(c * dist)
	}
	gap := dist - s.Nodes[sp.Source].Size - s.Nodes[sp.Target].Size
	if gap <= 0 {
		return geom.Vector{}
	}
	return dir.Scale(c * gap)
}

// Gravity implements Model.
func (f *ForceAtlas) Gravity(s *System, i int) geom.Vector {
	return s.Pos[i].Scale(-0.0001 * f.GravityStrength)
}

var _ Model = (*ForceAtlas)(nil)
