package spatial

import "github.com/matzehuels/forcelayout/pkg/geom"

// Exact sums every pair directly. It is the O(n²) reference the
// approximating indexes are measured against.
type Exact struct {
	bodies []Body
}

// Build stores bodies.
func (e *Exact) Build(bodies []Body) { e.bodies = bodies }

// Len returns the number of indexed bodies.
func (e *Exact) Len() int { return len(e.bodies) }

// ForceOn sums law over all j != i.
func (e *Exact) ForceOn(i int, law Law) geom.Vector {
	var f geom.Vector
	self := e.bodies[i]
	for j, other := range e.bodies {
		if j == i {
			continue
		}
		f = f.Add(pair(law, i, j, self, other))
	}
	return f
}

var _ Index = (*Exact)(nil)
