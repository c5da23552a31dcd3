package spatial

import (
	"math"

	"github.com/matzehuels/forcelayout/pkg/geom"
)

// Quad-tree defaults.
const (
	DefaultTheta    = 1.2
	DefaultMaxDepth = 24
)

// QuadTree is a Barnes-Hut index. Every cell carries the total mass and
// centre of mass of the bodies below it; a cell that does not contain the
// queried body is treated as one body when width/dist < Theta.
//
// Theta 0 disables approximation and reproduces [Exact]. Leaves at MaxDepth
// hold any number of bodies, which bounds the tree height when bodies
// coincide.
type QuadTree struct {
	Theta    float64
	MaxDepth int

	bodies []Body
	cells  []quadCell
}

type quadCell struct {
	minX, minY, size float64
	cx, cy, mass     float64
	children         [4]int32
	bodies           []int
	leaf             bool
}

func newCell(minX, minY, size float64) quadCell {
	return quadCell{minX: minX, minY: minY, size: size, children: [4]int32{-1, -1, -1, -1}, leaf: true}
}

func (c *quadCell) contains(p geom.Vector) bool {
	return p.X >= c.minX && p.X <= c.minX+c.size && p.Y >= c.minY && p.Y <= c.minY+c.size
}

// Len returns the number of indexed bodies.
func (q *QuadTree) Len() int { return len(q.bodies) }

// Build constructs the tree over a padded square around all bodies.
func (q *QuadTree) Build(bodies []Body) {
	q.bodies = bodies
	q.cells = q.cells[:0]
	if len(bodies) == 0 {
		return
	}
	if q.MaxDepth <= 0 {
		q.MaxDepth = DefaultMaxDepth
	}

	pts := make([]geom.Vector, len(bodies))
	for i, b := range bodies {
		pts[i] = b.Pos()
	}
	r := geom.Bounds(pts)
	size := math.Max(r.Width(), r.Height())
	pad := math.Max(size*0.1, MinDistance)
	size += 2 * pad
	cx, cy := (r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2

	q.cells = append(q.cells, newCell(cx-size/2, cy-size/2, size))
	for i := range bodies {
		q.insert(0, i, 0)
	}
}

func (q *QuadTree) insert(c, i, depth int) {
	b := q.bodies[i]
	m := massOf(b)

	cell := &q.cells[c]
	total := cell.mass + m
	cell.cx = (cell.cx*cell.mass + b.X*m) / total
	cell.cy = (cell.cy*cell.mass + b.Y*m) / total
	cell.mass = total

	if cell.leaf {
		if len(cell.bodies) == 0 || depth >= q.MaxDepth {
			cell.bodies = append(cell.bodies, i)
			return
		}
		old := cell.bodies[0]
		cell.bodies = nil
		cell.leaf = false
		q.insert(q.child(c, q.bodies[old]), old, depth+1)
	}
	q.insert(q.child(c, b), i, depth+1)
}

// child returns the index of the quadrant of c that holds b, creating it on
// first use. q.cells may grow, so callers must not hold cell pointers across
// this call.
func (q *QuadTree) child(c int, b Body) int {
	cell := q.cells[c]
	half := cell.size / 2
	k := 0
	minX, minY := cell.minX, cell.minY
	if b.X >= cell.minX+half {
		k |= 1
		minX += half
	}
	if b.Y >= cell.minY+half {
		k |= 2
		minY += half
	}
	if idx := cell.children[k]; idx >= 0 {
		return int(idx)
	}
	q.cells = append(q.cells, newCell(minX, minY, half))
	idx := len(q.cells) - 1
	q.cells[c].children[k] = int32(idx)
	return idx
}

// ForceOn walks the tree for body i.
func (q *QuadTree) ForceOn(i int, law Law) geom.Vector {
	var f geom.Vector
	if len(q.cells) == 0 {
		return f
	}
	self := q.bodies[i]
	p := self.Pos()

	stack := make([]int32, 1, 64)
	for len(stack) > 0 {
		c := &q.cells[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		if c.mass == 0 {
			continue
		}

		if c.leaf {
			for _, j := range c.bodies {
				if j != i {
					f = f.Add(pair(law, i, j, self, q.bodies[j]))
				}
			}
			continue
		}

		if !c.contains(p) {
			delta := geom.Vector{X: p.X - c.cx, Y: p.Y - c.cy}
			dist := delta.Norm()
			if dist > 0 && c.size/dist < q.Theta {
				if dist < MinDistance {
					delta = delta.Scale(MinDistance / dist)
					dist = MinDistance
				}
				agg := Body{X: c.cx, Y: c.cy, Mass: c.mass}
				f = f.Add(finite(law(self, agg, delta, dist)))
				continue
			}
		}

		for _, ch := range c.children {
			if ch >= 0 {
				stack = append(stack, ch)
			}
		}
	}
	return f
}

func massOf(b Body) float64 {
	if b.Mass <= 0 {
		return 1
	}
	return b.Mass
}

var _ Index = (*QuadTree)(nil)
