package spatial

import (
	"math"

	"github.com/matzehuels/forcelayout/pkg/geom"
)

// Grid buckets bodies into square cells and only lets bodies in the same or
// an adjacent cell interact. Forces beyond one cell are dropped, so the grid
// suits short-range laws and density estimates rather than long-range
// repulsion.
//
// A zero CellSize is derived at Build time from the average spacing
// sqrt(area/n) of the bodies.
type Grid struct {
	CellSize float64

	bodies []Body
	size   float64
	cells  map[gridKey][]int
}

type gridKey struct{ x, y int }

// Len returns the number of indexed bodies.
func (g *Grid) Len() int { return len(g.bodies) }

// Cell returns the cell edge length used by the last Build.
func (g *Grid) Cell() float64 { return g.size }

// Build buckets bodies.
func (g *Grid) Build(bodies []Body) {
	g.bodies = bodies
	g.cells = make(map[gridKey][]int, len(bodies))
	g.size = g.CellSize
	if g.size <= 0 {
		g.size = autoCellSize(bodies)
	}
	for i, b := range bodies {
		k := g.key(b.X, b.Y)
		g.cells[k] = append(g.cells[k], i)
	}
}

func (g *Grid) key(x, y float64) gridKey {
	return gridKey{int(math.Floor(x / g.size)), int(math.Floor(y / g.size))}
}

// neighbors calls fn for every body in the 3x3 block of cells around (x, y).
func (g *Grid) neighbors(x, y float64, fn func(j int)) {
	k := g.key(x, y)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for _, j := range g.cells[gridKey{k.x + dx, k.y + dy}] {
				fn(j)
			}
		}
	}
}

// ForceOn sums law over bodies in the neighbouring cells.
func (g *Grid) ForceOn(i int, law Law) geom.Vector {
	var f geom.Vector
	self := g.bodies[i]
	g.neighbors(self.X, self.Y, func(j int) {
		if j != i {
			f = f.Add(pair(law, i, j, self, g.bodies[j]))
		}
	})
	return f
}

// Density returns the crowding at (x, y) from bodies other than exclude.
// Each body within one cell edge contributes mass·(1 - d/cell)², so the
// value is smooth in x and y and zero in empty space.
func (g *Grid) Density(x, y float64, exclude int) float64 {
	var d float64
	g.neighbors(x, y, func(j int) {
		if j == exclude {
			return
		}
		b := g.bodies[j]
		dist := math.Hypot(x-b.X, y-b.Y)
		if dist >= g.size {
			return
		}
		t := 1 - dist/g.size
		d += massOf(b) * t * t
	})
	return d
}

func autoCellSize(bodies []Body) float64 {
	if len(bodies) < 2 {
		return 1
	}
	pts := make([]geom.Vector, len(bodies))
	for i, b := range bodies {
		pts[i] = b.Pos()
	}
	r := geom.Bounds(pts)
	area := math.Max(r.Width(), MinDistance) * math.Max(r.Height(), MinDistance)
	s := math.Sqrt(area / float64(len(bodies)))
	if s < MinDistance || !geom.IsFinite(s) {
		return 1
	}
	return s
}

var _ Index = (*Grid)(nil)
