// Package spatial answers "what force does the rest of the graph exert on
// body i" faster than the quadratic all-pairs sum.
//
// An [Index] is rebuilt from a fresh slice of bodies every iteration and is
// then queried concurrently; implementations keep no mutable state between
// Build and the next Build.
package spatial

import (
	"math"

	"github.com/matzehuels/forcelayout/pkg/errors"
	"github.com/matzehuels/forcelayout/pkg/geom"
)

// MinDistance is the smallest separation a force law ever sees. Closer pairs
// are evaluated at this distance.
const MinDistance = 0.01

// Index kinds accepted by [New].
const (
	KindQuadTree = "quadtree"
	KindGrid     = "grid"
	KindExact    = "exact"
)

// Body is a point mass with a radius. For aggregated quad-tree cells, X and
// Y are the centre of mass, Mass the total mass and Size zero.
type Body struct {
	X, Y float64
	Mass float64
	Size float64
}

// Pos returns the body position.
func (b Body) Pos() geom.Vector { return geom.Vector{X: b.X, Y: b.Y} }

// Law returns the force exerted on self by other. delta points from other
// towards self and has length dist, which is never below MinDistance.
type Law func(self, other Body, delta geom.Vector, dist float64) geom.Vector

// Index accumulates pairwise forces over a set of bodies.
type Index interface {
	// Build replaces the indexed bodies. The slice must not be modified
	// until the next Build.
	Build(bodies []Body)
	// ForceOn sums law over every other body. Safe for concurrent use.
	ForceOn(i int, law Law) geom.Vector
	// Len returns the number of indexed bodies.
	Len() int
}

// New returns an index of the given kind. An empty kind selects the
// quad-tree. theta is the Barnes-Hut opening criterion and cellSize the grid
// cell edge; zero values select defaults.
func New(kind string, theta, cellSize float64) (Index, error) {
	switch kind {
	case "", KindQuadTree:
		if theta < 0 || !geom.IsFinite(theta) {
			return nil, errors.New(errors.ErrCodeInvalidParams, "theta must be a non-negative number, got %v", theta)
		}
		if theta == 0 {
			theta = DefaultTheta
		}
		return &QuadTree{Theta: theta}, nil
	case KindGrid:
		if cellSize < 0 || !geom.IsFinite(cellSize) {
			return nil, errors.New(errors.ErrCodeInvalidParams, "cell size must be a non-negative number, got %v", cellSize)
		}
		return &Grid{CellSize: cellSize}, nil
	case KindExact:
		return &Exact{}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidParams, "unknown spatial index %q (want %s, %s or %s)", kind, KindQuadTree, KindGrid, KindExact)
	}
}

// Separation returns the unit direction used to push body i away from body j
// when the two coincide. It depends only on the unordered pair, flipped for
// the second body, so Separation(i, j) == -Separation(j, i) and the forces
// stay antisymmetric.
func Separation(i, j int) geom.Vector {
	lo, hi := i, j
	sign := 1.0
	if lo > hi {
		lo, hi = hi, lo
		sign = -1
	}
	h := uint64(lo)*0x9E3779B97F4A7C15 ^ uint64(hi)*0xC2B2AE3D27D4EB4F
	h ^= h >> 29
	h *= 0xBF58476D1CE4E5B9
	h ^= h >> 32
	angle := float64(h%3600) / 3600 * 2 * math.Pi
	return geom.Vector{X: sign * math.Cos(angle), Y: sign * math.Sin(angle)}
}

// pair evaluates law between bodies i and j, clamping their distance.
func pair(law Law, i, j int, self, other Body) geom.Vector {
	delta := self.Pos().Sub(other.Pos())
	dist := delta.Norm()
	switch {
	case dist == 0:
		delta = Separation(i, j).Scale(MinDistance)
		dist = MinDistance
	case dist < MinDistance:
		delta = delta.Scale(MinDistance / dist)
		dist = MinDistance
	}
	return finite(law(self, other, delta, dist))
}

// finite drops non-finite contributions so one bad pair cannot poison a sum.
func finite(v geom.Vector) geom.Vector {
	if !v.Finite() {
		return geom.Vector{}
	}
	return v
}
