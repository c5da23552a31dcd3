// Package geom provides the small amount of 2-D geometry shared by the
// spatial index, the force model and the layout algorithms.
package geom

import "math"

// Vector is a point or displacement in the layout plane.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o.
func (v Vector) Add(o Vector) Vector { return Vector{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector { return Vector{v.X - o.X, v.Y - o.Y} }

// Scale returns v * k.
func (v Vector) Scale(k float64) Vector { return Vector{v.X * k, v.Y * k} }

// Norm returns the Euclidean length of v.
func (v Vector) Norm() float64 { return math.Hypot(v.X, v.Y) }

// Dot returns the dot product of v and o.
func (v Vector) Dot(o Vector) float64 { return v.X*o.X + v.Y*o.Y }

// Finite reports whether both components are neither NaN nor infinite.
func (v Vector) Finite() bool { return IsFinite(v.X) && IsFinite(v.Y) }

// IsZero reports whether v is the zero vector.
func (v Vector) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Clamp limits the length of v to max, preserving direction.
// A non-positive max leaves v unchanged.
func (v Vector) Clamp(max float64) Vector {
	if max <= 0 {
		return v
	}
	n := v.Norm()
	if n <= max || n == 0 {
		return v
	}
	return v.Scale(max / n)
}

// IsFinite reports whether f is neither NaN nor infinite.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
