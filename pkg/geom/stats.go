package geom

import "math"

// Rect is an axis-aligned bounding box.
type Rect struct {
	Min, Max Vector
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Bounds returns the bounding box of pts. The zero Rect is returned for an
// empty slice.
func Bounds(pts []Vector) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	r := Rect{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r
}

// Centroid returns the arithmetic mean of pts, or the origin for an empty slice.
func Centroid(pts []Vector) Vector {
	if len(pts) == 0 {
		return Vector{}
	}
	var c Vector
	for _, p := range pts {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(pts)))
}

// Variance returns the population variance of the x and y coordinates.
func Variance(pts []Vector) (vx, vy float64) {
	if len(pts) == 0 {
		return 0, 0
	}
	c := Centroid(pts)
	for _, p := range pts {
		dx, dy := p.X-c.X, p.Y-c.Y
		vx += dx * dx
		vy += dy * dy
	}
	n := float64(len(pts))
	return vx / n, vy / n
}
