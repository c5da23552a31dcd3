package layout

import (
	"github.com/matzehuels/forcelayout/pkg/geom"
	"github.com/matzehuels/forcelayout/pkg/graph"
)

// DefaultDegenerateThreshold is the positional variance below which a
// layout counts as collapsed.
const DefaultDegenerateThreshold = 1.0

// Variance returns the population variance of node positions per axis.
func Variance(g *graph.Graph) (vx, vy float64) {
	if g == nil {
		return 0, 0
	}
	return geom.Variance(g.Positions())
}

// Degenerate reports whether the layout has collapsed, i.e. the variance on
// both axes is below threshold. A collapsed layout should be reseeded with
// a Random pass before continuing.
func Degenerate(g *graph.Graph, threshold float64) bool {
	vx, vy := Variance(g)
	return vx < threshold && vy < threshold
}
