// Package force computes per-node force vectors for one layout iteration
// and applies capped displacements back to the graph.
//
// A [System] snapshots graph topology once per layout run. Each iteration
// calls [System.Sync] (pull positions), [Forces] (pure: read the snapshot,
// return vectors) and [System.Apply] (write positions), so every node sees
// the same positions while forces are summed.
package force

import (
	"github.com/matzehuels/forcelayout/pkg/geom"
	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/spatial"
)

// Spring is an edge expressed by node indices.
type Spring struct {
	Source, Target int
	Weight         float64
}

// System is the index-based view of a graph used during a layout run.
type System struct {
	Nodes     []*graph.Node
	Pos       []geom.Vector
	Springs   []Spring
	Degree    []int
	OutDegree []int
}

// NewSystem snapshots the topology of g. Node pointers are kept, so Apply
// writes straight into the graph.
func NewSystem(g *graph.Graph) *System {
	nodes := g.Nodes()
	s := &System{
		Nodes:     nodes,
		Pos:       make([]geom.Vector, len(nodes)),
		Degree:    make([]int, len(nodes)),
		OutDegree: make([]int, len(nodes)),
	}
	for _, e := range g.Edges() {
		src, _ := g.Index(e.From)
		dst, _ := g.Index(e.To)
		s.Springs = append(s.Springs, Spring{Source: src, Target: dst, Weight: e.Weight})
		s.Degree[src]++
		s.Degree[dst]++
		s.OutDegree[src]++
	}
	s.Sync()
	return s
}

// Len returns the number of nodes.
func (s *System) Len() int { return len(s.Nodes) }

// Sync copies node positions into Pos.
func (s *System) Sync() {
	for i, n := range s.Nodes {
		s.Pos[i] = n.Pos()
	}
}

// Bodies returns one spatial body per node with the given mass function.
func (s *System) Bodies(mass func(i int) float64) []spatial.Body {
	bodies := make([]spatial.Body, len(s.Nodes))
	for i, n := range s.Nodes {
		bodies[i] = spatial.Body{X: s.Pos[i].X, Y: s.Pos[i].Y, Mass: mass(i), Size: n.Size}
	}
	return bodies
}

// Movement summarizes the displacements applied in one iteration.
type Movement struct {
	Total float64
	Max   float64
}

// Apply moves every free node by its displacement, capped at max (no cap
// when max <= 0). Non-finite displacements are dropped and fixed nodes stay
// put. Both Pos and the graph nodes are updated.
func (s *System) Apply(disp []geom.Vector, max float64) Movement {
	var m Movement
	for i, n := range s.Nodes {
		if n.Fixed {
			continue
		}
		d := disp[i]
		if !d.Finite() {
			continue
		}
		d = d.Clamp(max)
		p := s.Pos[i].Add(d)
		if !p.Finite() {
			continue
		}
		s.Pos[i] = p
		n.SetPos(p)

		l := d.Norm()
		m.Total += l
		if l > m.Max {
			m.Max = l
		}
	}
	return m
}
