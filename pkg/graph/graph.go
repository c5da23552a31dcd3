package graph

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/forcelayout/pkg/geom"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrInvalidWeight is returned by [Graph.AddEdge] for negative or
	// non-finite edge weights.
	ErrInvalidWeight = errors.New("edge weight must be finite and non-negative")

	// ErrInvalidPosition is returned when a node carries a NaN or infinite
	// coordinate, size or mass.
	ErrInvalidPosition = errors.New("node attributes must be finite")

	// ErrNotFound is returned by lookups for an ID that is not in the graph.
	ErrNotFound = errors.New("node not found")

	// ErrInvalidEdgeEndpoint is returned by [Graph.Validate] when an edge
	// references a node that doesn't exist. This indicates graph corruption.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")
)

// Metadata stores arbitrary key-value pairs attached to nodes, edges or the
// graph. Layout code never reads it; it is carried through import and export.
type Metadata map[string]any

// Node is a vertex with a mutable position in the layout plane.
//
// Size is the node radius used by size-aware force laws. Mass multiplies
// the body mass the force model assigns to the node, so a heavier node
// repels its neighbours harder; zero means 1. Fixed nodes are
// never moved by any layout pass. Hidden nodes take part in the layout but
// are skipped by exports that request visible nodes only.
type Node struct {
	ID     string
	X, Y   float64
	Size   float64
	Mass   float64
	Fixed  bool
	Hidden bool
	Meta   Metadata
}

// Pos returns the node position as a vector.
func (n *Node) Pos() geom.Vector { return geom.Vector{X: n.X, Y: n.Y} }

// SetPos moves the node.
func (n *Node) SetPos(p geom.Vector) { n.X, n.Y = p.X, p.Y }

// EffectiveMass returns Mass, or 1 when Mass is unset.
func (n *Node) EffectiveMass() float64 {
	if n.Mass <= 0 {
		return 1
	}
	return n.Mass
}

func (n *Node) finite() bool {
	return geom.IsFinite(n.X) && geom.IsFinite(n.Y) && geom.IsFinite(n.Size) && geom.IsFinite(n.Mass)
}

// Edge connects two nodes. Weight is taken literally by the force model: a
// zero weight contributes no attraction. Directed only affects outbound
// attraction distribution and export; forces treat every edge as a spring.
type Edge struct {
	From     string
	To       string
	Weight   float64
	Directed bool
	Meta     Metadata
}

// Graph is the in-memory store the layout algorithms read topology from and
// write positions to.
//
// Nodes keep their insertion order, which makes every layout pass
// deterministic for a given seed. The zero value is not usable - use New.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	nodes    []*Node
	index    map[string]int
	edges    []Edge
	outgoing map[string][]string
	incoming map[string][]string
	meta     Metadata
}

// New creates an empty graph with optional graph-level metadata.
func New(meta Metadata) *Graph {
	if meta == nil {
		meta = Metadata{}
	}
	return &Graph{
		index:    make(map[string]int),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		meta:     meta,
	}
}

// Meta returns the graph-level metadata map. It is never nil.
func (g *Graph) Meta() Metadata { return g.meta }

// AddNode appends a node. Returns ErrInvalidNodeID for an empty ID,
// ErrDuplicateNodeID if the ID is taken and ErrInvalidPosition for
// non-finite attributes.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.index[n.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateNodeID, n.ID)
	}
	if !n.finite() {
		return fmt.Errorf("%w: %q", ErrInvalidPosition, n.ID)
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	g.index[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, &n)
	return nil
}

// AddEdge adds an edge between two existing nodes. Parallel edges and
// self-loops are stored; self-loops exert no force.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.index[e.From]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSourceNode, e.From)
	}
	if _, ok := g.index[e.To]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTargetNode, e.To)
	}
	if e.Weight < 0 || !geom.IsFinite(e.Weight) {
		return fmt.Errorf("%w: %s->%s has %v", ErrInvalidWeight, e.From, e.To, e.Weight)
	}
	if e.Meta == nil {
		e.Meta = Metadata{}
	}
	g.edges = append(g.edges, e)
	g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
	g.incoming[e.To] = append(g.incoming[e.To], e.From)
	return nil
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Nodes returns all nodes in insertion order. The slice is a copy but the
// pointers refer to the stored nodes, so position updates affect the graph.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Node returns the node with the given ID, or an error wrapping ErrNotFound.
func (g *Graph) Node(id string) (*Node, error) {
	i, ok := g.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return g.nodes[i], nil
}

// Index returns the insertion index of the node with the given ID.
func (g *Graph) Index(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// Neighbors returns the nodes adjacent to id through an edge in either
// direction, without duplicates and excluding id itself, in the order the
// connecting edges were added.
func (g *Graph) Neighbors(id string) ([]*Node, error) {
	if _, ok := g.index[id]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	seen := map[string]bool{id: true}
	var out []*Node
	for _, e := range g.edges {
		var other string
		switch id {
		case e.From:
			other = e.To
		case e.To:
			other = e.From
		default:
			continue
		}
		if seen[other] {
			continue
		}
		seen[other] = true
		out = append(out, g.nodes[g.index[other]])
	}
	return out, nil
}

// OutDegree returns the number of edges leaving the node, 0 if unknown.
func (g *Graph) OutDegree(id string) int { return len(g.outgoing[id]) }

// InDegree returns the number of edges entering the node, 0 if unknown.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// Degree returns the total number of edge endpoints at the node.
func (g *Graph) Degree(id string) int { return g.OutDegree(id) + g.InDegree(id) }

// Positions returns the node positions in insertion order.
func (g *Graph) Positions() []geom.Vector {
	out := make([]geom.Vector, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = n.Pos()
	}
	return out
}

// SetPositions writes positions in insertion order. Fixed nodes are left in
// place. The slice length must match NodeCount and every value must be finite.
func (g *Graph) SetPositions(pos []geom.Vector) error {
	if len(pos) != len(g.nodes) {
		return fmt.Errorf("set positions: got %d, want %d", len(pos), len(g.nodes))
	}
	for i, p := range pos {
		if !p.Finite() {
			return fmt.Errorf("%w: %q", ErrInvalidPosition, g.nodes[i].ID)
		}
	}
	for i, n := range g.nodes {
		if !n.Fixed {
			n.SetPos(pos[i])
		}
	}
	return nil
}

// Clone returns a deep copy of the graph. Metadata maps are copied shallowly.
func (g *Graph) Clone() *Graph {
	c := New(maps.Clone(g.meta))
	for _, n := range g.nodes {
		cp := *n
		cp.Meta = maps.Clone(n.Meta)
		c.index[cp.ID] = len(c.nodes)
		c.nodes = append(c.nodes, &cp)
	}
	for _, e := range g.edges {
		e.Meta = maps.Clone(e.Meta)
		c.edges = append(c.edges, e)
	}
	for k, v := range g.outgoing {
		c.outgoing[k] = slices.Clone(v)
	}
	for k, v := range g.incoming {
		c.incoming[k] = slices.Clone(v)
	}
	return c
}

// Validate checks the structural invariants: every edge endpoint exists and
// every node attribute is finite. Graphs built through AddNode and AddEdge
// always validate unless positions were later set to non-finite values
// through node pointers.
func (g *Graph) Validate() error {
	for _, e := range g.edges {
		if _, ok := g.index[e.From]; !ok {
			return fmt.Errorf("%w: %s->%s", ErrInvalidEdgeEndpoint, e.From, e.To)
		}
		if _, ok := g.index[e.To]; !ok {
			return fmt.Errorf("%w: %s->%s", ErrInvalidEdgeEndpoint, e.From, e.To)
		}
	}
	for _, n := range g.nodes {
		if !n.finite() {
			return fmt.Errorf("%w: %q", ErrInvalidPosition, n.ID)
		}
	}
	return nil
}
