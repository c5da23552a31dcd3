package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// =============================================================================
// Document - Wire Format
// =============================================================================

// Document is the canonical serialization format for graphs and laid-out
// graphs. Used for files, API bodies and cache keys.
//
// The format is human-readable and round-trips: import → layout → export →
// re-import reproduces ids, positions, sizes, weights and direction.
type Document struct {
	Nodes []NodeDoc `json:"nodes"`
	Edges []EdgeDoc `json:"edges"`
	Meta  Metadata  `json:"meta,omitempty"`
}

// NodeDoc is the serialized form of a [Node]. Optional numeric fields are
// pointers so that an absent value can be told apart from zero.
type NodeDoc struct {
	ID     string   `json:"id"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Size   float64  `json:"size,omitempty"`
	Mass   float64  `json:"mass,omitempty"`
	Fixed  bool     `json:"fixed,omitempty"`
	Hidden bool     `json:"hidden,omitempty"`
	Meta   Metadata `json:"meta,omitempty"`
}

// EdgeDoc is the serialized form of an [Edge]. A missing weight means 1 and
// a missing directed flag means the importer's default.
type EdgeDoc struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Weight   *float64 `json:"weight,omitempty"`
	Directed *bool    `json:"directed,omitempty"`
	Meta     Metadata `json:"meta,omitempty"`
}

// DocOptions controls conversion between [Graph] and [Document].
type DocOptions struct {
	// DefaultDirected is used for edges whose directed flag is absent.
	DefaultDirected bool
	// VisibleOnly drops hidden nodes, and every edge touching one, on export.
	VisibleOnly bool
}

// =============================================================================
// Graph ↔ Document Conversion
// =============================================================================

// FromGraph converts a graph to its serialization format. Nodes and edges
// keep insertion order, so output is deterministic.
func FromGraph(g *Graph, opts DocOptions) Document {
	doc := Document{
		Nodes: make([]NodeDoc, 0, g.NodeCount()),
		Edges: make([]EdgeDoc, 0, g.EdgeCount()),
		Meta:  cleanMeta(g.Meta()),
	}

	hidden := make(map[string]bool)
	for _, n := range g.nodes {
		if opts.VisibleOnly && n.Hidden {
			hidden[n.ID] = true
			continue
		}
		x, y := n.X, n.Y
		doc.Nodes = append(doc.Nodes, NodeDoc{
			ID:     n.ID,
			X:      &x,
			Y:      &y,
			Size:   n.Size,
			Mass:   n.Mass,
			Fixed:  n.Fixed,
			Hidden: n.Hidden,
			Meta:   cleanMeta(n.Meta),
		})
	}

	for _, e := range g.edges {
		if hidden[e.From] || hidden[e.To] {
			continue
		}
		w, d := e.Weight, e.Directed
		doc.Edges = append(doc.Edges, EdgeDoc{
			From:     e.From,
			To:       e.To,
			Weight:   &w,
			Directed: &d,
			Meta:     cleanMeta(e.Meta),
		})
	}

	return doc
}

// ToGraph builds a graph from its serialization format. Errors name the node
// or edge that caused them and wrap the Graph Store sentinel errors.
func ToGraph(doc Document, opts DocOptions) (*Graph, error) {
	g := New(copyMeta(doc.Meta))

	for _, nd := range doc.Nodes {
		n := Node{
			ID:     nd.ID,
			Size:   nd.Size,
			Mass:   nd.Mass,
			Fixed:  nd.Fixed,
			Hidden: nd.Hidden,
			Meta:   copyMeta(nd.Meta),
		}
		if nd.X != nil {
			n.X = *nd.X
		}
		if nd.Y != nil {
			n.Y = *nd.Y
		}
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("add node %s: %w", nd.ID, err)
		}
	}

	for _, ed := range doc.Edges {
		e := Edge{
			From:     ed.From,
			To:       ed.To,
			Weight:   1,
			Directed: opts.DefaultDirected,
			Meta:     copyMeta(ed.Meta),
		}
		if ed.Weight != nil {
			e.Weight = *ed.Weight
		}
		if ed.Directed != nil {
			e.Directed = *ed.Directed
		}
		if err := g.AddEdge(e); err != nil {
			return nil, fmt.Errorf("add edge %s→%s: %w", ed.From, ed.To, err)
		}
	}

	return g, nil
}

// Marshal encodes the full graph (hidden nodes included) as compact JSON.
// The encoding is stable, which makes it suitable for content hashing.
func Marshal(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(FromGraph(g, DocOptions{})); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON produced by [Marshal] or any compatible writer.
func Unmarshal(data []byte, opts DocOptions) (*Graph, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToGraph(doc, opts)
}

// =============================================================================
// Internal Helpers
// =============================================================================

// copyMeta creates a shallow copy of metadata to avoid mutation.
func copyMeta(m Metadata) Metadata {
	if m == nil {
		return nil
	}
	result := make(Metadata, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}

// cleanMeta returns a copy of m, or nil when m is empty so that the field is
// omitted from output.
func cleanMeta(m Metadata) Metadata {
	if len(m) == 0 {
		return nil
	}
	return copyMeta(m)
}
