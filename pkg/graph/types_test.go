package graph

import (
	"strings"
	"testing"
)

func TestDocumentRoundTrip(t *testing.T) {
	g := New(Metadata{"source": "test"})
	_ = g.AddNode(Node{ID: "a", X: 1.5, Y: -2, Size: 4, Mass: 2})
	_ = g.AddNode(Node{ID: "b", Fixed: true, Hidden: true, Meta: Metadata{"label": "B"}})
	_ = g.AddEdge(Edge{From: "a", To: "b", Weight: 0.5, Directed: true})

	data, err := Marshal(g)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Unmarshal(data, DocOptions{})
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	a, _ := back.Node("a")
	if a.X != 1.5 || a.Y != -2 || a.Size != 4 || a.Mass != 2 {
		t.Errorf("node a = %+v", a)
	}
	b, _ := back.Node("b")
	if !b.Fixed || !b.Hidden || b.Meta["label"] != "B" {
		t.Errorf("node b = %+v", b)
	}
	e := back.Edges()[0]
	if e.Weight != 0.5 || !e.Directed {
		t.Errorf("edge = %+v", e)
	}
	if back.Meta()["source"] != "test" {
		t.Errorf("graph meta = %v", back.Meta())
	}
}

func TestToGraphDefaults(t *testing.T) {
	doc := Document{
		Nodes: []NodeDoc{{ID: "a"}, {ID: "b"}},
		Edges: []EdgeDoc{{From: "a", To: "b"}},
	}

	tests := []struct {
		name     string
		directed bool
	}{
		{"undirected default", false},
		{"directed default", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ToGraph(doc, DocOptions{DefaultDirected: tt.directed})
			if err != nil {
				t.Fatalf("ToGraph: %v", err)
			}
			e := g.Edges()[0]
			if e.Weight != 1 {
				t.Errorf("Weight = %v, want 1", e.Weight)
			}
			if e.Directed != tt.directed {
				t.Errorf("Directed = %v, want %v", e.Directed, tt.directed)
			}
		})
	}
}

func TestToGraphErrorsNameTheCulprit(t *testing.T) {
	doc := Document{
		Nodes: []NodeDoc{{ID: "a"}},
		Edges: []EdgeDoc{{From: "a", To: "ghost"}},
	}
	_, err := ToGraph(doc, DocOptions{})
	if err == nil || !strings.Contains(err.Error(), "ghost") {
		t.Errorf("ToGraph() error = %v, want mention of ghost", err)
	}
}

func TestFromGraphVisibleOnly(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "h", Hidden: true})
	_ = g.AddNode(Node{ID: "c"})
	_ = g.AddEdge(Edge{From: "a", To: "h", Weight: 1})
	_ = g.AddEdge(Edge{From: "a", To: "c", Weight: 1})

	doc := FromGraph(g, DocOptions{VisibleOnly: true})
	if len(doc.Nodes) != 2 || doc.Nodes[0].ID != "a" || doc.Nodes[1].ID != "c" {
		t.Errorf("nodes = %+v", doc.Nodes)
	}
	if len(doc.Edges) != 1 || doc.Edges[0].To != "c" {
		t.Errorf("edges = %+v", doc.Edges)
	}

	if all := FromGraph(g, DocOptions{}); len(all.Nodes) != 3 || len(all.Edges) != 2 {
		t.Errorf("full export = %d nodes, %d edges", len(all.Nodes), len(all.Edges))
	}
}
