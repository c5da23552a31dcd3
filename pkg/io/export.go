package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/forcelayout/pkg/geom"
	"github.com/matzehuels/forcelayout/pkg/graph"
)

// ExportOptions controls how a graph is written.
type ExportOptions struct {
	// VisibleOnly skips hidden nodes and every edge touching one.
	VisibleOnly bool
	// Compact disables indentation.
	Compact bool
}

// WriteJSON encodes g as a JSON document and writes it to w. The output can
// be read back with [ReadJSON].
func WriteJSON(g *graph.Graph, w io.Writer, opts ExportOptions) error {
	doc := graph.FromGraph(g, graph.DocOptions{VisibleOnly: opts.VisibleOnly})
	return encode(w, doc, opts.Compact)
}

// ExportJSON writes g to the file at path, creating parent directories.
func ExportJSON(g *graph.Graph, path string, opts ExportOptions) error {
	return writeFile(path, func(w io.Writer) error { return WriteJSON(g, w, opts) })
}

// Point is an exported node position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// WritePositions writes an id → {x, y} object. Keys are sorted by the JSON
// encoder, so the output is stable.
func WritePositions(pos map[string]geom.Vector, w io.Writer, opts ExportOptions) error {
	out := make(map[string]Point, len(pos))
	for id, p := range pos {
		out[id] = Point{X: p.X, Y: p.Y}
	}
	return encode(w, out, opts.Compact)
}

// ExportPositions writes the positions of g's nodes to path. Hidden nodes
// are left out when opts.VisibleOnly is set.
func ExportPositions(g *graph.Graph, path string, opts ExportOptions) error {
	pos := make(map[string]geom.Vector, g.NodeCount())
	for _, n := range g.Nodes() {
		if opts.VisibleOnly && n.Hidden {
			continue
		}
		pos[n.ID] = n.Pos()
	}
	return writeFile(path, func(w io.Writer) error { return WritePositions(pos, w, opts) })
}

func encode(w io.Writer, v any, compact bool) error {
	enc := json.NewEncoder(w)
	if !compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
