package io_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/matzehuels/forcelayout/pkg/geom"
	"github.com/matzehuels/forcelayout/pkg/io"
)

func ExampleReadJSON() {
	g, err := io.ReadJSON(strings.NewReader(`{
		"nodes": [{"id": "a"}, {"id": "b", "x": 3, "y": 4}],
		"edges": [{"from": "a", "to": "b"}]
	}`), io.ImportOptions{DefaultDirected: true})
	if err != nil {
		fmt.Println(err)
		return
	}
	e := g.Edges()[0]
	fmt.Println(g.NodeCount(), g.EdgeCount(), e.Weight, e.Directed)
	// Output: 2 1 1 true
}

func ExampleWritePositions() {
	pos := map[string]geom.Vector{"b": {X: 1, Y: 2}, "a": {X: -1, Y: 0}}
	_ = io.WritePositions(pos, os.Stdout, io.ExportOptions{Compact: true})
	// Output: {"a":{"x":-1,"y":0},"b":{"x":1,"y":2}}
}
