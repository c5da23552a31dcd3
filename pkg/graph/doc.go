// Package graph provides the Graph Store read and written by every layout
// pass, together with its JSON wire format.
//
// # Overview
//
// A [Graph] holds nodes in insertion order, edges, and adjacency lists for
// both directions. Layout algorithms read topology through [Graph.Nodes],
// [Graph.Edges], [Graph.Neighbors] and the degree queries, and write
// positions either through the node pointers or [Graph.SetPositions].
//
// Insertion order is the iteration order everywhere, which keeps layouts
// reproducible for a given seed.
//
// # Invariants
//
//   - Every edge endpoint exists (enforced by [Graph.AddEdge]).
//   - Node coordinates, sizes and masses are finite.
//   - Edge weights are finite and non-negative. A weight of zero disables
//     attraction along that edge.
//
// # Wire Format
//
// Graphs serialize to a node-link JSON document:
//
//	{
//	  "nodes": [{"id": "a", "x": 0, "y": 0, "size": 4}, {"id": "b"}],
//	  "edges": [{"from": "a", "to": "b", "weight": 2, "directed": true}]
//	}
//
// Use [FromGraph] and [ToGraph] to convert between [Graph] and [Document],
// or [Marshal] and [Unmarshal] for bytes. File and stream helpers live in
// pkg/io.
//
// # Concurrency
//
// Graph is not safe for concurrent mutation. Layout passes run on one
// goroutine and only fan out over read-only snapshots.
package graph
