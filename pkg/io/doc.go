// Package io reads and writes graphs as node-link JSON files.
//
// # JSON Format
//
// The document has a "nodes" and an "edges" array and an optional "meta"
// object:
//
//	{
//	  "nodes": [
//	    {"id": "a", "x": 12.5, "y": -3, "size": 4},
//	    {"id": "b", "fixed": true},
//	    {"id": "c", "hidden": true}
//	  ],
//	  "edges": [
//	    {"from": "a", "to": "b", "weight": 2},
//	    {"from": "b", "to": "c", "directed": true}
//	  ]
//	}
//
// # Node Fields
//
// Required:
//   - id: unique identifier, no control characters
//
// Optional:
//   - x, y: starting position (0 when omitted; a Random pass seeds it)
//   - size: node radius for size-aware force laws
//   - mass: repulsion mass, 0 means 1
//   - fixed: never moved by a layout pass
//   - hidden: laid out but dropped by visible-only exports
//   - meta: freeform object, carried through untouched
//
// # Edge Fields
//
// "from" and "to" must name existing nodes. "weight" defaults to 1 and must
// be finite and non-negative. "directed" defaults to
// [ImportOptions.DefaultDirected].
//
// # Import
//
// Use [ImportJSON] to read a graph from a file path, or [ReadJSON] to read
// from any io.Reader:
//
//	g, err := io.ImportJSON("graph.json", io.ImportOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Malformed JSON fails with INVALID_FORMAT and structural problems (bad IDs,
// duplicate nodes, dangling edges, bad weights) with INVALID_GRAPH; the
// message names the offending node or edge.
//
// # Export
//
// Use [ExportJSON] to write a graph to a file, or [WriteJSON] to write to any
// io.Writer. Every node is written with its position, so an exported layout
// re-imports to the same graph. [ExportOptions.VisibleOnly] drops hidden
// nodes together with their edges.
//
// [WritePositions] writes only an id → {x, y} map, for consumers that keep
// their own copy of the graph.
package io
