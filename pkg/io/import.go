package io

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"io/fs"
	"os"

	"github.com/matzehuels/forcelayout/pkg/errors"
	"github.com/matzehuels/forcelayout/pkg/graph"
)

// ImportOptions controls how a JSON document becomes a graph.
type ImportOptions struct {
	// DefaultDirected is the direction of edges without a "directed" field.
	DefaultDirected bool
}

// ReadJSON decodes a JSON graph from r.
//
// Node IDs are validated before any node is added. The returned graph is
// independent of r; ReadJSON does not close r.
func ReadJSON(r io.Reader, opts ImportOptions) (*graph.Graph, error) {
	var doc graph.Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode graph")
	}

	for _, n := range doc.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return nil, err
		}
	}

	g, err := graph.ToGraph(doc, graph.DocOptions{DefaultDirected: opts.DefaultDirected})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "build graph")
	}
	return g, nil
}

// ImportJSON reads the JSON graph file at path. A missing file fails with
// FILE_NOT_FOUND; decoding errors are those of [ReadJSON].
func ImportJSON(path string, opts ImportOptions) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()

	g, err := ReadJSON(f, opts)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "import %s", path)
	}
	return g, nil
}
