package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/forcelayout/pkg/buildinfo"
	"github.com/matzehuels/forcelayout/pkg/errors"
	"github.com/matzehuels/forcelayout/pkg/graph"
	"github.com/matzehuels/forcelayout/pkg/io"
	"github.com/matzehuels/forcelayout/pkg/pipeline"
)

// LayoutRequest is the body of POST /v1/layout.
type LayoutRequest struct {
	Graph           json.RawMessage   `json:"graph"`
	Options         *pipeline.Options `json:"options,omitempty"`
	DefaultDirected bool              `json:"default_directed,omitempty"`
	VisibleOnly     bool              `json:"visible_only,omitempty"`
}

// LayoutResponse is the body of a successful layout.
type LayoutResponse struct {
	RunID    string                `json:"run_id"`
	Graph    graph.Document        `json:"graph"`
	Passes   []pipeline.PassResult `json:"passes"`
	Stats    pipeline.Stats        `json:"stats"`
	CacheHit bool                  `json:"cache_hit"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	info := buildinfo.Get()
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": info.Version,
		"commit":  info.Commit,
	})
}

func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	if s.cfg.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	}
	var req LayoutRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request"))
		return
	}
	if len(req.Graph) == 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "request has no graph"))
		return
	}

	g, err := io.ReadJSON(bytes.NewReader(req.Graph), io.ImportOptions{DefaultDirected: req.DefaultDirected})
	if err != nil {
		s.writeError(w, err)
		return
	}

	opts := s.base
	if req.Options != nil {
		opts = merge(s.base, *req.Options)
	}

	ctx := r.Context()
	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	res, err := s.runner.Run(ctx, g, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, LayoutResponse{
		RunID:    res.RunID,
		Graph:    graph.FromGraph(g, graph.DocOptions{VisibleOnly: req.VisibleOnly}),
		Passes:   res.Passes,
		Stats:    res.Stats,
		CacheHit: res.CacheHit,
	})
}

// merge overlays the non-zero runner fields of req on base. Algorithm
// sections are replaced as a whole when the request sets any field.
func merge(base, req pipeline.Options) pipeline.Options {
	out := base
	if req.Passes != "" {
		out.Passes = req.Passes
	}
	if req.Seed != 0 {
		out.Seed = req.Seed
	}
	if req.ReseedThreshold != 0 {
		out.ReseedThreshold = req.ReseedThreshold
	}
	if req.Workers != 0 {
		out.Workers = req.Workers
	}
	if req.Index != "" {
		out.Index = req.Index
	}
	if req.Theta != 0 {
		out.Theta = req.Theta
	}
	if req.CellSize != 0 {
		out.CellSize = req.CellSize
	}
	if req.RandomSize != 0 {
		out.RandomSize = req.RandomSize
	}
	if req.RescaleDistance != 0 {
		out.RescaleDistance = req.RescaleDistance
	}
	if !isZero(req.ForceAtlas) {
		out.ForceAtlas = req.ForceAtlas
	}
	if !isZero(req.YifanHu) {
		out.YifanHu = req.YifanHu
	}
	if !isZero(req.OpenOrd) {
		out.OpenOrd = req.OpenOrd
	}
	out.Refresh = req.Refresh
	return out
}

// isZero reports whether v marshals like its zero value.
func isZero[T any](v T) bool {
	var zero T
	a, _ := json.Marshal(v)
	b, _ := json.Marshal(zero)
	return bytes.Equal(a, b)
}
