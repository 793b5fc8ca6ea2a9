package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/cellspan/pkg/buildinfo"
	"github.com/matzehuels/cellspan/pkg/design"
	apperr "github.com/matzehuels/cellspan/pkg/errors"
	"github.com/matzehuels/cellspan/pkg/grid"
	"github.com/matzehuels/cellspan/pkg/pipeline"
)

// =============================================================================
// Request and Response Bodies
// =============================================================================

type errorResponse struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
}

type createRequest struct {
	Name    string     `json:"name"`
	Columns int        `json:"columns"`
	Rows    int        `json:"rows"`
	Palette []grid.Tag `json:"palette,omitempty"`
}

type cellsRequest struct {
	Cells []grid.Cell `json:"cells"`
	Tag   string      `json:"tag,omitempty"`
}

type editResponse struct {
	Tag   grid.Tag          `json:"tag,omitempty"`
	Span  grid.Span         `json:"span"`
	Spans []grid.TaggedSpan `json:"spans"`
}

type trackRequest struct {
	Ref    int     `json:"ref"`
	Before bool    `json:"before,omitempty"`
	Size   float64 `json:"size,omitempty"`
}

type trackResponse struct {
	Index   int `json:"index"`
	Columns int `json:"columns"`
	Rows    int `json:"rows"`
}

type layoutResponse struct {
	DesignHash string             `json:"design_hash"`
	Artifacts  map[string]string  `json:"artifacts"`
	Stats      layoutStats        `json:"stats"`
	Cache      pipeline.CacheInfo `json:"cache"`
}

type layoutStats struct {
	Nodes    int   `json:"nodes"`
	Edges    int   `json:"edges"`
	Spans    int   `json:"spans"`
	LayoutMS int64 `json:"layout_ms"`
	RenderMS int64 `json:"render_ms"`
}

// =============================================================================
// Helpers
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError classifies err and writes it with the matching status.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	err = apperr.Classify(err)
	code := apperr.GetCode(err)
	status := apperr.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: apperr.UserMessage(err)})
}

// decode reads a JSON body into v. An empty body leaves v untouched when
// optional is set.
func decode(w http.ResponseWriter, r *http.Request, v any, optional bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "decode request body: %v", err)
	}
	return nil
}

func designID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	return id, apperr.ValidateID(id)
}

// edit loads the design named in the URL, applies fn and stores the result.
// fn's value is written as the response.
func (s *Server) edit(w http.ResponseWriter, r *http.Request, fn func(d *design.Document) (any, error)) {
	id, err := designID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.edits.Lock()
	defer s.edits.Unlock()

	d, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp, err := fn(d)
	if err == nil {
		err = d.Validate()
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	d.UpdatedAt = time.Now().UTC()
	if err := s.store.Put(r.Context(), d); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decode(w, r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := apperr.ValidateName(req.Name); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := apperr.ValidateDimensions(req.Columns, req.Rows); err != nil {
		s.writeError(w, r, err)
		return
	}
	for _, tag := range req.Palette {
		if err := apperr.ValidateTag(string(tag)); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	d := design.New(req.Name, req.Columns, req.Rows)
	d.Palette = req.Palette
	if len(d.Palette) == 0 {
		d.Palette = s.palette
	}
	if err := s.store.Put(r.Context(), d); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("created design", "id", d.ID, "columns", req.Columns, "rows", req.Rows)
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := designID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	d, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	id, err := designID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	d, err := design.ReadJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		if apperr.GetCode(apperr.Classify(err)) == apperr.ErrCodeInternal {
			err = apperr.Wrap(apperr.ErrCodeInvalidInput, err, "%v", err)
		}
		s.writeError(w, r, err)
		return
	}
	d.ID = id
	d.UpdatedAt = time.Now().UTC()

	s.edits.Lock()
	defer s.edits.Unlock()
	if err := s.store.Put(r.Context(), d); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := designID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.edits.Lock()
	defer s.edits.Unlock()
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSpans(w http.ResponseWriter, r *http.Request) {
	id, err := designID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	d, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	spans := d.Spans()
	if spans == nil {
		spans = []grid.TaggedSpan{}
	}
	writeJSON(w, http.StatusOK, spans)
}

func (s *Server) handlePaint(w http.ResponseWriter, r *http.Request) {
	var req cellsRequest
	if err := decode(w, r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Tag != "" {
		if err := apperr.ValidateTag(req.Tag); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	s.edit(w, r, func(d *design.Document) (any, error) {
		resp := editResponse{Tag: grid.Tag(req.Tag)}
		var err error
		if req.Tag == "" {
			resp.Tag, resp.Span, err = d.PaintNext(req.Cells)
		} else {
			resp.Span, err = d.Paint(req.Cells, resp.Tag)
		}
		if err != nil {
			return nil, err
		}
		resp.Spans = d.Spans()
		return resp, nil
	})
}

func (s *Server) handleErase(w http.ResponseWriter, r *http.Request) {
	var req cellsRequest
	if err := decode(w, r, &req, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.edit(w, r, func(d *design.Document) (any, error) {
		span, err := d.Erase(req.Cells)
		if err != nil {
			return nil, err
		}
		return editResponse{Span: span, Spans: d.Spans()}, nil
	})
}

func (s *Server) handleInsertTrack(axis grid.Axis) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req trackRequest
		if err := decode(w, r, &req, false); err != nil {
			s.writeError(w, r, err)
			return
		}
		s.edit(w, r, func(d *design.Document) (any, error) {
			insert := d.InsertColumn
			if axis == grid.Rows {
				insert = d.InsertRow
			}
			idx, err := insert(req.Ref, req.Before, req.Size)
			if err != nil {
				return nil, err
			}
			return trackResponse{Index: idx, Columns: len(d.Columns), Rows: len(d.Rows)}, nil
		})
	}
}

func (s *Server) handleRemoveTrack(axis grid.Axis) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idx, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			s.writeError(w, r, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "invalid %s index", axis))
			return
		}
		s.edit(w, r, func(d *design.Document) (any, error) {
			remove := d.RemoveColumn
			if axis == grid.Rows {
				remove = d.RemoveRow
			}
			if err := remove(idx); err != nil {
				return nil, err
			}
			return trackResponse{Index: idx, Columns: len(d.Columns), Rows: len(d.Rows)}, nil
		})
	}
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	var n design.NodeSpec
	if err := decode(w, r, &n, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.edit(w, r, func(d *design.Document) (any, error) {
		if err := d.AddNode(n); err != nil {
			return nil, err
		}
		return n, nil
	})
}

func (s *Server) handleAddEdge(w http.ResponseWriter, r *http.Request) {
	var e design.EdgeSpec
	if err := decode(w, r, &e, false); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.edit(w, r, func(d *design.Document) (any, error) {
		if err := d.AddEdge(e); err != nil {
			return nil, err
		}
		return e, nil
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := decode(w, r, &opts, true); err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := designID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	d, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Layout(r.Context(), d, opts)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("design %s: %w", id, err))
		return
	}

	artifacts := make(map[string]string, len(result.Artifacts))
	for f, data := range result.Artifacts {
		artifacts[f] = string(data)
	}
	writeJSON(w, http.StatusOK, layoutResponse{
		DesignHash: result.DesignHash,
		Artifacts:  artifacts,
		Stats: layoutStats{
			Nodes:    result.Stats.NodeCount,
			Edges:    result.Stats.EdgeCount,
			Spans:    result.Stats.SpanCount,
			LayoutMS: result.Stats.LayoutTime.Milliseconds(),
			RenderMS: result.Stats.RenderTime.Milliseconds(),
		},
		Cache: result.CacheInfo,
	})
}
