// Package server exposes the conversion pipeline over HTTP.
//
// The API is a thin wrapper around [pipeline.Runner]: one endpoint accepts a
// flow document and returns the serialized XMI with its diagnostics, one
// renders a Graphviz preview, one reports liveness.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pzaremba/flowxmi/pkg/cache"
	"github.com/pzaremba/flowxmi/pkg/errors"
	"github.com/pzaremba/flowxmi/pkg/flow"
	"github.com/pzaremba/flowxmi/pkg/observability"
	"github.com/pzaremba/flowxmi/pkg/pipeline"
	"github.com/pzaremba/flowxmi/pkg/render"
)

// maxBodyBytes caps request bodies. Flow documents are small; anything
// bigger is almost certainly a mistake.
const maxBodyBytes = 4 << 20

// Deps holds the dependencies of the HTTP server.
type Deps struct {
	Runner *pipeline.Runner
	Logger *log.Logger
}

// Server serves the conversion API.
type Server struct {
	deps Deps
}

// New creates a Server. A nil Runner gets a cacheless default; a nil Logger
// gets the package default.
func New(deps Deps) *Server {
	if deps.Runner == nil {
		deps.Runner = pipeline.NewRunner(nil, nil, deps.Logger)
	}
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	return &Server{deps: deps}
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Post("/convert", s.handleConvert)
	r.Post("/preview", s.handlePreview)

	return r
}

// convertRequest is the body of POST /convert and POST /preview.
type convertRequest struct {
	Document flow.Document    `json:"document"`
	Options  pipeline.Options `json:"options"`
}

// convertResponse is the JSON envelope of a successful conversion.
type convertResponse struct {
	Document    string         `json:"document"`
	DocHash     string         `json:"doc_hash"`
	Diagnostics []flow.Warning `json:"diagnostics"`
	NodeCount   int            `json:"node_count"`
	EdgeCount   int            `json:"edge_count"`
	CacheHit    bool           `json:"cache_hit"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleConvert runs the full pipeline and returns the XMI document. With
// Accept: application/xml the raw document is returned and diagnostics are
// summarized in a response header.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	result, err := s.deps.Runner.Execute(r.Context(), &req.Document, req.Options)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if r.Header.Get("Accept") == "application/xml" {
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.Header().Set("X-Diagnostic-Count", strconv.Itoa(len(result.Diagnostics)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(result.Document)
		return
	}

	writeJSON(w, http.StatusOK, convertResponse{
		Document:    string(result.Document),
		DocHash:     result.DocHash,
		Diagnostics: result.Diagnostics,
		NodeCount:   result.Stats.NodeCount,
		EdgeCount:   result.Stats.EdgeCount,
		CacheHit:    result.CacheInfo.ConversionHit,
	})
}

// handlePreview runs the pipeline up to the repaired graph and returns a
// Graphviz SVG preview instead of the XMI document. Rendered previews are
// cached separately from conversions; the repair strategy is part of the
// key because it shapes the repaired graph.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	opts := req.Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, err)
		return
	}

	var key string
	if docData, err := flow.MarshalDocument(&req.Document); err == nil {
		key = s.deps.Runner.Keyer.RenderKey(cache.Hash(docData), "svg:"+opts.Strategy)
		if data, hit, err := s.deps.Runner.Cache.Get(r.Context(), key); err == nil && hit {
			observability.Cache().OnCacheHit(r.Context(), "render")
			writeSVG(w, data)
			return
		}
		observability.Cache().OnCacheMiss(r.Context(), "render")
	}

	result, err := s.deps.Runner.Convert(r.Context(), &req.Document, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	svg, err := render.RenderSVG(render.ToDOT(result.Graph, render.Options{}))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render preview"))
		return
	}

	if key != "" {
		if s.deps.Runner.Cache.Set(r.Context(), key, svg, cache.TTLRender) == nil {
			observability.Cache().OnCacheSet(r.Context(), "render", len(svg))
		}
	}
	writeSVG(w, svg)
}

func writeSVG(w http.ResponseWriter, svg []byte) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (*convertRequest, bool) {
	var req convertRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "invalid request body: " + err.Error(),
			Code:  string(errors.ErrCodeInvalidInput),
		})
		return nil, false
	}
	return &req, true
}

// writeError maps pipeline errors onto HTTP status codes: fatal input errors
// are the client's fault, everything else is ours.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.IsFatalInput(err) {
		status = http.StatusBadRequest
	}
	s.deps.Logger.Error("request failed", "status", status, "error", err)
	writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
