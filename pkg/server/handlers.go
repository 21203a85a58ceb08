package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/matzehuels/hapticfloor/pkg/buildinfo"
	"github.com/matzehuels/hapticfloor/pkg/errors"
	"github.com/matzehuels/hapticfloor/pkg/floor"
	pkgio "github.com/matzehuels/hapticfloor/pkg/io"
	"github.com/matzehuels/hapticfloor/pkg/pipeline"
)

// LayoutResponse summarizes the floor.
type LayoutResponse struct {
	State    string `json:"state"`
	Revision string `json:"revision,omitempty"`
	Active   int    `json:"active"`
	Passive  int    `json:"passive"`
	Edges    int    `json:"edges"`
}

// TickRequest carries one value bank.
type TickRequest struct {
	Bank []float64 `json:"bank"`
}

// TickResponse is the routed bank.
type TickResponse struct {
	Revision string             `json:"revision,omitempty"`
	Values   []float64          `json:"values"`
	Channels map[string]float64 `json:"channels"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
	})
}

func (s *Server) layoutResponse(snap floor.Snapshot) LayoutResponse {
	return LayoutResponse{
		State:    snap.State.String(),
		Revision: snap.Revision,
		Active:   snap.Nodes.ActiveCount(),
		Passive:  snap.Nodes.PassiveCount(),
		Edges:    len(snap.Nodes.Edges()),
	}
}

func (s *Server) handleGetLayout(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, s.layoutResponse(s.floor.Snapshot()))
}

func (s *Server) handlePutLayout(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, errors.MaxLayoutBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.respondError(w, http.StatusRequestEntityTooLarge, errors.New(errors.ErrCodeInvalidInput, "layout exceeds %d bytes", errors.MaxLayoutBytes))
			return
		}
		s.respondError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}

	if err := s.floor.Reload(r.Context(), string(body)); err != nil {
		s.logger.Warn("layout rejected", "code", errors.GetCode(err), "err", err)
		status := http.StatusUnprocessableEntity
		if !errors.IsLayoutError(err) {
			status = http.StatusInternalServerError
		}
		s.respondError(w, status, err)
		return
	}

	snap := s.floor.Snapshot()
	s.logger.Info("layout loaded", "revision", snap.Revision, "active", snap.Nodes.ActiveCount(), "passive", snap.Nodes.PassiveCount())
	s.respondJSON(w, http.StatusOK, s.layoutResponse(snap))
}

func (s *Server) handleNodes(w http.ResponseWriter, _ *http.Request) {
	snap := s.floor.Snapshot()
	s.respondJSON(w, http.StatusOK, pkgio.NewMesh(snap, snap.Nodes.Edges()))
}

func (s *Server) handleEdges(w http.ResponseWriter, _ *http.Request) {
	snap := s.floor.Snapshot()
	s.respondJSON(w, http.StatusOK, pkgio.NewMesh(snap, snap.Nodes.Edges()).Edges)
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	var req TickRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, errors.MaxLayoutBytes))
	if err := dec.Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid tick body"))
		return
	}
	if err := errors.ValidateBank(req.Bank); err != nil {
		s.respondError(w, http.StatusBadRequest, err)
		return
	}

	snap, values := s.floor.TickSnapshot(r.Context(), req.Bank)
	channels := make(map[string]float64)
	for ch, v := range floor.RouteByChannel(snap.Nodes.Active(), values) {
		channels[strconv.Itoa(ch)] = v
	}
	s.respondJSON(w, http.StatusOK, TickResponse{Revision: snap.Revision, Values: values, Channels: channels})
}

func (s *Server) handleMeshSVG(w http.ResponseWriter, r *http.Request) {
	s.renderFormat(w, r, pipeline.FormatSVG)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.respondError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unsupported format %q", format))
		return
	}
	s.renderFormat(w, r, format)
}

func (s *Server) renderFormat(w http.ResponseWriter, r *http.Request, format string) {
	opts := s.renderOpts
	opts.Formats = []string{format}
	opts.Logger = s.logger

	artifacts, err := s.runner.Render(r.Context(), s.floor.Snapshot(), opts)
	if err != nil {
		s.logger.Error("render failed", "format", format, "err", err)
		s.respondError(w, http.StatusInternalServerError, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format))
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    string(code),
		Message: err.Error(),
	})
}
