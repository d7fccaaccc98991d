package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/potentials/pkg/buildinfo"
	apperrors "github.com/matzehuels/potentials/pkg/errors"
	"github.com/matzehuels/potentials/pkg/pipeline"
	"github.com/matzehuels/potentials/pkg/store"
	"github.com/matzehuels/potentials/pkg/transport"
)

// SolveRequest is the body of POST /v1/solve.
type SolveRequest struct {
	Problem transport.Problem `json:"problem"`
	Options pipeline.Options  `json:"options"`
}

// SolveResponse is returned by POST /v1/solve.
type SolveResponse struct {
	RunID      string            `json:"run_id"`
	TotalCost  int64             `json:"total_cost"`
	Iterations int               `json:"iterations"`
	Plan       transport.Plan    `json:"plan"`
	Cached     bool              `json:"cached"`
	Artifacts  map[string]string `json:"artifacts"`
}

// RunResponse describes a recorded run.
type RunResponse struct {
	store.Record
	Artifacts map[string]string `json:"artifacts"`
}

type errorBody struct {
	Error struct {
		Code    apperrors.Code `json:"code"`
		Message string         `json:"message"`
	} `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	if err := req.Problem.Validate(); err != nil {
		s.writeError(w, err)
		return
	}

	// Artifacts are rendered on demand; a solve only needs the trace.
	formats := pipeline.ParseFormats(strings.Join(req.Options.Formats, ","))
	if err := pipeline.ValidateFormats(formats); err != nil {
		s.writeError(w, err)
		return
	}
	req.Options.Formats = []string{pipeline.FormatJSON}
	res, err := s.runner.Execute(r.Context(), req.Problem, req.Options)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if len(formats) == 0 {
		formats = sortedFormats()
	}

	final, _ := res.Trace.Final()
	writeJSON(w, http.StatusCreated, SolveResponse{
		RunID:      res.RunID,
		TotalCost:  res.Stats.TotalCost,
		Iterations: res.Stats.Iterations,
		Plan:       final.Plan,
		Cached:     res.CacheInfo.SolveHit,
		Artifacts:  artifactLinks(res.RunID, formats),
	})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "limit must be a positive integer"))
			return
		}
		limit = n
	}
	runs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if runs == nil {
		runs = []store.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	rec, err := s.loadRun(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RunResponse{
		Record:    rec,
		Artifacts: artifactLinks(rec.ID, sortedFormats()),
	})
}

func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, err)
		return
	}
	rec, err := s.loadRun(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	opts := pipeline.Options{
		Formats:       []string{format},
		Language:      r.URL.Query().Get("language"),
		MaxIterations: rec.MaxIterations,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, err)
		return
	}
	tr, err := s.runner.Solve(r.Context(), rec.Problem, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	artifacts, err := s.runner.Render(r.Context(), tr, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	if format == pipeline.FormatPDF || format == pipeline.FormatTeX {
		w.Header().Set("Content-Disposition", `attachment; filename="`+opts.DocumentName+"."+format+`"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

func (s *Server) loadRun(r *http.Request) (store.Record, error) {
	id := chi.URLParam(r, "id")
	if err := apperrors.ValidateRunID(id); err != nil {
		return store.Record{}, err
	}
	rec, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return rec, apperrors.Wrap(apperrors.ErrCodeNotFound, err, "run %s", id)
	}
	return rec, err
}

func artifactLinks(id string, formats []string) map[string]string {
	links := make(map[string]string, len(formats))
	for _, f := range formats {
		links[f] = "/v1/runs/" + id + "/artifacts/" + f
	}
	return links
}

func sortedFormats() []string {
	return []string{
		pipeline.FormatDOT,
		pipeline.FormatJSON,
		pipeline.FormatPDF,
		pipeline.FormatSVG,
		pipeline.FormatTeX,
		pipeline.FormatTXT,
	}
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidProblem,
		apperrors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeIterationLimit:
		return http.StatusUnprocessableEntity
	case apperrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case apperrors.ErrCodeCompileFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	var body errorBody
	body.Error.Code = apperrors.GetCode(err)
	if body.Error.Code == "" {
		body.Error.Code = apperrors.ErrCodeInternal
	}
	body.Error.Message = apperrors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "err", err)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
