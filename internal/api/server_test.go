package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/potentials/pkg/observability"
	"github.com/matzehuels/potentials/pkg/pipeline"
)

const classicBody = `{
  "problem": {
    "costs": [[3, 3, 1], [9, 2, 2], [5, 7, 6]],
    "supply": [40, 60, 50],
    "demand": [30, 30, 40]
  }
}`

type fakeCompiler struct{}

func (fakeCompiler) Compile(_ context.Context, name string, _ []byte) ([]byte, error) {
	return []byte("%PDF-1.5 " + name), nil
}

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(&bytes.Buffer{}, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	runner.Compiler = fakeCompiler{}
	srv := httptest.NewServer(New(runner, logger, opts...))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/v1/solve", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, srv *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp := get(t, srv, "/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])
}

func TestMetrics(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, get(t, newTestServer(t), "/metrics").StatusCode)

	observability.Reset()
	t.Cleanup(observability.Reset)
	reg := prometheus.NewRegistry()
	observability.NewMetricsHooks(reg).Register()

	srv := newTestServer(t, WithMetrics(reg))
	require.Equal(t, http.StatusCreated, post(t, srv, classicBody).StatusCode)

	resp := get(t, srv, "/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body bytes.Buffer
	_, err := body.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, body.String(), `potentials_solves_total{result="ok"} 1`)
	assert.Contains(t, body.String(), "potentials_solve_iterations_bucket")
}

func TestSolveAndFetch(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, classicBody)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	solved := decode[SolveResponse](t, resp)
	assert.Equal(t, int64(220), solved.TotalCost)
	assert.Equal(t, 4, solved.Iterations)
	assert.Len(t, solved.Artifacts, 6)
	require.NoError(t, uuid.Validate(solved.RunID))
	require.Len(t, solved.Plan, 3)
	assert.Len(t, solved.Plan[0], 4, "plan includes the slack column")

	resp = get(t, srv, "/v1/runs/"+solved.RunID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	run := decode[RunResponse](t, resp)
	assert.Equal(t, solved.RunID, run.ID)
	assert.Equal(t, int64(220), run.TotalCost)
	assert.Equal(t, "/v1/runs/"+solved.RunID+"/artifacts/tex", run.Artifacts["tex"])

	resp = get(t, srv, "/v1/runs?limit=5")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[map[string][]json.RawMessage](t, resp)
	assert.Len(t, list["runs"], 1)
}

func TestArtifacts(t *testing.T) {
	srv := newTestServer(t)
	solved := decode[SolveResponse](t, post(t, srv, classicBody))

	tests := []struct {
		format      string
		contentType string
		prefix      string
	}{
		{"tex", "application/x-tex", `\documentclass`},
		{"pdf", "application/pdf", "%PDF"},
		{"json", "application/json", `{"id":`},
		{"dot", "text/vnd.graphviz", "graph basis {"},
		{"txt", "text/plain; charset=utf-8", ""},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp := get(t, srv, solved.Artifacts[tt.format])
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.contentType, resp.Header.Get("Content-Type"))
			var buf bytes.Buffer
			_, err := buf.ReadFrom(resp.Body)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(buf.String(), tt.prefix), "body starts %q", buf.String()[:min(40, buf.Len())])
		})
	}
}

func TestArtifactLanguage(t *testing.T) {
	srv := newTestServer(t)
	solved := decode[SolveResponse](t, post(t, srv, classicBody))

	resp := get(t, srv, solved.Artifacts["tex"]+"?language=ru")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	assert.Contains(t, buf.String(), "babel")

	resp = get(t, srv, solved.Artifacts["tex"]+"?language=xx")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestErrors(t *testing.T) {
	srv := newTestServer(t)
	solved := decode[SolveResponse](t, post(t, srv, classicBody))

	tests := []struct {
		name   string
		resp   func() *http.Response
		status int
		code   string
	}{
		{
			name:   "malformed body",
			resp:   func() *http.Response { return post(t, srv, `{"problem":`) },
			status: http.StatusBadRequest,
			code:   "INVALID_INPUT",
		},
		{
			name:   "unknown field",
			resp:   func() *http.Response { return post(t, srv, `{"problme": {}}`) },
			status: http.StatusBadRequest,
			code:   "INVALID_INPUT",
		},
		{
			name: "invalid problem",
			resp: func() *http.Response {
				return post(t, srv, `{"problem": {"costs": [[1, 2]], "supply": [1], "demand": [1]}}`)
			},
			status: http.StatusBadRequest,
			code:   "INVALID_PROBLEM",
		},
		{
			name: "iteration limit",
			resp: func() *http.Response {
				return post(t, srv, strings.Replace(classicBody, `"problem"`, `"options": {"max_iterations": 1}, "problem"`, 1))
			},
			status: http.StatusUnprocessableEntity,
			code:   "ITERATION_LIMIT",
		},
		{
			name:   "bad run id",
			resp:   func() *http.Response { return get(t, srv, "/v1/runs/not-a-uuid") },
			status: http.StatusBadRequest,
			code:   "INVALID_INPUT",
		},
		{
			name:   "unknown run",
			resp:   func() *http.Response { return get(t, srv, "/v1/runs/"+uuid.NewString()) },
			status: http.StatusNotFound,
			code:   "NOT_FOUND",
		},
		{
			name:   "bad format",
			resp:   func() *http.Response { return get(t, srv, "/v1/runs/"+solved.RunID+"/artifacts/png") },
			status: http.StatusBadRequest,
			code:   "INVALID_FORMAT",
		},
		{
			name:   "bad limit",
			resp:   func() *http.Response { return get(t, srv, "/v1/runs?limit=0") },
			status: http.StatusBadRequest,
			code:   "INVALID_INPUT",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := tt.resp()
			require.Equal(t, tt.status, resp.StatusCode)
			body := decode[errorBody](t, resp)
			assert.Equal(t, tt.code, string(body.Error.Code))
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestArtifactUsesRunIterationLimit(t *testing.T) {
	logger := log.NewWithOptions(&bytes.Buffer{}, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	srv := httptest.NewServer(New(runner, logger))
	t.Cleanup(srv.Close)

	body := strings.Replace(classicBody, "\n}", `,
  "options": {"max_iterations": 7}
}`, 1)
	solved := decode[SolveResponse](t, post(t, srv, body))
	run := decode[RunResponse](t, get(t, srv, "/v1/runs/"+solved.RunID))
	assert.Equal(t, 7, run.MaxIterations)

	// The classic problem needs 4 rebuilds, so a run recorded with a
	// limit of 2 cannot be rendered again.
	limited := run.Record
	limited.ID = uuid.NewString()
	limited.MaxIterations = 2
	require.NoError(t, runner.Store.Save(context.Background(), limited))

	resp := get(t, srv, "/v1/runs/"+limited.ID+"/artifacts/json")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = get(t, srv, solved.Artifacts["json"])
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
