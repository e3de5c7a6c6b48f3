// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/kanoon-match/internal/lookup"
	"github.com/pdiddy/kanoon-match/pkg/types"
)

type stubSearcher struct {
	payload string
	err     error
	calls   int
}

func (s *stubSearcher) Search(_ context.Context, _ string, _, _ int) (string, error) {
	s.calls++
	return s.payload, s.err
}

const benchPayload = `{"docs":[
  {"tid":257876,"title":"Kesavananda Bharati v. State of Kerala"},
  {"tid":1938346,"title":"Keshavananda Bharati Case"},
  {"tid":1939993,"title":"Minerva Mills v. Union of India"}]}`

func testServer(t *testing.T, s *stubSearcher, tokenSet bool) *Server {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(Config{
		Finder:   lookup.New(s, log),
		TokenSet: tokenSet,
		Log:      log,
		Registry: prometheus.NewRegistry(),
	})
}

func scrape(t *testing.T, srv *Server) string {
	t.Helper()
	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func post(t *testing.T, srv *Server, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestSearchMatched(t *testing.T) {
	for _, path := range []string{"/search", "/find"} {
		t.Run(path, func(t *testing.T) {
			srv := testServer(t, &stubSearcher{payload: benchPayload}, true)
			resp, body := post(t, srv, path, `{"title":"Kesavananda Bharati"}`)

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "Kesavananda Bharati", body["input"])
			best := body["best_match"].(map[string]any)
			assert.Equal(t, "Kesavananda Bharati v. State of Kerala", best["title"])
			assert.Equal(t, "https://indiankanoon.org/doc/257876/", best["url"])
			assert.Len(t, body["top_results"], 3)
			assert.Contains(t, scrape(t, srv), `kanoon_match_lookups_total{outcome="matched"} 1`)
		})
	}
}

func TestSearchNoResults(t *testing.T) {
	srv := testServer(t, &stubSearcher{payload: `{"docs":[]}`}, true)
	resp, body := post(t, srv, "/search", `{"title":"Nonexistent Case Title"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"error": types.NoResultsMessage, "input": "Nonexistent Case Title"}, body)
	assert.Contains(t, scrape(t, srv), `kanoon_match_lookups_total{outcome="no_results"} 1`)
}

func TestSearchBadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{}`},
		{"empty title", `{"title":""}`},
		{"non-string title", `{"title":42}`},
		{"not json", `title=x`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &stubSearcher{payload: benchPayload}
			srv := testServer(t, s, true)
			resp, body := post(t, srv, "/search", tt.body)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, `Missing or invalid "title" in request body`, body["error"])
			assert.Zero(t, s.calls)
		})
	}
}

func TestSearchWithoutToken(t *testing.T) {
	s := &stubSearcher{payload: benchPayload}
	srv := testServer(t, s, false)
	resp, body := post(t, srv, "/search", `{"title":"Minerva Mills"}`)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Server missing token", body["error"])
	assert.Zero(t, s.calls)
}

func TestSearchUpstreamFailure(t *testing.T) {
	srv := testServer(t, &stubSearcher{err: errors.New("HTTP 403: forbidden")}, true)
	resp, body := post(t, srv, "/search", `{"title":"Minerva Mills"}`)

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "Search failed", body["error"])
	assert.Contains(t, body["details"], "HTTP 403")
	assert.Contains(t, scrape(t, srv), `kanoon_match_lookups_total{outcome="failed"} 1`)
}

func TestHealthz(t *testing.T) {
	srv := testServer(t, &stubSearcher{}, true)
	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/healthz", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok"}`, string(data))
}

func TestMetricsEndpoint(t *testing.T) {
	srv := testServer(t, &stubSearcher{payload: benchPayload}, true)
	post(t, srv, "/search", `{"title":"Minerva Mills"}`)

	metrics := scrape(t, srv)
	assert.Contains(t, metrics, `kanoon_match_lookups_total{outcome="matched"} 1`)
	assert.Contains(t, metrics, "kanoon_match_lookup_duration_seconds_count 1")
}
