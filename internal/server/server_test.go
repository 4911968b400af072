package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/wordchart/pkg/wordchart"
	"github.com/cognicore/wordchart/pkg/wordchart/chart"
	"github.com/cognicore/wordchart/pkg/wordchart/fetch"
	"github.com/cognicore/wordchart/pkg/wordchart/internalerr"
	"github.com/cognicore/wordchart/pkg/wordchart/logger"
)

type fakeFetcher struct {
	body string
	ok   bool
}

func (f fakeFetcher) Fetch(_ context.Context, url string) (fetch.RawDocument, error) {
	if !f.ok {
		return fetch.RawDocument{URL: url, StatusCode: http.StatusBadGateway},
			&fetch.Error{Op: "Get", URL: url, Status: http.StatusBadGateway}
	}
	return fetch.RawDocument{URL: url, Body: []byte(f.body), StatusCode: 200, OK: true}, nil
}

type recordingAnalyzer struct {
	got wordchart.Request
	err error
}

func (r *recordingAnalyzer) Run(_ context.Context, req wordchart.Request) (wordchart.Result, error) {
	r.got = req
	return wordchart.Result{}, r.err
}

func (r *recordingAnalyzer) Render(io.Writer, wordchart.Result) error { return nil }

func newTestServer(t *testing.T, f fetch.Fetcher) *httptest.Server {
	t.Helper()
	engine := wordchart.New(wordchart.Options{Fetcher: f, Logger: logger.NewForTests()})
	srv, err := New(engine, 2, logger.NewForTests())
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestIndexListsAllKinds(t *testing.T) {
	ts := newTestServer(t, fakeFetcher{ok: true})
	status, body := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, status)
	for _, k := range chart.Kinds() {
		assert.Contains(t, body, fmt.Sprintf(`value="%s"`, k.String()))
	}
	assert.Contains(t, body, `value="2"`)

	status, _ = get(t, ts.URL+"/nope")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAnalyzePage(t *testing.T) {
	ts := newTestServer(t, fakeFetcher{ok: true, body: "<p>red red red blue blue green</p>"})
	status, body := get(t, ts.URL+"/analyze?url=http://example.com&kind=bar&min_freq=2")

	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<td>red</td><td>3</td>")
	assert.Contains(t, body, "<td>blue</td><td>2</td>")
	assert.NotContains(t, body, "<td>green</td>")
	assert.Contains(t, body, "srcdoc=")
}

func TestAnalyzeFetchFailureIsNotAnError(t *testing.T) {
	ts := newTestServer(t, fakeFetcher{ok: false})
	status, body := get(t, ts.URL+"/analyze?url=http://example.com&kind=pie")

	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Could not fetch the document")
}

func TestAnalyzeBadInput(t *testing.T) {
	ts := newTestServer(t, fakeFetcher{ok: true})
	for _, q := range []string{
		"?url=http://example.com&kind=histogram",
		"?url=http://example.com&min_freq=abc",
		"?url=http://example.com&min_freq=0",
		"?url=notaurl",
	} {
		status, _ := get(t, ts.URL+"/analyze"+q)
		assert.Equal(t, http.StatusBadRequest, status, q)
	}
}

func TestAPIAnalyze(t *testing.T) {
	ts := newTestServer(t, fakeFetcher{ok: true, body: "a b a c a b"})
	status, body := get(t, ts.URL+"/api/analyze?url=http://example.com&kind=radar&min_freq=1")
	require.Equal(t, http.StatusOK, status)

	var resp struct {
		Kind  string `json:"kind"`
		Top   []struct {
			Token string `json:"token"`
			Count int    `json:"count"`
		} `json:"top"`
		Chart struct {
			Indicators []struct {
				Name string
				Max  int
			}
		} `json:"chart"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.Equal(t, "radar", resp.Kind)
	require.Len(t, resp.Top, 3)
	assert.Equal(t, "a", resp.Top[0].Token)
	assert.Equal(t, 3, resp.Top[0].Count)
	require.Len(t, resp.Chart.Indicators, 3)
	assert.Equal(t, 10, resp.Chart.Indicators[0].Max)
}

func TestChartEndpoint(t *testing.T) {
	ts := newTestServer(t, fakeFetcher{ok: true, body: "x y x"})
	status, body := get(t, ts.URL+"/chart?url=http://example.com&kind=word-cloud&min_freq=1")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<html")
}

func TestDefaultsAppliedToRequest(t *testing.T) {
	rec := &recordingAnalyzer{}
	srv, err := New(rec, 500, logger.NewForTests())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	srv.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/analyze?url=http://a.b", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, wordchart.Request{URL: "http://a.b", Kind: chart.WordCloud, MinFreq: 10}, rec.got)
}

func TestStatusForErrors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(internalerr.ErrInvalidInput))
	assert.Equal(t, http.StatusBadRequest, statusFor(fmt.Errorf("x: %w", internalerr.ErrUnknownChartKind)))
	assert.Equal(t, http.StatusGatewayTimeout, statusFor(context.DeadlineExceeded))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, fakeFetcher{ok: true})
	status, body := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body)
}
