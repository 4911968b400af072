package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cognicore/wordchart/pkg/wordchart"
	"github.com/cognicore/wordchart/pkg/wordchart/chart"
	"github.com/cognicore/wordchart/pkg/wordchart/config"
	"github.com/cognicore/wordchart/pkg/wordchart/freq"
	"github.com/cognicore/wordchart/pkg/wordchart/internalerr"
	"github.com/cognicore/wordchart/pkg/wordchart/logger"
)

// Analyzer is the part of the engine the server needs.
type Analyzer interface {
	Run(ctx context.Context, req wordchart.Request) (wordchart.Result, error)
	Render(w io.Writer, res wordchart.Result) error
}

// Server is the HTTP control surface over an Analyzer.
type Server struct {
	engine         Analyzer
	defaultMinFreq int
	log            logger.Logger
}

// New creates a Server. A default threshold outside [1,100] is replaced by 10.
func New(engine Analyzer, defaultMinFreq int, log logger.Logger) (*Server, error) {
	if engine == nil {
		return nil, errors.New("engine required")
	}
	if config.ValidateMinFreq(defaultMinFreq) != nil {
		defaultMinFreq = config.DefaultMinFreq
	}
	if log == nil {
		log = logger.NewLogger(nil)
	}
	return &Server{engine: engine, defaultMinFreq: defaultMinFreq, log: log}, nil
}

// Routes returns the handler tree wrapped in request logging.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/analyze", s.handleAnalyze)
	mux.HandleFunc("/chart", s.handleChart)
	mux.HandleFunc("/api/analyze", s.handleAPIAnalyze)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return s.logMiddleware(mux)
}

type kindOption struct {
	Value    string
	Label    string
	Selected bool
}

type pageData struct {
	URL       string
	MinFreq   int
	Kinds     []kindOption
	Error     string
	Result    *wordchart.Result
	ChartHTML string
	Top       []freq.Entry
}

func (s *Server) form(url string, kind chart.Kind, minFreq int) pageData {
	opts := make([]kindOption, 0, len(chart.Kinds()))
	for _, k := range chart.Kinds() {
		opts = append(opts, kindOption{Value: k.String(), Label: k.Title(), Selected: k == kind})
	}
	return pageData{URL: url, MinFreq: minFreq, Kinds: opts}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.page(w, http.StatusOK, s.form("", chart.WordCloud, s.defaultMinFreq))
}

// parseRequest reads url, kind and min_freq from the query string.
func (s *Server) parseRequest(r *http.Request) (wordchart.Request, error) {
	q := r.URL.Query()
	req := wordchart.Request{
		URL:     strings.TrimSpace(q.Get("url")),
		Kind:    chart.WordCloud,
		MinFreq: s.defaultMinFreq,
	}
	if v := q.Get("kind"); v != "" {
		k, err := chart.ParseKind(v)
		if err != nil {
			return req, err
		}
		req.Kind = k
	}
	if v := q.Get("min_freq"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("%w: min_freq %q", internalerr.ErrInvalidInput, v)
		}
		req.MinFreq = n
	}
	return req, nil
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	req, err := s.parseRequest(r)
	data := s.form(req.URL, req.Kind, req.MinFreq)
	if err != nil {
		data.Error = err.Error()
		s.page(w, http.StatusBadRequest, data)
		return
	}

	res, err := s.engine.Run(r.Context(), req)
	if err != nil {
		data.Error = err.Error()
		s.page(w, statusFor(err), data)
		return
	}

	var chartBuf bytes.Buffer
	if err := s.engine.Render(&chartBuf, res); err != nil {
		s.log.Error("render failed", "run", res.RunID, "err", err)
		data.Error = "could not render chart"
		s.page(w, http.StatusInternalServerError, data)
		return
	}

	data.Result = &res
	data.Top = res.Top
	data.ChartHTML = chartBuf.String()
	s.page(w, http.StatusOK, data)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := s.engine.Run(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	var buf bytes.Buffer
	if err := s.engine.Render(&buf, res); err != nil {
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

type entryJSON struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

type analyzeResp struct {
	RunID       string      `json:"run_id"`
	URL         string      `json:"url"`
	Kind        chart.Kind  `json:"kind"`
	MinFreq     int         `json:"min_freq"`
	Encoding    string      `json:"encoding"`
	Fetched     bool        `json:"fetched"`
	FetchStatus int         `json:"fetch_status"`
	Tokens      int         `json:"tokens"`
	Distinct    int         `json:"distinct"`
	Top         []entryJSON `json:"top"`
	Chart       chart.Spec  `json:"chart"`
}

func (s *Server) handleAPIAnalyze(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	res, err := s.engine.Run(r.Context(), req)
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}

	top := make([]entryJSON, len(res.Top))
	for i, e := range res.Top {
		top[i] = entryJSON{Token: e.Token, Count: e.Count}
	}
	writeJSON(w, http.StatusOK, analyzeResp{
		RunID:       res.RunID,
		URL:         res.URL,
		Kind:        res.Kind,
		MinFreq:     res.MinFreq,
		Encoding:    res.Encoding,
		Fetched:     res.Fetched,
		FetchStatus: res.FetchStatus,
		Tokens:      res.Tokens,
		Distinct:    res.Table.Len(),
		Top:         top,
		Chart:       res.Spec,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, internalerr.ErrInvalidInput), errors.Is(err, internalerr.ErrUnknownChartKind):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) page(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		s.log.Error("template failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "took", time.Since(start))
	})
}

var pageTmpl = template.Must(template.New("page").Funcs(template.FuncMap{
	"rank": func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>wordchart</title></head>
<body>
<form action="/analyze" method="get">
  <label>Article URL <input type="url" name="url" value="{{.URL}}" size="60" required></label>
  <label>Chart
    <select name="kind">
    {{- range .Kinds}}
      <option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
    {{- end}}
    </select>
  </label>
  <label>Minimum frequency <input type="range" name="min_freq" min="1" max="100" value="{{.MinFreq}}" oninput="this.nextElementSibling.value=this.value"><output>{{.MinFreq}}</output></label>
  <button type="submit">Analyze</button>
</form>
{{- if .Error}}
<p class="error">{{.Error}}</p>
{{- end}}
{{- with .Result}}
{{- if not .Fetched}}
<p class="warning">Could not fetch the document (status {{.FetchStatus}}); showing an empty result.</p>
{{- end}}
<h2>Top words</h2>
<table>
  <tr><th>#</th><th>Word</th><th>Count</th></tr>
  {{- range $i, $e := $.Top}}
  <tr><td>{{rank $i}}</td><td>{{$e.Token}}</td><td>{{$e.Count}}</td></tr>
  {{- end}}
</table>
<iframe title="{{.Title}}" srcdoc="{{$.ChartHTML}}" width="100%" height="650" frameborder="0"></iframe>
{{- end}}
</body>
</html>
`))
