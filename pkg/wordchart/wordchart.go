package wordchart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/wordchart/pkg/wordchart/chart"
	"github.com/cognicore/wordchart/pkg/wordchart/config"
	"github.com/cognicore/wordchart/pkg/wordchart/decode"
	"github.com/cognicore/wordchart/pkg/wordchart/fetch"
	"github.com/cognicore/wordchart/pkg/wordchart/freq"
	"github.com/cognicore/wordchart/pkg/wordchart/ingest"
	"github.com/cognicore/wordchart/pkg/wordchart/internalerr"
	"github.com/cognicore/wordchart/pkg/wordchart/logger"
	"github.com/cognicore/wordchart/pkg/wordchart/render"
)

// Engine runs the document → frequency → chart pipeline. It holds no
// per-run state and is safe for concurrent use.
type Engine struct {
	fetcher  fetch.Fetcher
	decoder  *decode.Decoder
	pipeline *ingest.Pipeline
	renderer render.Renderer
	chart    chart.Options
	topN     int
	maxItems int
	log      logger.Logger
}

// Options configures an Engine. Nil collaborators get defaults.
type Options struct {
	Fetcher  fetch.Fetcher
	Decoder  *decode.Decoder
	Pipeline *ingest.Pipeline
	Renderer render.Renderer
	Chart    chart.Options
	// TopN is the length of the ranking table in Result.Top.
	TopN int
	// MaxItems caps the ranked entries handed to the chart adapter; 0 means all.
	MaxItems int
	Logger   logger.Logger
}

// New creates an Engine with the given dependencies.
func New(opts Options) *Engine {
	e := &Engine{
		fetcher:  opts.Fetcher,
		decoder:  opts.Decoder,
		pipeline: opts.Pipeline,
		renderer: opts.Renderer,
		chart:    opts.Chart,
		topN:     opts.TopN,
		maxItems: opts.MaxItems,
		log:      opts.Logger,
	}
	if e.fetcher == nil {
		e.fetcher = fetch.NewHTTPFetcher()
	}
	if e.decoder == nil {
		e.decoder = decode.New(nil)
	}
	if e.pipeline == nil {
		e.pipeline = ingest.NewPipeline(ingest.NewFieldSegmenter(), nil)
	}
	if e.renderer == nil {
		e.renderer = render.NewECharts(render.DefaultOptions())
	}
	if e.chart == (chart.Options{}) {
		e.chart = chart.DefaultOptions()
	}
	if e.topN <= 0 {
		e.topN = config.DefaultTopN
	}
	if e.log == nil {
		e.log = logger.NewLogger(nil)
	}
	return e
}

// FromConfig wires an Engine from file configuration. The gse dictionary is
// loaded only when the script segmenter is selected.
func FromConfig(cfg *config.Config, log logger.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var seg ingest.Segmenter = ingest.NewFieldSegmenter()
	if cfg.Pipeline.Segmenter == config.SegmenterScript {
		cutter, err := ingest.NewGSECutter()
		if err != nil {
			return nil, fmt.Errorf("load segmentation dictionary: %w", err)
		}
		seg = ingest.NewScriptSegmenter(cutter)
	}

	return New(Options{
		Fetcher: fetch.NewHTTPFetcher(
			fetch.WithTimeout(cfg.Fetch.Timeout),
			fetch.WithUserAgent(cfg.Fetch.UserAgent),
			fetch.WithMaxBytes(cfg.Fetch.MaxBytes),
		),
		Decoder: decode.New(nil,
			decode.WithMinConfidence(cfg.Decode.MinConfidence),
			decode.WithFallback(cfg.Decode.Fallback),
		),
		Pipeline: ingest.NewPipeline(seg, cfg.Pipeline.Stopwords),
		Renderer: render.NewECharts(render.Options{Width: cfg.Chart.Width, Height: cfg.Chart.Height}),
		Chart: chart.Options{
			SizeMin:    cfg.Chart.SizeMin,
			SizeMax:    cfg.Chart.SizeMax,
			RadarFloor: cfg.Chart.RadarFloor,
		},
		TopN:     cfg.Pipeline.TopN,
		MaxItems: cfg.Chart.MaxItems,
		Logger:   log,
	}), nil
}

// Request is the complete per-run input.
type Request struct {
	URL     string
	Kind    chart.Kind
	MinFreq int
}

// Validate checks the request. URL is only required by Run.
func (r Request) Validate() error {
	if !r.Kind.Valid() {
		return fmt.Errorf("%w: %d", internalerr.ErrUnknownChartKind, int(r.Kind))
	}
	if err := config.ValidateMinFreq(r.MinFreq); err != nil {
		return fmt.Errorf("%w: %v", internalerr.ErrInvalidInput, err)
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%w: url: %v", internalerr.ErrInvalidInput, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: url %q must be absolute http(s)", internalerr.ErrInvalidInput, raw)
	}
	return nil
}

// Result is everything one run produced.
type Result struct {
	RunID    string
	URL      string
	Kind     chart.Kind
	MinFreq  int
	Title    string
	Encoding string
	// Fetched is false when retrieval failed; the run then continues on an
	// empty document.
	Fetched     bool
	FetchStatus int
	Tokens      int
	Table       freq.Table
	Filtered    freq.Table
	Top         []freq.Entry
	Spec        chart.Spec
}

// Run fetches req.URL and analyzes it. Fetch failures are not returned as
// errors; they produce an empty result with Fetched=false.
func (e *Engine) Run(ctx context.Context, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	if err := validateURL(req.URL); err != nil {
		return Result{}, err
	}

	log := e.log.With("url", req.URL)
	doc, err := e.fetcher.Fetch(ctx, req.URL)
	if err != nil || !doc.OK {
		log.Warn("fetch failed, continuing with empty document", "status", doc.StatusCode, "err", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		doc = fetch.RawDocument{URL: req.URL, StatusCode: doc.StatusCode}
	}

	res, err := e.analyze(doc.Body, req, log)
	if err != nil {
		return Result{}, err
	}
	res.Fetched = doc.OK
	res.FetchStatus = doc.StatusCode
	return res, nil
}

// Analyze runs the core pipeline over raw bytes. It performs no I/O.
func (e *Engine) Analyze(raw []byte, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	res, err := e.analyze(raw, req, e.log)
	if err != nil {
		return Result{}, err
	}
	res.Fetched = true
	return res, nil
}

func (e *Engine) analyze(raw []byte, req Request, log logger.Logger) (Result, error) {
	runID := ulid.Make().String()

	decoded := e.decoder.Decode(raw)
	processed := e.pipeline.Process(decoded)
	table := freq.Count(processed.Tokens)
	filtered := table.Filter(req.MinFreq)

	limit := filtered.Len()
	if e.maxItems > 0 && e.maxItems < limit {
		limit = e.maxItems
	}
	spec, err := chart.ToSpec(filtered.TopN(limit), req.Kind, e.chart)
	if err != nil {
		return Result{}, err
	}

	if kl, ok := spec.(chart.KLineSpec); ok && kl.Degenerate {
		log.Warn("k-line chart has one value per token; candles are flat", "run", runID)
	}

	log.Info("pipeline complete",
		"run", runID,
		"encoding", decoded.Encoding,
		"fallback", decoded.Fallback,
		"tokens", len(processed.Tokens),
		"distinct", table.Len(),
		"kept", filtered.Len(),
		"kind", req.Kind.String(),
	)

	return Result{
		RunID:    runID,
		URL:      req.URL,
		Kind:     req.Kind,
		MinFreq:  req.MinFreq,
		Title:    req.Kind.Title(),
		Encoding: decoded.Encoding,
		Tokens:   len(processed.Tokens),
		Table:    table,
		Filtered: filtered,
		Top:      filtered.TopN(e.topN),
		Spec:     spec,
	}, nil
}

// Render writes the chart of res as an HTML page.
func (e *Engine) Render(w io.Writer, res Result) error {
	if res.Spec == nil {
		return errors.New("render: result has no chart spec")
	}
	return e.renderer.Render(w, res.Spec, res.Title)
}
