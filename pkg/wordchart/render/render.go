package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/oklog/ulid/v2"

	"github.com/cognicore/wordchart/pkg/wordchart/chart"
	"github.com/cognicore/wordchart/pkg/wordchart/internalerr"
)

// Renderer turns a chart spec into a self-contained HTML artifact.
type Renderer interface {
	Render(w io.Writer, spec chart.Spec, title string) error
}

// SeriesName labels the single data series of every chart.
const SeriesName = "frequency"

// Options sets the chart canvas size and where ECharts assets are loaded from.
type Options struct {
	Width      string
	Height     string
	AssetsHost string
}

// DefaultOptions returns a 900x600 canvas with the go-echarts asset host.
func DefaultOptions() Options {
	return Options{Width: "900px", Height: "600px"}
}

// ECharts renders specs with Apache ECharts via go-echarts.
type ECharts struct {
	opts Options
}

// NewECharts creates a renderer, filling an empty width or height from DefaultOptions.
func NewECharts(o Options) *ECharts {
	def := DefaultOptions()
	if o.Width == "" {
		o.Width = def.Width
	}
	if o.Height == "" {
		o.Height = def.Height
	}
	return &ECharts{opts: o}
}

type page interface {
	Render(w io.Writer) error
}

// Render writes a complete HTML page holding one chart.
func (e *ECharts) Render(w io.Writer, spec chart.Spec, title string) error {
	if spec == nil {
		return fmt.Errorf("render: %w: nil spec", internalerr.ErrInvalidInput)
	}
	if title == "" {
		title = spec.Kind().Title()
	}
	global := []charts.GlobalOpts{
		charts.WithInitializationOpts(e.initOpts(title)),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}

	var p page
	switch s := spec.(type) {
	case chart.WordCloudSpec:
		p = wordCloud(s, global)
	case chart.SeriesSpec:
		if s.ChartKind == chart.Line {
			p = line(s, global)
		} else {
			p = bar(s, global)
		}
	case chart.PieSpec:
		p = pie(s, global)
	case chart.ScatterSpec:
		p = scatter(s, global)
	case chart.RadarSpec:
		p = radar(s, global)
	case chart.KLineSpec:
		p = kline(s, global)
	default:
		return fmt.Errorf("render: %w: %T", internalerr.ErrUnknownChartKind, spec)
	}

	if err := p.Render(w); err != nil {
		return fmt.Errorf("render %s: %w", spec.Kind(), err)
	}
	return nil
}

func (e *ECharts) initOpts(title string) opts.Initialization {
	return opts.Initialization{
		PageTitle:  title,
		Width:      e.opts.Width,
		Height:     e.opts.Height,
		AssetsHost: e.opts.AssetsHost,
		ChartID:    NewChartID(),
	}
}

// NewChartID returns a unique id usable as a DOM id and a JS identifier suffix.
func NewChartID() string {
	return "wc" + strings.ToLower(ulid.Make().String())
}

// wordCloud plots each word at its precomputed Size. ECharts maps the value
// domain linearly onto SizeRange, so the range is pinned to the smallest and
// largest sizes present and the mapping becomes the identity.
func wordCloud(s chart.WordCloudSpec, global []charts.GlobalOpts) page {
	data := make([]opts.WordCloudData, len(s.Words))
	lo, hi := s.SizeMin, s.SizeMax
	for i, w := range s.Words {
		data[i] = opts.WordCloudData{Name: w.Token, Value: w.Size}
		if i == 0 {
			lo, hi = w.Size, w.Size
		}
		lo, hi = min(lo, w.Size), max(hi, w.Size)
	}
	wc := charts.NewWordCloud()
	wc.SetGlobalOptions(global...)
	wc.AddSeries(SeriesName, data, charts.WithWorldCloudChartOpts(opts.WordCloudChart{
		SizeRange: []float32{float32(lo), float32(hi)},
		Shape:     "circle",
	}))
	return wc
}

func bar(s chart.SeriesSpec, global []charts.GlobalOpts) page {
	data := make([]opts.BarData, len(s.Values))
	for i, v := range s.Values {
		data[i] = opts.BarData{Value: v}
	}
	b := charts.NewBar()
	b.SetGlobalOptions(global...)
	b.SetXAxis(s.Categories).AddSeries(SeriesName, data)
	return b
}

func line(s chart.SeriesSpec, global []charts.GlobalOpts) page {
	data := make([]opts.LineData, len(s.Values))
	for i, v := range s.Values {
		data[i] = opts.LineData{Value: v}
	}
	l := charts.NewLine()
	l.SetGlobalOptions(global...)
	l.SetXAxis(s.Categories).AddSeries(SeriesName, data)
	return l
}

func pie(s chart.PieSpec, global []charts.GlobalOpts) page {
	data := make([]opts.PieData, len(s.Slices))
	for i, sl := range s.Slices {
		data[i] = opts.PieData{Name: sl.Name, Value: sl.Value}
	}
	p := charts.NewPie()
	p.SetGlobalOptions(global...)
	p.AddSeries(SeriesName, data).SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c}"}),
	)
	return p
}

func scatter(s chart.ScatterSpec, global []charts.GlobalOpts) page {
	data := make([]opts.ScatterData, len(s.Points))
	for i, pt := range s.Points {
		data[i] = opts.ScatterData{Name: pt.Token, Value: pt.Y}
	}
	sc := charts.NewScatter()
	sc.SetGlobalOptions(global...)
	sc.SetXAxis(s.Categories).AddSeries(SeriesName, data)
	return sc
}

func radar(s chart.RadarSpec, global []charts.GlobalOpts) page {
	indicators := make([]*opts.Indicator, len(s.Indicators))
	for i, ind := range s.Indicators {
		indicators[i] = &opts.Indicator{Name: ind.Name, Max: float32(ind.Max)}
	}
	values := make([]float32, len(s.Values))
	for i, v := range s.Values {
		values[i] = float32(v)
	}
	r := charts.NewRadar()
	r.SetGlobalOptions(append(global, charts.WithRadarComponentOpts(opts.RadarComponent{
		Indicator: indicators,
		Shape:     "polygon",
	}))...)
	r.AddSeries(SeriesName, []opts.RadarData{{Name: SeriesName, Value: values}})
	return r
}

func kline(s chart.KLineSpec, global []charts.GlobalOpts) page {
	data := make([]opts.KlineData, len(s.Candles))
	for i, c := range s.Candles {
		// ECharts candlestick order: open, close, lowest, highest.
		data[i] = opts.KlineData{Value: [4]int{c.Open, c.Close, c.Low, c.High}}
	}
	k := charts.NewKLine()
	k.SetGlobalOptions(global...)
	k.SetXAxis(s.Categories).AddSeries(SeriesName, data)
	return k
}
