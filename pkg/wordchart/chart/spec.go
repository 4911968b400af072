package chart

import (
	"fmt"

	"github.com/cognicore/wordchart/pkg/wordchart/freq"
	"github.com/cognicore/wordchart/pkg/wordchart/internalerr"
)

// Spec is the data one chart kind needs. It is a projection of ranked
// entries and holds no reference back to the frequency table.
type Spec interface {
	Kind() Kind
	// Len is the number of data points (tokens) in the spec.
	Len() int
}

// WeightedWord is a word-cloud item. Size is Count scaled into the size range.
type WeightedWord struct {
	Token string
	Count int
	Size  float64
}

// WordCloudSpec holds words with sizes scaled into [SizeMin, SizeMax].
type WordCloudSpec struct {
	Words   []WeightedWord
	SizeMin float64
	SizeMax float64
}

// SeriesSpec holds parallel category and value axes for bar and line charts.
type SeriesSpec struct {
	ChartKind  Kind
	Categories []string
	Values     []int
}

// Slice is one named pie wedge.
type Slice struct {
	Name  string
	Value int
}

// PieSpec holds (name, value) slices in ranking order.
type PieSpec struct {
	Slices []Slice
}

// Point is a scatter point. X is the rank index of the token.
type Point struct {
	X     int
	Y     int
	Token string
}

// ScatterSpec is a series plus (rank, count) points.
type ScatterSpec struct {
	Categories []string
	Values     []int
	Points     []Point
}

// Indicator is one radar axis.
type Indicator struct {
	Name string
	Max  int
}

// RadarSpec has one axis per token, with Values in axis order.
type RadarSpec struct {
	Indicators []Indicator
	Values     []int
}

// Candle is one OHLC point.
type Candle struct {
	Open  int
	Close int
	Low   int
	High  int
}

// KLineSpec maps each count to a flat candle (open = close = low = high).
// A single count carries no spread, so Degenerate is always true.
type KLineSpec struct {
	Categories []string
	Candles    []Candle
	Degenerate bool
}

func (WordCloudSpec) Kind() Kind { return WordCloud }
func (s SeriesSpec) Kind() Kind { return s.ChartKind }
func (PieSpec) Kind() Kind { return Pie }
func (ScatterSpec) Kind() Kind { return Scatter }
func (RadarSpec) Kind() Kind { return Radar }
func (KLineSpec) Kind() Kind { return KLine }
func (s WordCloudSpec) Len() int { return len(s.Words) }
func (s SeriesSpec) Len() int { return len(s.Categories) }
func (s PieSpec) Len() int { return len(s.Slices) }
func (s ScatterSpec) Len() int { return len(s.Categories) }
func (s RadarSpec) Len() int { return len(s.Indicators) }
func (s KLineSpec) Len() int { return len(s.Categories) }

const (
	DefaultSizeMin    = 20
	DefaultSizeMax    = 100
	DefaultRadarFloor = 10
)

// Options tunes the kind-specific projections.
type Options struct {
	SizeMin float64
	SizeMax float64
	// RadarFloor may raise the minimum radar axis range; values below
	// DefaultRadarFloor are clamped up to it.
	RadarFloor int
}

// DefaultOptions returns the [20, 100] size range and a radar floor of 10.
func DefaultOptions() Options {
	return Options{
		SizeMin:    DefaultSizeMin,
		SizeMax:    DefaultSizeMax,
		RadarFloor: DefaultRadarFloor,
	}
}

// ToSpec projects ranked entries onto kind. Entries are used in the order
// given; they are not re-sorted.
func ToSpec(entries []freq.Entry, kind Kind, opts Options) (Spec, error) {
	switch kind {
	case WordCloud:
		return wordCloud(entries, opts), nil
	case Bar, Line:
		cats, vals := axes(entries)
		return SeriesSpec{ChartKind: kind, Categories: cats, Values: vals}, nil
	case Pie:
		return pie(entries), nil
	case Scatter:
		return scatter(entries), nil
	case Radar:
		return radar(entries, max(opts.RadarFloor, DefaultRadarFloor)), nil
	case KLine:
		return kline(entries), nil
	default:
		return nil, fmt.Errorf("%w: %s", internalerr.ErrUnknownChartKind, kind)
	}
}

func axes(entries []freq.Entry) ([]string, []int) {
	cats := make([]string, len(entries))
	vals := make([]int, len(entries))
	for i, e := range entries {
		cats[i] = e.Token
		vals[i] = e.Count
	}
	return cats, vals
}

func wordCloud(entries []freq.Entry, opts Options) WordCloudSpec {
	lo, hi := opts.SizeMin, opts.SizeMax
	if hi < lo {
		lo, hi = hi, lo
	}
	spec := WordCloudSpec{Words: make([]WeightedWord, len(entries)), SizeMin: lo, SizeMax: hi}
	if len(entries) == 0 {
		return spec
	}

	minC, maxC := entries[0].Count, entries[0].Count
	for _, e := range entries[1:] {
		minC = min(minC, e.Count)
		maxC = max(maxC, e.Count)
	}

	for i, e := range entries {
		size := hi
		if maxC > minC {
			size = lo + (hi-lo)*float64(e.Count-minC)/float64(maxC-minC)
		}
		spec.Words[i] = WeightedWord{Token: e.Token, Count: e.Count, Size: size}
	}
	return spec
}

func pie(entries []freq.Entry) PieSpec {
	spec := PieSpec{Slices: make([]Slice, len(entries))}
	for i, e := range entries {
		spec.Slices[i] = Slice{Name: e.Token, Value: max(e.Count, 0)}
	}
	return spec
}

func scatter(entries []freq.Entry) ScatterSpec {
	cats, vals := axes(entries)
	points := make([]Point, len(entries))
	for i, e := range entries {
		points[i] = Point{X: i, Y: e.Count, Token: e.Token}
	}
	return ScatterSpec{Categories: cats, Values: vals, Points: points}
}

func radar(entries []freq.Entry, floor int) RadarSpec {
	spec := RadarSpec{
		Indicators: make([]Indicator, len(entries)),
		Values:     make([]int, len(entries)),
	}
	for i, e := range entries {
		spec.Indicators[i] = Indicator{Name: e.Token, Max: max(e.Count, floor)}
		spec.Values[i] = e.Count
	}
	return spec
}

func kline(entries []freq.Entry) KLineSpec {
	cats, vals := axes(entries)
	candles := make([]Candle, len(vals))
	for i, v := range vals {
		candles[i] = Candle{Open: v, Close: v, Low: v, High: v}
	}
	return KLineSpec{Categories: cats, Candles: candles, Degenerate: true}
}
