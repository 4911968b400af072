package chart

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/wordchart/pkg/wordchart/freq"
	"github.com/cognicore/wordchart/pkg/wordchart/internalerr"
)

var ranked = []freq.Entry{{Token: "the", Count: 30}, {Token: "cat", Count: 20}, {Token: "mat", Count: 20}, {Token: "ran", Count: 10}}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"word-cloud", WordCloud},
		{"WordCloud", WordCloud},
		{"bar", Bar},
		{" Pie ", Pie},
		{"line", Line},
		{"scatter", Scatter},
		{"radar", Radar},
		{"k-line", KLine},
		{"candlestick", KLine},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseKind("histogram")
	assert.True(t, errors.Is(err, internalerr.ErrUnknownChartKind))
}

func TestKindRoundTrip(t *testing.T) {
	for _, k := range Kinds() {
		text, err := k.MarshalText()
		require.NoError(t, err)
		var back Kind
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, k, back)
		assert.NotEmpty(t, k.Title())
	}
	assert.Len(t, Kinds(), 7)
}

func TestSeriesKindsPreserveOrder(t *testing.T) {
	for _, k := range []Kind{Bar, Line} {
		spec, err := ToSpec(ranked, k, DefaultOptions())
		require.NoError(t, err)
		s := spec.(SeriesSpec)
		assert.Equal(t, k, s.Kind())
		assert.Equal(t, []string{"the", "cat", "mat", "ran"}, s.Categories)
		assert.Equal(t, []int{30, 20, 20, 10}, s.Values)
		assert.Len(t, s.Values, len(s.Categories))
	}
}

func TestAdaptersDoNotResort(t *testing.T) {
	unsorted := []freq.Entry{{Token: "low", Count: 1}, {Token: "high", Count: 9}, {Token: "mid", Count: 5}}
	spec, err := ToSpec(unsorted, Bar, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"low", "high", "mid"}, spec.(SeriesSpec).Categories)
}

func TestScatter(t *testing.T) {
	spec, err := ToSpec(ranked, Scatter, DefaultOptions())
	require.NoError(t, err)
	s := spec.(ScatterSpec)
	assert.Equal(t, len(s.Categories), len(s.Values))
	assert.Equal(t, Point{X: 1, Y: 20, Token: "cat"}, s.Points[1])
	assert.Equal(t, []string{"the", "cat", "mat", "ran"}, s.Categories)
}

func TestPie(t *testing.T) {
	spec, err := ToSpec(ranked[:2], Pie, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []Slice{{"the", 30}, {"cat", 20}}, spec.(PieSpec).Slices)
}

func TestRadarFloor(t *testing.T) {
	spec, err := ToSpec([]freq.Entry{{Token: "b", Count: 15}, {Token: "a", Count: 3}}, Radar, DefaultOptions())
	require.NoError(t, err)
	r := spec.(RadarSpec)
	assert.Equal(t, []Indicator{{"b", 15}, {"a", 10}}, r.Indicators)
	assert.Equal(t, []int{15, 3}, r.Values)
}

func TestRadarFloorIsClampedToDefault(t *testing.T) {
	entries := []freq.Entry{{Token: "a", Count: 3}, {Token: "b", Count: 15}}
	for _, floor := range []int{-3, 0, 9} {
		spec, err := ToSpec(entries, Radar, Options{SizeMin: 1, SizeMax: 2, RadarFloor: floor})
		require.NoError(t, err)
		assert.Equal(t, []Indicator{{"a", 10}, {"b", 15}}, spec.(RadarSpec).Indicators, "floor %d", floor)
	}

	spec, err := ToSpec(entries, Radar, Options{RadarFloor: 20})
	require.NoError(t, err)
	assert.Equal(t, []Indicator{{"a", 20}, {"b", 20}}, spec.(RadarSpec).Indicators)
}

func TestWordCloudScaling(t *testing.T) {
	spec, err := ToSpec(ranked, WordCloud, Options{SizeMin: 20, SizeMax: 100})
	require.NoError(t, err)
	w := spec.(WordCloudSpec)
	require.Len(t, w.Words, 4)
	assert.InDelta(t, 100, w.Words[0].Size, 1e-9)
	assert.InDelta(t, 60, w.Words[1].Size, 1e-9)
	assert.InDelta(t, 20, w.Words[3].Size, 1e-9)
	assert.Equal(t, 30, w.Words[0].Count)

	flat, err := ToSpec([]freq.Entry{{Token: "a", Count: 2}, {Token: "b", Count: 2}}, WordCloud, Options{SizeMin: 10, SizeMax: 50})
	require.NoError(t, err)
	for _, word := range flat.(WordCloudSpec).Words {
		assert.InDelta(t, 50, word.Size, 1e-9)
	}
}

func TestKLineIsFlagged(t *testing.T) {
	spec, err := ToSpec(ranked[:1], KLine, DefaultOptions())
	require.NoError(t, err)
	k := spec.(KLineSpec)
	assert.True(t, k.Degenerate)
	assert.Equal(t, []Candle{{30, 30, 30, 30}}, k.Candles)
}

func TestEmptyInputAllKinds(t *testing.T) {
	for _, k := range Kinds() {
		spec, err := ToSpec(nil, k, DefaultOptions())
		require.NoError(t, err, k.String())
		assert.Equal(t, k, spec.Kind())
		assert.Equal(t, 0, spec.Len())
	}
	spec, _ := ToSpec(nil, Bar, DefaultOptions())
	assert.NotNil(t, spec.(SeriesSpec).Categories)
	assert.Empty(t, spec.(SeriesSpec).Values)
}

func TestUnknownKind(t *testing.T) {
	_, err := ToSpec(ranked, Kind(42), DefaultOptions())
	assert.True(t, errors.Is(err, internalerr.ErrUnknownChartKind))
}
