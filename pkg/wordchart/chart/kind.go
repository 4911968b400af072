package chart

import (
	"fmt"
	"strings"

	"github.com/cognicore/wordchart/pkg/wordchart/internalerr"
)

// Kind identifies one of the supported chart encodings.
type Kind int

const (
	WordCloud Kind = iota
	Bar
	Pie
	Line
	Scatter
	Radar
	KLine
)

var kindNames = [...]string{
	WordCloud: "word-cloud",
	Bar:       "bar",
	Pie:       "pie",
	Line:      "line",
	Scatter:   "scatter",
	Radar:     "radar",
	KLine:     "k-line",
}

var kindTitles = [...]string{
	WordCloud: "Word Cloud",
	Bar:       "Bar Chart",
	Pie:       "Pie Chart",
	Line:      "Line Chart",
	Scatter:   "Scatter Chart",
	Radar:     "Radar Chart",
	KLine:     "K-Line Chart",
}

// Kinds lists every kind in display order.
func Kinds() []Kind {
	return []Kind{WordCloud, Bar, Pie, Line, Scatter, Radar, KLine}
}

// Valid reports whether k is one of the seven kinds.
func (k Kind) Valid() bool {
	return k >= WordCloud && k <= KLine
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Title is the default human-readable chart title.
func (k Kind) Title() string {
	if !k.Valid() {
		return ""
	}
	return kindTitles[k]
}

// ParseKind accepts the canonical name, case-insensitively. "wordcloud",
// "kline" and "candlestick" are accepted as aliases.
func ParseKind(s string) (Kind, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch key {
	case "wordcloud", "word_cloud":
		return WordCloud, nil
	case "kline", "k_line", "candlestick":
		return KLine, nil
	}
	for _, k := range Kinds() {
		if kindNames[k] == key {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", internalerr.ErrUnknownChartKind, s)
}

// MarshalText encodes k as its canonical name.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", internalerr.ErrUnknownChartKind, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText parses a name or alias via ParseKind.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
