package ingest

import (
	"strings"
	"unicode"

	"github.com/go-ego/gse"
)

// Segmenter splits cleaned text into word tokens. Tokens never contain
// whitespace and keep document order.
type Segmenter interface {
	Segment(text string) []string
}

// Cutter finds word boundaries inside a run of text written in a script with
// no spaces between words.
type Cutter interface {
	Cut(text string) []string
}

// FieldSegmenter splits on whitespace only.
type FieldSegmenter struct{}

// NewFieldSegmenter creates a whitespace-only segmenter.
func NewFieldSegmenter() FieldSegmenter {
	return FieldSegmenter{}
}

func (FieldSegmenter) Segment(text string) []string {
	return strings.Fields(text)
}

// ScriptSegmenter splits on whitespace and hands every field containing
// unbounded-script runes (Han, Kana, Thai, ...) to a Cutter.
type ScriptSegmenter struct {
	cutter Cutter
}

// NewScriptSegmenter returns a segmenter that delegates unbounded fields to cutter.
// A nil cutter degrades to whitespace splitting.
func NewScriptSegmenter(cutter Cutter) *ScriptSegmenter {
	return &ScriptSegmenter{cutter: cutter}
}

func (s *ScriptSegmenter) Segment(text string) []string {
	var tokens []string
	for _, field := range strings.Fields(text) {
		if s.cutter == nil || !hasUnboundedScript(field) {
			tokens = append(tokens, field)
			continue
		}
		for _, piece := range s.cutter.Cut(field) {
			// Cutters may return whitespace or pieces with inner spaces.
			tokens = append(tokens, strings.Fields(piece)...)
		}
	}
	return tokens
}

var unboundedScripts = []*unicode.RangeTable{
	unicode.Han,
	unicode.Hiragana,
	unicode.Katakana,
	unicode.Thai,
	unicode.Lao,
	unicode.Khmer,
	unicode.Myanmar,
}

func hasUnboundedScript(s string) bool {
	for _, r := range s {
		if unicode.IsOneOf(unboundedScripts, r) {
			return true
		}
	}
	return false
}

// GSECutter segments Chinese with the gse dictionary and HMM for unknown words.
type GSECutter struct {
	seg gse.Segmenter
	hmm bool
}

// NewGSECutter loads the embedded default dictionary.
func NewGSECutter() (*GSECutter, error) {
	c := &GSECutter{hmm: true}
	if err := c.seg.LoadDictEmbed(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *GSECutter) Cut(text string) []string {
	return c.seg.Cut(text, c.hmm)
}
