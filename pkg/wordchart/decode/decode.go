package decode

import (
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// DefaultFallback is the encoding used when detection is inconclusive.
const DefaultFallback = "utf-8"

// DecodedText is a valid UTF-8 string plus the name of the encoding used to produce it.
type DecodedText struct {
	Text     string
	Encoding string
	// Fallback is set when the detector gave no confident answer or the
	// detected encoding failed and the fallback path produced Text.
	Fallback bool
}

// Detector guesses the character encoding of raw bytes.
type Detector interface {
	// Detect returns an encoding label and a confidence in [0,100].
	// ok is false when no guess could be made at all.
	Detect(raw []byte) (label string, confidence int, ok bool)
}

// ChardetDetector detects encodings from byte statistics only; declared
// headers and meta tags are ignored.
type ChardetDetector struct {
	detector *chardet.Detector
}

// NewChardetDetector creates a detector backed by chardet's text detector.
func NewChardetDetector() *ChardetDetector {
	return &ChardetDetector{detector: chardet.NewTextDetector()}
}

// Detect returns chardet's best guess and its confidence.
func (c *ChardetDetector) Detect(raw []byte) (string, int, bool) {
	res, err := c.detector.DetectBest(raw)
	if err != nil || res == nil || res.Charset == "" {
		return "", 0, false
	}
	return res.Charset, res.Confidence, true
}

// Decoder turns raw bytes into text. It never fails.
type Decoder struct {
	detector      Detector
	minConfidence int
	fallback      string
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithMinConfidence sets the detector confidence below which the fallback is used.
func WithMinConfidence(c int) Option {
	return func(d *Decoder) { d.minConfidence = c }
}

// WithFallback sets the fallback encoding label. Unknown labels resolve to UTF-8.
func WithFallback(label string) Option {
	return func(d *Decoder) { d.fallback = label }
}

// New creates a Decoder. A nil detector uses chardet.
func New(detector Detector, opts ...Option) *Decoder {
	if detector == nil {
		detector = NewChardetDetector()
	}
	d := &Decoder{
		detector:      detector,
		minConfidence: 10,
		fallback:      DefaultFallback,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode detects the encoding of raw and decodes it. Undecodable input is
// decoded with the fallback encoding, invalid sequences becoming U+FFFD.
func (d *Decoder) Decode(raw []byte) DecodedText {
	if len(raw) == 0 {
		return DecodedText{Encoding: d.fallbackName()}
	}

	label, confidence, ok := d.detector.Detect(raw)
	if ok && confidence >= d.minConfidence {
		if enc, name := lookup(label); enc != nil {
			if text, err := enc.NewDecoder().Bytes(raw); err == nil {
				return DecodedText{Text: sanitize(text), Encoding: name}
			}
		}
	}

	return d.decodeFallback(raw)
}

func (d *Decoder) decodeFallback(raw []byte) DecodedText {
	enc, name := lookup(d.fallback)
	if enc == nil {
		enc, name = unicode.UTF8, DefaultFallback
	}
	text, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		// A fallback that still rejects the input degrades to UTF-8 replacement.
		return DecodedText{
			Text:     strings.ToValidUTF8(string(raw), string(utf8.RuneError)),
			Encoding: DefaultFallback,
			Fallback: true,
		}
	}
	return DecodedText{Text: sanitize(text), Encoding: name, Fallback: true}
}

func (d *Decoder) fallbackName() string {
	if _, name := lookup(d.fallback); name != "" {
		return name
	}
	return DefaultFallback
}

// chardet names that the WHATWG label index spells differently.
var labelAliases = map[string]string{
	"gb-18030": "gb18030",
}

func lookup(label string) (encoding.Encoding, string) {
	key := strings.ToLower(strings.TrimSpace(label))
	if alias, ok := labelAliases[key]; ok {
		key = alias
	}
	if key == "utf-8" || key == "utf8" {
		return unicode.UTF8, "utf-8"
	}
	enc, name := charset.Lookup(key)
	if enc == nil {
		return nil, ""
	}
	return enc, name
}

// sanitize guarantees valid UTF-8 and drops a leading byte order mark.
func sanitize(b []byte) string {
	s := strings.TrimPrefix(string(b), "\uFEFF")
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, string(utf8.RuneError))
	}
	return s
}
