package ingest

import (
	"strings"

	"github.com/cognicore/wordchart/pkg/wordchart/decode"
)

// Pipeline orchestrates the text flow:
// decoded text → markup strip → punctuation strip → segmentation → stopword drop
type Pipeline struct {
	segmenter Segmenter
	stopwords map[string]struct{}
}

// NewPipeline creates a pipeline. Stopwords are matched case-insensitively;
// an empty list keeps every token.
func NewPipeline(segmenter Segmenter, stopwords []string) *Pipeline {
	if segmenter == nil {
		segmenter = NewFieldSegmenter()
	}
	stops := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		if w = strings.TrimSpace(w); w != "" {
			stops[strings.ToLower(w)] = struct{}{}
		}
	}
	return &Pipeline{segmenter: segmenter, stopwords: stops}
}

// Processed holds the intermediate products of one pipeline run.
type Processed struct {
	Cleaned string
	Tokens  []string
}

// Process runs decoded text through cleaning and segmentation.
func (p *Pipeline) Process(text decode.DecodedText) Processed {
	cleaned := Clean(text.Text)
	tokens := p.segmenter.Segment(cleaned)

	if len(p.stopwords) > 0 {
		kept := tokens[:0]
		for _, tok := range tokens {
			if !p.isStopword(tok) {
				kept = append(kept, tok)
			}
		}
		tokens = kept
	}

	return Processed{Cleaned: cleaned, Tokens: tokens}
}

func (p *Pipeline) isStopword(word string) bool {
	_, ok := p.stopwords[strings.ToLower(word)]
	return ok
}
