package ingest

import (
	"regexp"
	"strings"
	"unicode"
)

// markupPattern matches anything that looks like a tag, non-greedy and on a
// single line. It is a heuristic, not an HTML parser: malformed markup can
// leave stray characters behind.
var markupPattern = regexp.MustCompile(`<.*?>`)

// StripMarkup removes every tag-like substring.
func StripMarkup(text string) string {
	return markupPattern.ReplaceAllString(text, "")
}

// StripPunctuation drops every rune that is neither a word character nor
// whitespace. Letters, digits and combining marks of any script are kept;
// whitespace runs are left as they are.
func StripPunctuation(text string) string {
	return strings.Map(func(r rune) rune {
		if isWordRune(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, text)
}

// Clean strips markup and then punctuation. The order is significant: removing
// punctuation first would destroy the angle brackets that delimit tags.
func Clean(text string) string {
	return StripPunctuation(StripMarkup(text))
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r)
}
