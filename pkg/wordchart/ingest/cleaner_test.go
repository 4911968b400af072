package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple paragraph", "<p>Hello world</p>", "Hello world"},
		{"attributes", `<a href="https://example.com" class="x">Link</a>`, "Link"},
		{"self closing", "one<br/>two<img src='a.png' />", "onetwo"},
		{"nested", "<p><strong>Bold</strong> and <em>it</em></p>", "Bold and it"},
		{"plain", "No markup here", "No markup here"},
		{"non greedy", "a <b>x</b> c", "a x c"},
		{"tag spanning lines is kept", "<div\nclass=a>x", "<div\nclass=a>x"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripMarkup(tt.input))
		})
	}
}

func TestStripPunctuation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"ascii", "Hello, world! It's 9:30.", "Hello world Its 930"},
		{"cjk punctuation", "你好，世界！「测试」", "你好世界测试"},
		{"keeps whitespace runs", "a  -  b\t\nc", "a    b\t\nc"},
		{"keeps marks", "नमस्ते!", "नमस्ते"},
		{"underscore and symbols", "snake_case $5 + 3 = 8 ©", "snakecase 5  3  8 "},
		{"only punctuation", "!!!---???", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripPunctuation(tt.input))
		})
	}
}

func TestCleanOnlyMarkupAndPunctuation(t *testing.T) {
	assert.Equal(t, "", Clean("<b>!!!---</b>"))
}

func TestCleanOrderMatters(t *testing.T) {
	// Stripping punctuation first would leave the tag names behind.
	assert.Equal(t, "keep", Clean(`<span class="x">keep</span>`))
	assert.Equal(t, "span classxkeepspan", StripMarkup(StripPunctuation(`<span class="x">keep</span>`)))
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"<p>The cat, the hat.</p>",
		"plain words only",
		"混合 text，带标点！<br/>",
		"a < b and c > d",
		"",
	}
	for _, in := range inputs {
		once := Clean(in)
		assert.Equal(t, once, Clean(once), "input %q", in)
	}
}
