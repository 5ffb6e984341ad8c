package sentiment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreSign(t *testing.T) {
	scorer := NewScorer()

	positive := scorer.Score("This is a great, fantastic success")
	negative := scorer.Score("This is a terrible, horrible disaster")

	assert.Positive(t, positive)
	assert.Negative(t, negative)
}

func TestScoreBounds(t *testing.T) {
	scorer := NewScorer()

	texts := []string{
		"",
		"completely neutral statement about a number",
		"amazing wonderful excellent great superb",
		"awful horrible terrible dreadful worst",
		strings.Repeat("stock prices moved today. ", 100),
	}

	for _, text := range texts {
		score := scorer.Score(text)
		assert.GreaterOrEqual(t, score, -1.0, "text %q", text)
		assert.LessOrEqual(t, score, 1.0, "text %q", text)
	}
}

func TestScoreNeutralOnEmpty(t *testing.T) {
	scorer := NewScorer()

	assert.Equal(t, 0.0, scorer.Score(""))
}

func TestScoreTruncatesLongInput(t *testing.T) {
	scorer := NewScorer()

	// sentiment lives past the cutoff; the truncated text is neutral
	text := strings.Repeat("a ", maxInputLen) + " absolutely wonderful"
	assert.Equal(t, 0.0, scorer.Score(text))
}

func TestRemoveLinks(t *testing.T) {
	input := "read [the report](https://example.com/q3) at https://example.com now"
	out := RemoveLinks(input)

	assert.NotContains(t, out, "https://")
	assert.Contains(t, out, "the report")
}

func TestConvertMarkdownToText(t *testing.T) {
	out := ConvertMarkdownToText("**profits** are\n\n*up*")

	assert.Contains(t, out, "profits")
	assert.Contains(t, out, "up")
}
