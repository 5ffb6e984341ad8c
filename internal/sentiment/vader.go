// Package sentiment wraps the VADER rule-based model behind the
// general-purpose polarity scorer used by the analysis engine.
package sentiment

import (
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
)

// VADER degrades on very long inputs; score the leading chunk only.
const maxInputLen = 512

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

// Scorer produces a compound polarity score in [-1, 1]. The underlying
// analyzer is read-only after construction and safe for concurrent use.
type Scorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewScorer() *Scorer {
	return &Scorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score cleans the text and returns the VADER compound score.
func (s *Scorer) Score(text string) float64 {
	plain := ConvertMarkdownToText(text)
	if len(plain) > maxInputLen {
		plain = plain[:maxInputLen]
	}

	return s.analyzer.PolarityScores(plain).Compound
}

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plainText := strings.Join(strings.Fields(string(output)), " ")

	return RemoveLinks(plainText)
}
