package sentiment

import (
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
)

var (
	analyzer    = govader.NewSentimentIntensityAnalyzer()
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern  = regexp.MustCompile(`<[^>]+>`)
)

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1")
	return urlPattern.ReplaceAllString(input, "")
}

// ConvertMarkdownToText renders markdown and strips the resulting tags so
// emphasis and links in pasted feedback do not skew the lexicon score.
func ConvertMarkdownToText(input string) string {
	input = RemoveLinks(input)
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plain := tagPattern.ReplaceAllString(string(output), " ")
	return strings.Join(strings.Fields(plain), " ")
}

// Baseline returns VADER's compound polarity in [-1, 1]. It is recorded next to
// the model sentiment for diagnostics and never replaces it.
func Baseline(text string) float64 {
	plain := ConvertMarkdownToText(text)
	if plain == "" {
		return 0
	}
	return analyzer.PolarityScores(plain).Compound
}
