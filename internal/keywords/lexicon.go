// Package keywords assigns a topical category and critical-issue flags to
// feedback by plain substring matching against a fixed lexicon.
package keywords

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	CategoryContentQuality    = "Content Quality"
	CategoryHighLatency       = "High Latency"
	CategoryApplicationErrors = "Application Errors"
	CategoryOther             = "Other"
)

// CategoryKeywords is one entry of the ordered category table. Order is
// priority: the first category with a matching keyword wins.
type CategoryKeywords struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// Lexicon is read-only once built and safe to share between goroutines.
type Lexicon struct {
	categories []CategoryKeywords
	critical   []string
}

type lexiconFile struct {
	Categories []CategoryKeywords `yaml:"categories"`
	Critical   []string           `yaml:"critical"`
}

func DefaultLexicon() *Lexicon {
	return &Lexicon{
		categories: []CategoryKeywords{
			{Name: CategoryContentQuality, Keywords: []string{"quality", "feature", "content", "useful", "helpful"}},
			{Name: CategoryHighLatency, Keywords: []string{"slow", "lag", "delay", "latency"}},
			{Name: CategoryApplicationErrors, Keywords: []string{"error", "crash", "bug", "problem", "issue"}},
		},
		critical: []string{
			"security breach", "data breach", "privacy issue", "hack", "broken feature", "security", "vulnerability",
			"crash", "bug", "problem", "error", "fail", "malfunction", "malware", "unauthorized access", "account compromise",
		},
	}
}

// NewLexicon copies and lower-cases the given tables. Category names must come
// from the fixed label set; an override may reorder them, change their
// keywords, or leave some out, but never introduce new labels.
func NewLexicon(categories []CategoryKeywords, critical []string) (*Lexicon, error) {
	lex := &Lexicon{}
	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		name := strings.TrimSpace(c.Name)
		switch {
		case name == "":
			return nil, fmt.Errorf("lexicon: category without a name")
		case name == CategoryOther:
			return nil, fmt.Errorf("lexicon: %q is reserved for unmatched feedback", CategoryOther)
		case !isKnownCategory(name):
			return nil, fmt.Errorf("lexicon: unknown category %q", name)
		case seen[name]:
			return nil, fmt.Errorf("lexicon: category %q listed twice", name)
		}
		seen[name] = true
		lex.categories = append(lex.categories, CategoryKeywords{Name: name, Keywords: normalize(c.Keywords)})
	}
	lex.critical = normalize(critical)
	return lex, nil
}

// LoadLexicon reads a YAML lexicon. An empty path yields the default lexicon.
func LoadLexicon(path string) (*Lexicon, error) {
	if path == "" {
		return DefaultLexicon(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	var file lexiconFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}
	return NewLexicon(file.Categories, file.Critical)
}

// Categories returns the category names in priority order, followed by Other.
func (l *Lexicon) Categories() []string {
	names := make([]string, 0, len(l.categories)+1)
	for _, c := range l.categories {
		names = append(names, c.Name)
	}
	return append(names, CategoryOther)
}

func (l *Lexicon) Categorize(feedback string) string {
	lower := strings.ToLower(feedback)
	for _, c := range l.categories {
		for _, kw := range c.Keywords {
			if strings.Contains(lower, kw) {
				return c.Name
			}
		}
	}
	return CategoryOther
}

// FlagCritical returns every critical keyword found in the feedback, in
// lexicon order. A nil result means no critical issues.
func (l *Lexicon) FlagCritical(feedback string) []string {
	lower := strings.ToLower(feedback)
	var flagged []string
	for _, kw := range l.critical {
		if strings.Contains(lower, kw) {
			flagged = append(flagged, kw)
		}
	}
	return flagged
}

func isKnownCategory(name string) bool {
	switch name {
	case CategoryContentQuality, CategoryHighLatency, CategoryApplicationErrors:
		return true
	}
	return false
}

func normalize(words []string) []string {
	out := make([]string, 0, len(words))
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
