package models

import (
	"strings"
	"time"
)

type SentimentCategory string

const (
	SentimentPositive SentimentCategory = "Positive"
	SentimentNeutral  SentimentCategory = "Neutral"
	SentimentNegative SentimentCategory = "Negative"
)

type SentimentOutcome struct {
	Category    SentimentCategory `json:"category"`
	Description string            `json:"description"`
	Label       string            `json:"label"`
	Score       float64           `json:"score"`
}

// NoFlaggedKeywords is what gets stored when nothing critical was found.
const NoFlaggedKeywords = "None"

type FeedbackRecord struct {
	ID              string    `json:"id" dynamodbav:"id"`
	Feedback        string    `json:"feedback" dynamodbav:"feedback"`
	Sentiment       string    `json:"sentiment" dynamodbav:"sentiment"`
	Summary         string    `json:"summary" dynamodbav:"summary"`
	Category        string    `json:"category" dynamodbav:"category"`
	FlaggedKeywords []string  `json:"flagged_keywords" dynamodbav:"flagged_keywords,omitempty"`
	BaselineScore   float64   `json:"baseline_score" dynamodbav:"baseline_score"`
	CreatedAt       time.Time `json:"created_at" dynamodbav:"created_at"`
}

// FlaggedKeywordsField renders the flags the way the tabular store expects them.
func (r FeedbackRecord) FlaggedKeywordsField() string {
	if len(r.FlaggedKeywords) == 0 {
		return NoFlaggedKeywords
	}
	return strings.Join(r.FlaggedKeywords, ", ")
}

// FeedbackSubmission is the intake shape shared by the HTTP API and the Kafka consumer.
type FeedbackSubmission struct {
	Feedback string `json:"feedback"`
}
