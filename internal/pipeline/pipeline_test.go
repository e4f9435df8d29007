package pipeline

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spacesedan/feedbackflow/config"
	"github.com/spacesedan/feedbackflow/internal/clients"
	"github.com/spacesedan/feedbackflow/internal/models"
	"github.com/spacesedan/feedbackflow/internal/sentiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClassifier struct {
	outcome models.SentimentOutcome
	err     error
	calls   int
}

func (f *fakeClassifier) Classify(context.Context, string) (models.SentimentOutcome, error) {
	f.calls++
	return f.outcome, f.err
}

type fakeSummarizer struct {
	text  string
	err   error
	calls int
}

func (f *fakeSummarizer) Summarize(context.Context, string) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeGateway struct {
	records []models.FeedbackRecord
	err     error
}

func (f *fakeGateway) Name() string { return "fake" }

func (f *fakeGateway) Save(_ context.Context, record models.FeedbackRecord) error {
	f.records = append(f.records, record)
	return f.err
}

func negative() models.SentimentOutcome {
	return models.SentimentOutcome{
		Category:    models.SentimentNegative,
		Description: "Negative 😞",
		Label:       "1 star",
		Score:       0.71,
	}
}

func TestRun_EndToEnd(t *testing.T) {
	classifier := &fakeClassifier{outcome: negative()}
	summarizer := &fakeSummarizer{text: "App crashes and has a security hole."}
	gateway := &fakeGateway{}

	p := New(classifier, summarizer, nil, gateway)
	res, err := p.Run(context.Background(), "The app keeps crashing and it's a huge security vulnerability")
	require.NoError(t, err)

	assert.True(t, res.Saved)
	assert.NoError(t, res.SaveErr)
	assert.Equal(t, models.SentimentNegative, res.Sentiment.Category)

	rec := res.Record
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "Negative 😞", rec.Sentiment)
	assert.Equal(t, "App crashes and has a security hole.", rec.Summary)
	assert.Equal(t, "Application Errors", rec.Category)
	assert.Subset(t, rec.FlaggedKeywords, []string{"crash", "security", "vulnerability"})
	assert.False(t, rec.CreatedAt.IsZero())

	require.Len(t, gateway.records, 1)
	assert.Equal(t, rec, gateway.records[0])
}

func TestRun_EmptyFeedbackMakesNoCalls(t *testing.T) {
	classifier := &fakeClassifier{outcome: negative()}
	summarizer := &fakeSummarizer{}
	gateway := &fakeGateway{}

	for _, input := range []string{"", "   \n\t"} {
		_, err := New(classifier, summarizer, nil, gateway).Run(context.Background(), input)
		assert.ErrorIs(t, err, models.ErrEmptyFeedback)
	}
	assert.Zero(t, classifier.calls)
	assert.Zero(t, summarizer.calls)
	assert.Empty(t, gateway.records)
}

func TestRun_SentimentFailureAborts(t *testing.T) {
	classifier := &fakeClassifier{err: &models.InferenceError{Status: 503, Body: "loading"}}
	summarizer := &fakeSummarizer{}
	gateway := &fakeGateway{}

	_, err := New(classifier, summarizer, nil, gateway).Run(context.Background(), "slow app")

	var infErr *models.InferenceError
	require.ErrorAs(t, err, &infErr)
	assert.Equal(t, 503, infErr.Status)
	assert.Zero(t, summarizer.calls)
	assert.Empty(t, gateway.records)
}

func TestRun_SummaryFailureAborts(t *testing.T) {
	summarizer := &fakeSummarizer{err: &models.MalformedResponseError{Operation: "summarization", Reason: "missing summary_text"}}
	gateway := &fakeGateway{}

	_, err := New(&fakeClassifier{outcome: negative()}, summarizer, nil, gateway).Run(context.Background(), "slow app")

	var malformed *models.MalformedResponseError
	assert.ErrorAs(t, err, &malformed)
	assert.Empty(t, gateway.records)
}

func TestRun_PersistenceFailureIsNotFatal(t *testing.T) {
	gateway := &fakeGateway{err: errors.New("connection refused")}

	res, err := New(&fakeClassifier{outcome: negative()}, &fakeSummarizer{text: "ok"}, nil, gateway).
		Run(context.Background(), "The content is useful")
	require.NoError(t, err)

	assert.False(t, res.Saved)
	var perr *models.PersistenceError
	require.ErrorAs(t, res.SaveErr, &perr)
	assert.Equal(t, "fake", perr.Backend)
	assert.Equal(t, "Content Quality", res.Record.Category)
	assert.Nil(t, res.Record.FlaggedKeywords)
}

func TestRun_NilGatewaySkipsPersistence(t *testing.T) {
	res, err := New(&fakeClassifier{outcome: negative()}, &fakeSummarizer{text: "ok"}, nil, nil).
		Run(context.Background(), "hello there")
	require.NoError(t, err)
	assert.False(t, res.Saved)
	assert.NoError(t, res.SaveErr)
	assert.Equal(t, "Other", res.Record.Category)
}

func TestRun_InferenceRejectionStopsBeforeSummaryAndSave(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":"Model is currently loading"}`)
	}))
	defer srv.Close()

	hf := clients.NewHuggingFaceClient(config.HuggingFaceConfig{
		APIKey:  "hf-test",
		BaseURL: srv.URL + "/models/",
		Timeout: 5 * time.Second,
	})
	summarizer := &fakeSummarizer{text: "unused"}
	gateway := &fakeGateway{}

	p := New(sentiment.NewClassifier(hf, config.DEFAULT_SENTIMENT_MODEL), summarizer, nil, gateway)
	_, err := p.Run(context.Background(), "The app keeps crashing")

	var infErr *models.InferenceError
	require.ErrorAs(t, err, &infErr)
	assert.Equal(t, http.StatusServiceUnavailable, infErr.Status)
	assert.Contains(t, infErr.Body, "Model is currently loading")
	assert.Zero(t, summarizer.calls)
	assert.Empty(t, gateway.records)
}
