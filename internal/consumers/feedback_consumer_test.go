package consumers

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/feedbackflow/internal/models"
	"github.com/spacesedan/feedbackflow/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu        sync.Mutex
	queue     []*kafka.Message
	committed []*kafka.Message
	onDrain   func()
}

func (f *fakeSource) ReadMessage(time.Duration) (*kafka.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queue) == 0 {
		if f.onDrain != nil {
			f.onDrain()
		}
		return nil, kafka.NewError(kafka.ErrTimedOut, "timed out", false)
	}
	msg := f.queue[0]
	f.queue = f.queue[1:]
	return msg, nil
}

func (f *fakeSource) CommitMessage(m *kafka.Message) ([]kafka.TopicPartition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.committed = append(f.committed, m)
	return []kafka.TopicPartition{m.TopicPartition}, nil
}

type fakeAnalyzer struct {
	mu     sync.Mutex
	inputs []string
	fail   string
}

func (f *fakeAnalyzer) Run(_ context.Context, feedback string) (pipeline.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, feedback)
	if feedback == f.fail {
		return pipeline.Result{}, &models.InferenceError{Status: 500, Body: "boom"}
	}
	return pipeline.Result{Record: models.FeedbackRecord{ID: "id", Feedback: feedback}}, nil
}

func message(value string, offset int64) *kafka.Message {
	topic := "feedback-submissions"
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: 0, Offset: kafka.Offset(offset)},
		Value:          []byte(value),
	}
}

func TestFeedbackConsumer_ProcessesAndCommitsEveryMessage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := &fakeSource{
		queue: []*kafka.Message{
			message(`{"feedback":"The app is slow"}`, 1),
			message("raw text about a crash", 2),
			message("explode", 3),
			message("   ", 4),
			message(strings.Repeat("a", models.MaxFeedbackLength+1), 5),
		},
		onDrain: cancel,
	}
	analyzer := &fakeAnalyzer{fail: "explode"}

	done := make(chan struct{})
	go func() {
		NewFeedbackConsumer(analyzer, source).Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}

	assert.Equal(t, []string{"The app is slow", "raw text about a crash", "explode"}, analyzer.inputs)
	require.Len(t, source.committed, 5)
	assert.Equal(t, kafka.Offset(5), source.committed[4].TopicPartition.Offset)
}

func TestFeedbackConsumer_PausesWhileUnhealthy(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	source := &fakeSource{queue: []*kafka.Message{message("hello", 1)}}
	analyzer := &fakeAnalyzer{}
	healthy := &atomic.Bool{}

	NewFeedbackConsumer(analyzer, source).WithHealthCheck(healthy).Start(ctx)

	assert.Empty(t, analyzer.inputs)
	assert.Empty(t, source.committed)
	assert.True(t, errors.Is(ctx.Err(), context.DeadlineExceeded))
}
