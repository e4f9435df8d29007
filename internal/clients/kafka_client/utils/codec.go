package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spacesedan/feedbackflow/internal/models"
)

// EncodeJSON marshals a message value.
func EncodeJSON(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("[KafkaUtils] failed to encode %T: %w", value, err)
	}
	return data, nil
}

// DecodeSubmission returns the feedback carried by a submission message. A
// value that is not a {"feedback": ...} object is taken as the text itself.
func DecodeSubmission(value []byte) string {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return string(value)
	}

	var sub models.FeedbackSubmission
	if err := json.Unmarshal(trimmed, &sub); err != nil {
		slog.Debug("[KafkaUtils] Submission is not JSON, using raw value",
			slog.String("error", err.Error()))
		return string(value)
	}
	return sub.Feedback
}

func LogConsumerError(component string, err error) {
	if err == nil {
		return
	}
	slog.Error("["+component+"] Kafka consumer error",
		slog.String("error", err.Error()))
}
