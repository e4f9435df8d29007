package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/spacesedan/feedbackflow/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestValidateSubmission(t *testing.T) {
	assert.NoError(t, ValidateSubmission("fine"))
	assert.NoError(t, ValidateSubmission(strings.Repeat("é", models.MaxFeedbackLength)))
	assert.ErrorIs(t, ValidateSubmission(" "), models.ErrEmptyFeedback)
	assert.ErrorIs(t, ValidateSubmission(strings.Repeat("a", models.MaxFeedbackLength+1)), models.ErrFeedbackTooLong)
}

func TestFailureMessage(t *testing.T) {
	assert.Equal(t, "An error occurred: boom", FailureMessage(errors.New("boom")))
}
