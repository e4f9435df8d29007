package pipeline

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spacesedan/feedbackflow/internal/models"
)

// ValidateSubmission applies the intake bounds shared by every surface.
func ValidateSubmission(feedback string) error {
	if strings.TrimSpace(feedback) == "" {
		return models.ErrEmptyFeedback
	}
	if n := utf8.RuneCountInString(feedback); n > models.MaxFeedbackLength {
		return fmt.Errorf("%w: %d characters, limit is %d", models.ErrFeedbackTooLong, n, models.MaxFeedbackLength)
	}
	return nil
}

// FailureMessage is the user-facing rendering of an aborted run.
func FailureMessage(err error) string {
	return "An error occurred: " + err.Error()
}
