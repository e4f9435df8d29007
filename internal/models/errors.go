package models

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyFeedback   = errors.New("please enter feedback to analyze")
	ErrFeedbackTooLong = errors.New("feedback exceeds the maximum length")
)

// MaxFeedbackLength is the intake bound, counted in characters.
const MaxFeedbackLength = 1000

// InferenceError is returned when the inference endpoint answers with anything but 200.
type InferenceError struct {
	Status int
	Body   string
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("API request failed: status %d: %s", e.Status, e.Body)
}

// MalformedResponseError is returned when a 200 response does not have the expected shape.
type MalformedResponseError struct {
	Operation string
	Reason    string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("unexpected response structure for %s: %s", e.Operation, e.Reason)
}

// PersistenceError never aborts a pipeline run; it is logged and reported alongside the result.
type PersistenceError struct {
	Backend string
	Status  int
	Body    string
	Err     error
}

func (e *PersistenceError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("failed to save feedback to %s: %v", e.Backend, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("failed to save feedback to %s: status %d: %s", e.Backend, e.Status, e.Body)
	default:
		return fmt.Sprintf("failed to save feedback to %s", e.Backend)
	}
}

func (e *PersistenceError) Unwrap() error { return e.Err }

type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing configuration: %s is not set", e.Key)
}
