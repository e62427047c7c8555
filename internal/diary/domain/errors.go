package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEntryNotFound    = errors.New("diary entry not found")
	ErrInvalidInput     = errors.New("title and content are required")
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Pipeline stages used to tag upstream failures.
const (
	StageTranslation     = "translation"
	StageImageGeneration = "image generation"
	StageUpload          = "upload"
	StageValidation      = "validation"
	StagePersistence     = "persistence"
)

// StageError marks a pipeline failure with the stage that caused it.
// Every stage failure is terminal for the request: nothing is retried
// and nothing is persisted.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError wraps err with the stage it occurred in.
func NewStageError(stage string, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}
