package usecase

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the loan usecases. Handlers map these to
// HTTP semantics; everything else surfaces as an internal error.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrScoreNotFound     = errors.New("credit score not found")
	ErrModelsNotLoaded   = errors.New("prediction models not loaded")
	ErrStageFailure      = errors.New("prediction failed")
	ErrBatchTooLarge     = errors.New("too many profiles in batch")
	ErrEmptyBatch        = errors.New("batch contains no profiles")
	ErrRetrainInProgress = errors.New("retraining already in progress")
	ErrRetrainFailed     = errors.New("retraining failed")
	ErrInternal          = errors.New("internal error")
)

// invalidInput keeps the field-level detail in the message while letting
// callers match on the sentinel.
func invalidInput(err error) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
}
