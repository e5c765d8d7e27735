package quiz

import "errors"

var (
	// ErrBatchExhausted is the cursor's terminal signal, not a failure.
	ErrBatchExhausted = errors.New("batch exhausted")

	ErrGeneration      = errors.New("generation failed")
	ErrSuperseded      = errors.New("generation superseded")
	ErrInvalidState    = errors.New("operation not valid in current state")
	ErrInvalidTier     = errors.New("invalid tier")
	ErrInvalidCount    = errors.New("invalid question count")
	ErrUnknownQuestion = errors.New("question not in current batch")
)
