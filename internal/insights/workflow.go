package insights

import (
	"context"
	"errors"

	apperrors "intent-insights/internal/common/errors"
	"intent-insights/internal/genai"
)

// GenerationError maps a refiner or summarizer failure to a coded error for
// the workflow engine. Timeouts and malformed model output keep their own
// codes so the process can retry them separately.
func GenerationError(prompt string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, genai.ErrGenerationTimeout), errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewGenerationTimeoutError(prompt)
	case errors.Is(err, genai.ErrInvalidOutput):
		return apperrors.NewInvalidModelOutputError(prompt, err)
	default:
		return apperrors.NewGenerationFailedError(prompt, err)
	}
}
