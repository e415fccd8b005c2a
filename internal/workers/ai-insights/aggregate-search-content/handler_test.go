// internal/workers/ai-insights/aggregate-search-content/handler_test.go
package aggregatesearchcontent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "intent-insights/internal/common/errors"
	"intent-insights/internal/common/logger"
)

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(&Config{Timeout: time.Second}, nil, logger.NewTestLogger(t))
}

func TestHandler_Execute_JoinsWithNewlines(t *testing.T) {
	out, err := createTestHandler(t).Execute(context.Background(), &Input{
		RefinedQueries: []string{"best ergonomic chair 2024", "office chair lumbar support reviews"},
	})

	require.NoError(t, err)
	assert.Equal(t, "best ergonomic chair 2024\noffice chair lumbar support reviews", out.ScrapedContent)
}

func TestHandler_Execute_SingleQuery(t *testing.T) {
	out, err := createTestHandler(t).Execute(context.Background(), &Input{RefinedQueries: []string{"only one"}})

	require.NoError(t, err)
	assert.Equal(t, "only one", out.ScrapedContent)
}

func TestHandler_Execute_NoQueries(t *testing.T) {
	_, err := createTestHandler(t).Execute(context.Background(), &Input{})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeEmptyRefinedQueries, apperrors.Normalize(err).Code)
}
