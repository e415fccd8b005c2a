// internal/workers/ai-insights/summarize-intent/handler_test.go
package summarizeintent

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "intent-insights/internal/common/errors"
	"intent-insights/internal/common/logger"
	"intent-insights/internal/genai"
	"intent-insights/internal/insights"
	"intent-insights/internal/models"
)

// ==========================
// Mocks
// ==========================

type MockSummarizer struct {
	mock.Mock
}

func (m *MockSummarizer) SummarizeIntent(ctx context.Context, input insights.SummarizeInput) (*models.IntentReport, error) {
	args := m.Called(ctx, input)
	out, _ := args.Get(0).(*models.IntentReport)
	return out, args.Error(1)
}

// ==========================
// Test Helper Functions
// ==========================

func createTestHandler(t *testing.T, s insights.IntentSummarizer) *Handler {
	return NewHandler(&Config{Timeout: 5 * time.Second}, s, nil, logger.NewTestLogger(t))
}

func createInput() *Input {
	return &Input{
		ScrapedContent: "best ergonomic chair 2024\noffice chair lumbar support reviews",
		Product:        "Ergonomic office chair",
		Category:       "Furniture",
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	summarizer := new(MockSummarizer)
	summarizer.On("SummarizeIntent", mock.Anything, insights.SummarizeInput{
		ScrapedContent: "best ergonomic chair 2024\noffice chair lumbar support reviews",
		Product:        "Ergonomic office chair",
		Category:       "Furniture",
	}).Return(&models.IntentReport{
		Summary:     "Buyers compare lumbar support.",
		ProductName: "Ergonomic office chair",
		Reasons:     []string{"back pain"},
		IntentType:  "Commercial Investigation",
		Keywords:    []string{"lumbar support"},
	}, nil)

	out, err := createTestHandler(t, summarizer).Execute(context.Background(), createInput())

	require.NoError(t, err)
	assert.Equal(t, "Commercial Investigation", out.IntentReport.IntentType)
	assert.NotNil(t, out.IntentReport.Contacts)
	assert.Empty(t, out.IntentReport.Contacts)
	summarizer.AssertExpectations(t)
}

func TestHandler_Execute_MissingContent(t *testing.T) {
	summarizer := new(MockSummarizer)
	input := createInput()
	input.ScrapedContent = ""

	_, err := createTestHandler(t, summarizer).Execute(context.Background(), input)

	require.Error(t, err)
	stdErr := apperrors.Normalize(err)
	assert.Equal(t, apperrors.ErrCodeValidationFailed, stdErr.Code)
	assert.Contains(t, stdErr.Details, "ScrapedContent is required.")
	summarizer.AssertNotCalled(t, "SummarizeIntent", mock.Anything, mock.Anything)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_InvalidModelOutput(t *testing.T) {
	summarizer := new(MockSummarizer)
	summarizer.On("SummarizeIntent", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("summarize intent: %w: missing summary", genai.ErrInvalidOutput))

	_, err := createTestHandler(t, summarizer).Execute(context.Background(), createInput())

	require.Error(t, err)
	stdErr := apperrors.Normalize(err)
	assert.Equal(t, apperrors.ErrCodeInvalidModelOutput, stdErr.Code)
	assert.Contains(t, stdErr.Details, genai.PromptSummarizeIntent)
}

func TestHandler_Execute_NilReportFails(t *testing.T) {
	summarizer := new(MockSummarizer)
	summarizer.On("SummarizeIntent", mock.Anything, mock.Anything).Return(nil, nil)

	out, err := createTestHandler(t, summarizer).Execute(context.Background(), createInput())

	require.Error(t, err)
	assert.Nil(t, out)
	stdErr := apperrors.Normalize(err)
	assert.Equal(t, apperrors.ErrCodeInvalidModelOutput, stdErr.Code)
	assert.Contains(t, stdErr.Details, genai.PromptSummarizeIntent)
}
