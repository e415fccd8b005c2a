// internal/workers/ai-insights/save-insight/handler_test.go
package saveinsight

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"intent-insights/internal/common/config"
	"intent-insights/internal/common/database"
	apperrors "intent-insights/internal/common/errors"
	"intent-insights/internal/common/logger"
	"intent-insights/internal/insights"
	"intent-insights/internal/models"
	"intent-insights/internal/store"
)

// ==========================
// Mocks
// ==========================

type MockSaver struct {
	mock.Mock
}

func (m *MockSaver) SaveInsight(ctx context.Context, report models.IntentReport) models.SaveResult {
	return m.Called(ctx, report).Get(0).(models.SaveResult)
}

// ==========================
// Test Helper Functions
// ==========================

func createTestHandler(t *testing.T, saver InsightSaver) *Handler {
	return NewHandler(&Config{Timeout: 5 * time.Second, Collection: "insights"}, saver, nil, logger.NewTestLogger(t))
}

func createReport() *models.IntentReport {
	return &models.IntentReport{
		Summary:     "Buyers compare lumbar support.",
		ProductName: "Ergonomic office chair",
		Reasons:     []string{"back pain"},
		IntentType:  "Commercial Investigation",
		Keywords:    []string{"lumbar support"},
		Contacts:    []models.Contact{},
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	saver := new(MockSaver)
	saver.On("SaveInsight", mock.Anything, *createReport()).Return(models.SaveResult{Success: true, ID: "abc"})

	out, err := createTestHandler(t, saver).Execute(context.Background(), &Input{IntentReport: createReport()})

	require.NoError(t, err)
	assert.True(t, out.Saved)
	assert.Equal(t, "abc", out.InsightID)
	saver.AssertExpectations(t)
}

func TestHandler_Execute_WithRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc := insights.NewService(insights.Options{
		Store:      store.NewRedisStore(client),
		Collection: "insights",
		Logger:     logger.NewTestLogger(t),
	})
	h := createTestHandler(t, svc)

	first, err := h.Execute(context.Background(), &Input{IntentReport: createReport()})
	require.NoError(t, err)
	second, err := h.Execute(context.Background(), &Input{IntentReport: createReport()})
	require.NoError(t, err)

	assert.NotEqual(t, first.InsightID, second.InsightID)
	assert.True(t, mr.Exists("insights:"+first.InsightID))
	assert.True(t, mr.Exists("insights:"+second.InsightID))
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_MissingReport(t *testing.T) {
	saver := new(MockSaver)

	_, err := createTestHandler(t, saver).Execute(context.Background(), &Input{})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeValidationFailed, apperrors.Normalize(err).Code)
	saver.AssertNotCalled(t, "SaveInsight", mock.Anything, mock.Anything)
}

func TestHandler_Execute_StoreFailure(t *testing.T) {
	saver := new(MockSaver)
	saver.On("SaveInsight", mock.Anything, mock.Anything).
		Return(models.SaveResult{Success: false, Error: "connection refused"})

	_, err := createTestHandler(t, saver).Execute(context.Background(), &Input{IntentReport: createReport()})

	require.Error(t, err)
	stdErr := apperrors.Normalize(err)
	assert.Equal(t, apperrors.ErrCodeStoreWriteFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
	assert.Contains(t, stdErr.Details, "connection refused")
}
