// internal/workers/ai-insights/save-insight/handler.go
package saveinsight

import (
	"context"
	stderrors "errors"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"intent-insights/internal/common/camunda"
	"intent-insights/internal/common/errors"
	"intent-insights/internal/common/logger"
	"intent-insights/internal/common/observability"
	"intent-insights/internal/models"
)

const TaskType = "save-insight"

var ErrMissingReport = stderrors.New("intentReport is required")

// InsightSaver persists a report and reports the outcome as a value.
type InsightSaver interface {
	SaveInsight(ctx context.Context, report models.IntentReport) models.SaveResult
}

type Handler struct {
	config *Config
	saver  InsightSaver
	runner *camunda.JobRunner
	logger logger.Logger
}

func NewHandler(config *Config, saver InsightSaver, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		saver:  saver,
		runner: camunda.NewJobRunner(TaskType, config.Timeout, obs, log),
		logger: log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	var input Input
	h.runner.Run(client, job, &input, func(ctx context.Context) (interface{}, error) {
		return h.Execute(ctx, &input)
	})
}

// Execute writes the report as a new document. Every job creates a new
// document, so a retried job may store the same report twice.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.IntentReport == nil {
		return nil, errors.NewValidationFailedError(ErrMissingReport.Error())
	}

	result := h.saver.SaveInsight(ctx, *input.IntentReport)
	if !result.Success {
		return nil, errors.NewStoreWriteFailedError(h.config.Collection, stderrors.New(result.Error))
	}

	h.logger.Info("insight saved", map[string]interface{}{"insightId": result.ID})

	return &Output{InsightID: result.ID, Saved: true}, nil
}
