// internal/workers/ai-insights/summarize-intent/handler.go
package summarizeintent

import (
	"context"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"intent-insights/internal/common/camunda"
	"intent-insights/internal/common/errors"
	"intent-insights/internal/common/logger"
	"intent-insights/internal/common/observability"
	"intent-insights/internal/common/validation"
	"intent-insights/internal/genai"
	"intent-insights/internal/insights"
)

const TaskType = "summarize-intent"

type Handler struct {
	config     *Config
	summarizer insights.IntentSummarizer
	runner     *camunda.JobRunner
	logger     logger.Logger
}

func NewHandler(config *Config, summarizer insights.IntentSummarizer, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		summarizer: summarizer,
		runner:     camunda.NewJobRunner(TaskType, config.Timeout, obs, log),
		logger:     log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	var input Input
	h.runner.Run(client, job, &input, func(ctx context.Context) (interface{}, error) {
		return h.Execute(ctx, &input)
	})
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if result := validation.ValidateStruct(input); !result.Valid {
		return nil, errors.NewValidationFailedError(strings.Join(result.Messages(), " "))
	}

	report, err := h.summarizer.SummarizeIntent(ctx, insights.SummarizeInput{
		ScrapedContent: input.ScrapedContent,
		Product:        input.Product,
		Category:       input.Category,
	})
	if err != nil {
		return nil, insights.GenerationError(genai.PromptSummarizeIntent, err)
	}
	if report == nil {
		return nil, insights.GenerationError(genai.PromptSummarizeIntent,
			fmt.Errorf("%w: summarizer returned no report", genai.ErrInvalidOutput))
	}
	report.Normalize()

	h.logger.Info("intent summarized", map[string]interface{}{
		"product":      input.Product,
		"intentType":   report.IntentType,
		"contactCount": len(report.Contacts),
	})

	return &Output{IntentReport: *report}, nil
}
