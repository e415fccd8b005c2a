// internal/workers/ai-insights/aggregate-search-content/handler.go
package aggregatesearchcontent

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"intent-insights/internal/common/camunda"
	"intent-insights/internal/common/errors"
	"intent-insights/internal/common/logger"
	"intent-insights/internal/common/observability"
	"intent-insights/internal/insights"
)

const TaskType = "aggregate-search-content"

type Handler struct {
	config *Config
	runner *camunda.JobRunner
	logger logger.Logger
}

func NewHandler(config *Config, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
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

// Execute joins the refined queries into the content block handed to the
// summarizer.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if len(input.RefinedQueries) == 0 {
		return nil, errors.NewEmptyRefinedQueriesError("", "")
	}

	content := insights.Aggregate(input.RefinedQueries)

	h.logger.Debug("content aggregated", map[string]interface{}{
		"queryCount": len(input.RefinedQueries),
		"length":     len(content),
	})

	return &Output{ScrapedContent: content}, nil
}
