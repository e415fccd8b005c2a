// internal/workers/ai-insights/refine-search-queries/handler.go
package refinesearchqueries

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"intent-insights/internal/common/camunda"
	"intent-insights/internal/common/errors"
	"intent-insights/internal/common/logger"
	"intent-insights/internal/common/observability"
	"intent-insights/internal/genai"
	"intent-insights/internal/insights"
	"intent-insights/internal/models"
)

const TaskType = "refine-search-queries"

type Handler struct {
	config  *Config
	refiner insights.QueryRefiner
	runner  *camunda.JobRunner
	logger  logger.Logger
}

func NewHandler(config *Config, refiner insights.QueryRefiner, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:  config,
		refiner: refiner,
		runner:  camunda.NewJobRunner(TaskType, config.Timeout, obs, log),
		logger:  log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	var input Input
	h.runner.Run(client, job, &input, func(ctx context.Context) (interface{}, error) {
		return h.Execute(ctx, &input)
	})
}

// Execute validates the form and asks the refiner for search queries. An
// empty query list is a business error rather than an empty result.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	form := models.IntentForm{Product: input.Product, Category: input.Category}
	if msg, ok := insights.ValidateForm(form); !ok {
		return nil, errors.NewValidationFailedError(msg)
	}
	req := form.Request()

	result, err := h.refiner.RefineQueries(ctx, insights.RefineInput{
		ProductDescription: req.Product,
		Category:           req.Category,
	})
	if err != nil {
		return nil, insights.GenerationError(genai.PromptRefineQueries, err)
	}

	if result == nil || len(result.RefinedQueries) == 0 {
		return nil, errors.NewEmptyRefinedQueriesError(req.Product, req.Category)
	}

	h.logger.Info("queries refined", map[string]interface{}{
		"product":    req.Product,
		"queryCount": len(result.RefinedQueries),
	})

	return &Output{
		RefinedQueries: result.RefinedQueries,
		QueryCount:     len(result.RefinedQueries),
	}, nil
}
