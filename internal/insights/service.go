// Package insights runs the intent pipeline (refine, aggregate, summarize)
// and persists reports. Both actions return result values and never a Go
// error: failures become the Error field.
package insights

import (
	"context"
	"strings"
	"time"

	apperrors "intent-insights/internal/common/errors"
	"intent-insights/internal/common/logger"
	"intent-insights/internal/common/metrics"
	"intent-insights/internal/common/observability"
	"intent-insights/internal/common/validation"
	"intent-insights/internal/models"
)

const (
	MsgInvalidInput       = "Invalid input."
	MsgNoRefinedQueries   = "Could not generate refined queries to analyze."
	MsgAnalysisFailed     = "Analysis failed: "
	MsgUnexpectedError    = "An unexpected error occurred."
	MsgUnknownSaveFailure = "An unknown error occurred"
)

// publishTimeout bounds the insight.saved publish that follows a save.
const publishTimeout = 5 * time.Second

// DocumentStore is the part of the document store the service needs.
type DocumentStore interface {
	Add(ctx context.Context, collection string, doc interface{}) (string, error)
	Get(ctx context.Context, collection, id string, out interface{}) error
}

// EventPublisher announces successful saves.
type EventPublisher interface {
	PublishInsightSaved(ctx context.Context, event models.InsightSavedEvent) error
}

type Service struct {
	refiner    QueryRefiner
	summarizer IntentSummarizer
	store      DocumentStore
	publisher  EventPublisher
	collection string
	obs        *observability.Observability
	logger     logger.Logger
	now        func() time.Time
}

type Options struct {
	Refiner    QueryRefiner
	Summarizer IntentSummarizer
	Store      DocumentStore
	Publisher  EventPublisher // optional
	Collection string
	Obs        *observability.Observability // optional
	Logger     logger.Logger
}

func NewService(opts Options) *Service {
	collection := opts.Collection
	if collection == "" {
		collection = "insights"
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Service{
		refiner:    opts.Refiner,
		summarizer: opts.Summarizer,
		store:      opts.Store,
		publisher:  opts.Publisher,
		collection: collection,
		obs:        opts.Obs,
		logger:     log.With(map[string]interface{}{"component": "insights"}),
		now:        time.Now,
	}
}

// ValidateForm checks both fields and returns the joined messages, or ""
// when the form is valid.
func ValidateForm(form models.IntentForm) (string, bool) {
	result := validation.ValidateStruct(form)
	if result.Valid {
		return "", true
	}
	msg := strings.Join(result.Messages(), " ")
	if msg == "" {
		msg = MsgInvalidInput
	}
	return msg, false
}

// GetIntentInsights validates the form, refines queries, aggregates them and
// summarizes the intent. Exactly one of Data and Error is set.
func (s *Service) GetIntentInsights(ctx context.Context, form models.IntentForm) models.InsightResult {
	start := time.Now()

	if msg, ok := ValidateForm(form); !ok {
		s.finish(ctx, "get_intent_insights", "invalid", start)
		return models.InsightResult{Error: msg}
	}
	req := form.Request()

	stageStart := time.Now()
	refined, err := s.refiner.RefineQueries(ctx, RefineInput{
		ProductDescription: req.Product,
		Category:           req.Category,
	})
	metrics.InsightStageDuration.WithLabelValues("refine").Observe(time.Since(stageStart).Seconds())
	if err != nil {
		return s.analysisFailed(ctx, "refine", err, start)
	}

	if refined == nil || len(refined.RefinedQueries) == 0 {
		s.logger.Warn("refiner returned no queries", map[string]interface{}{
			"product":  req.Product,
			"category": req.Category,
		})
		s.finish(ctx, "get_intent_insights", "empty_queries", start)
		return models.InsightResult{Error: MsgNoRefinedQueries}
	}

	scraped := Aggregate(refined.RefinedQueries)

	stageStart = time.Now()
	report, err := s.summarizer.SummarizeIntent(ctx, SummarizeInput{
		ScrapedContent: scraped,
		Product:        req.Product,
		Category:       req.Category,
	})
	metrics.InsightStageDuration.WithLabelValues("summarize").Observe(time.Since(stageStart).Seconds())
	if err != nil {
		return s.analysisFailed(ctx, "summarize", err, start)
	}
	if report == nil {
		s.logger.Error("summarizer returned no report", map[string]interface{}{
			"product":  req.Product,
			"category": req.Category,
		})
		s.finish(ctx, "get_intent_insights", "failed", start)
		return models.InsightResult{Error: MsgAnalysisFailed + MsgUnexpectedError}
	}
	report.Normalize()

	s.logger.Info("intent insights generated", map[string]interface{}{
		"product":      req.Product,
		"queryCount":   len(refined.RefinedQueries),
		"intentType":   report.IntentType,
		"contactCount": len(report.Contacts),
	})
	s.finish(ctx, "get_intent_insights", "success", start)
	return models.InsightResult{Data: report}
}

func (s *Service) analysisFailed(ctx context.Context, stage string, err error, start time.Time) models.InsightResult {
	s.logger.Error("intent analysis failed", map[string]interface{}{
		"stage": stage,
		"error": err,
	})
	s.finish(ctx, "get_intent_insights", "failed", start)

	msg := err.Error()
	if msg == "" {
		msg = MsgUnexpectedError
	}
	return models.InsightResult{Error: MsgAnalysisFailed + msg}
}

// SaveInsight writes the report with a server timestamp as a new document.
// Repeated calls with the same report create distinct documents.
func (s *Service) SaveInsight(ctx context.Context, report models.IntentReport) models.SaveResult {
	start := time.Now()
	report.Normalize()

	doc := models.StoredInsight{
		IntentReport: report,
		CreatedAt:    s.now().UTC(),
	}

	id, err := s.store.Add(ctx, s.collection, doc)
	if err != nil {
		s.logger.Error("failed to save insight", map[string]interface{}{
			"collection": s.collection,
			"error":      err,
		})
		metrics.InsightSaves.WithLabelValues("failed").Inc()
		s.finish(ctx, "save_insight", "failed", start)

		msg := err.Error()
		if msg == "" {
			msg = MsgUnknownSaveFailure
		}
		return models.SaveResult{Success: false, Error: msg}
	}

	doc.ID = id
	metrics.InsightSaves.WithLabelValues("success").Inc()
	s.finish(ctx, "save_insight", "success", start)
	s.logger.Info("insight saved", map[string]interface{}{
		"collection": s.collection,
		"id":         id,
	})

	if s.publisher != nil {
		event := models.InsightSavedEvent{
			EventType:  models.EventInsightSaved,
			Collection: s.collection,
			Insight:    doc,
		}
		pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		err := s.publisher.PublishInsightSaved(pubCtx, event)
		cancel()
		if err != nil {
			stdErr := apperrors.Normalize(err)
			s.logger.Warn("failed to publish insight.saved event", map[string]interface{}{
				"id":      id,
				"code":    stdErr.Code,
				"details": stdErr.Details,
			})
		}
	}

	return models.SaveResult{Success: true, ID: id}
}

// GetInsight loads a previously saved report. A missing id surfaces the
// store's ErrNotFound.
func (s *Service) GetInsight(ctx context.Context, id string) (*models.StoredInsight, error) {
	var doc models.StoredInsight
	if err := s.store.Get(ctx, s.collection, id, &doc); err != nil {
		return nil, err
	}
	doc.ID = id
	doc.IntentReport.Normalize()
	return &doc, nil
}

func (s *Service) finish(ctx context.Context, action, outcome string, start time.Time) {
	if action == "get_intent_insights" {
		metrics.InsightRequests.WithLabelValues(outcome).Inc()
	}
	s.obs.RecordAction(ctx, action, outcome, time.Since(start))
}
