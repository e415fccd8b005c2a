package insights

import (
	"context"
	"fmt"

	"intent-insights/internal/genai"
	"intent-insights/internal/models"
)

type SummarizeInput struct {
	ScrapedContent string `json:"scrapedContent"`
	Product        string `json:"product"`
	Category       string `json:"category"`
}

// IntentSummarizer extracts a purchase-intent report from aggregated content.
type IntentSummarizer interface {
	SummarizeIntent(ctx context.Context, input SummarizeInput) (*models.IntentReport, error)
}

type GenAIIntentSummarizer struct {
	generator genai.Generator
	catalog   *genai.Catalog
}

func NewIntentSummarizer(generator genai.Generator, catalog *genai.Catalog) *GenAIIntentSummarizer {
	return &GenAIIntentSummarizer{generator: generator, catalog: catalog}
}

// SummarizeIntent returns a report whose list fields are never nil.
func (s *GenAIIntentSummarizer) SummarizeIntent(ctx context.Context, input SummarizeInput) (*models.IntentReport, error) {
	req, err := s.catalog.Render(genai.PromptSummarizeIntent, input)
	if err != nil {
		return nil, err
	}

	var report models.IntentReport
	if err := s.generator.Generate(ctx, req, &report); err != nil {
		return nil, fmt.Errorf("summarize intent: %w", err)
	}
	report.Normalize()
	return &report, nil
}
