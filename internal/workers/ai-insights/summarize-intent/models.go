// internal/workers/ai-insights/summarize-intent/models.go
package summarizeintent

import "intent-insights/internal/models"

type Input struct {
	ScrapedContent string `json:"scrapedContent" validate:"required"`
	Product        string `json:"product" validate:"required"`
	Category       string `json:"category" validate:"required"`
}

type Output struct {
	IntentReport models.IntentReport `json:"intentReport"`
}
