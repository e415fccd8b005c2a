// internal/workers/ai-insights/save-insight/models.go
package saveinsight

import "intent-insights/internal/models"

type Input struct {
	IntentReport *models.IntentReport `json:"intentReport"`
}

type Output struct {
	InsightID string `json:"insightId"`
	Saved     bool   `json:"saved"`
}
