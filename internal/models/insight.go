// internal/models/insight.go
package models

import "time"

// IntentForm carries the submitted form fields. A nil field was not
// submitted at all.
type IntentForm struct {
	Product  *string `json:"product" validate:"required,min=2"`
	Category *string `json:"category" validate:"required,min=2"`
}

// NewIntentForm builds a form where both fields are present.
func NewIntentForm(product, category string) IntentForm {
	return IntentForm{Product: &product, Category: &category}
}

// Request returns the validated request. Call only after validation passed.
func (f IntentForm) Request() IntentRequest {
	var r IntentRequest
	if f.Product != nil {
		r.Product = *f.Product
	}
	if f.Category != nil {
		r.Category = *f.Category
	}
	return r
}

type IntentRequest struct {
	Product  string `json:"product"`
	Category string `json:"category"`
}

type Contact struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
}

// IntentReport is the structured purchase-intent summary. IntentType is an
// open value; the prompt seeds examples but the model may return others.
type IntentReport struct {
	Summary     string    `json:"summary"`
	ProductName string    `json:"productName"`
	Reasons     []string  `json:"reasons"`
	IntentType  string    `json:"intentType"`
	Keywords    []string  `json:"keywords"`
	Contacts    []Contact `json:"contacts"`
}

// Normalize replaces nil lists with empty ones so they encode as [].
func (r *IntentReport) Normalize() {
	if r.Reasons == nil {
		r.Reasons = []string{}
	}
	if r.Keywords == nil {
		r.Keywords = []string{}
	}
	if r.Contacts == nil {
		r.Contacts = []Contact{}
	}
}

// StoredInsight is the document written by the persistence action.
type StoredInsight struct {
	ID string `json:"id,omitempty"`
	IntentReport
	CreatedAt time.Time `json:"createdAt"`
}

// InsightResult holds exactly one of Data or Error.
type InsightResult struct {
	Data  *IntentReport `json:"data,omitempty"`
	Error string        `json:"error,omitempty"`
}

type SaveResult struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// InsightSavedEvent is published after a stored insight is written.
type InsightSavedEvent struct {
	EventType  string        `json:"eventType"`
	Collection string        `json:"collection"`
	Insight    StoredInsight `json:"insight"`
}

const EventInsightSaved = "insight.saved"
