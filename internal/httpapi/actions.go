package httpapi

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"intent-insights/internal/models"
	"intent-insights/internal/store"
)

const maxBodyBytes = 1 << 20

type intentPayload struct {
	Product  *string `json:"product"`
	Category *string `json:"category"`
}

// handleInsightsAPI accepts a JSON or form-encoded {product, category}.
func (s *Server) handleInsightsAPI(w http.ResponseWriter, r *http.Request) {
	form, err := decodeIntentForm(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	writeJSON(w, http.StatusOK, s.service.GetIntentInsights(r.Context(), form))
}

func (s *Server) handleSaveAPI(w http.ResponseWriter, r *http.Request) {
	var report models.IntentReport
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "invalid request body",
		})
		return
	}

	writeJSON(w, http.StatusOK, s.service.SaveInsight(r.Context(), report))
}

func (s *Server) handleGetInsightAPI(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	doc, err := s.service.GetInsight(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "insight not found"})
		return
	}
	if err != nil {
		s.logger.Error("failed to load insight", map[string]interface{}{
			"id":    id,
			"error": err,
		})
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load insight"})
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

func decodeIntentForm(w http.ResponseWriter, r *http.Request) (models.IntentForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var p intentPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			return models.IntentForm{}, err
		}
		return models.IntentForm{Product: p.Product, Category: p.Category}, nil
	}

	if err := r.ParseForm(); err != nil {
		return models.IntentForm{}, err
	}
	return formFromValues(r.PostForm), nil
}

// formFromValues keeps an absent field nil so it reports as required.
func formFromValues(values url.Values) models.IntentForm {
	var form models.IntentForm
	if v, ok := values["product"]; ok && len(v) > 0 {
		form.Product = &v[0]
	}
	if v, ok := values["category"]; ok && len(v) > 0 {
		form.Category = &v[0]
	}
	return form
}
