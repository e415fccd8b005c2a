package httpapi

import (
	"encoding/json"
	"net/http"

	"intent-insights/internal/models"
)

type pageData struct {
	Product    string
	Category   string
	Error      string
	Report     *models.IntentReport
	ReportJSON string
	Save       *models.SaveResult
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, pageData{})
}

func (s *Server) handleAnalyzeForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	data := pageData{
		Product:  r.PostForm.Get("product"),
		Category: r.PostForm.Get("category"),
	}

	result := s.service.GetIntentInsights(r.Context(), formFromValues(r.PostForm))
	if result.Error != "" {
		data.Error = result.Error
	} else {
		data.setReport(result.Data)
	}

	s.render(w, http.StatusOK, data)
}

// handleSaveForm persists the report carried in the hidden field of the
// result page and shows the page again with the outcome.
func (s *Server) handleSaveForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	var report models.IntentReport
	if err := json.Unmarshal([]byte(r.PostForm.Get("report")), &report); err != nil {
		http.Error(w, "invalid report", http.StatusBadRequest)
		return
	}

	result := s.service.SaveInsight(r.Context(), report)

	data := pageData{
		Product:  r.PostForm.Get("product"),
		Category: r.PostForm.Get("category"),
		Save:     &result,
	}
	data.setReport(&report)

	s.render(w, http.StatusOK, data)
}

func (d *pageData) setReport(report *models.IntentReport) {
	if report == nil {
		return
	}
	d.Report = report
	if body, err := json.Marshal(report); err == nil {
		d.ReportJSON = string(body)
	}
}

func (s *Server) render(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.page.Execute(w, data); err != nil {
		s.logger.Error("failed to render page", map[string]interface{}{"error": err})
	}
}
