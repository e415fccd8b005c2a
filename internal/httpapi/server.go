// Package httpapi serves the insight form page, the JSON action endpoints
// and the health, readiness and metrics endpoints.
package httpapi

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"intent-insights/internal/common/database"
	"intent-insights/internal/common/logger"
	"intent-insights/internal/models"
)

//go:embed templates/page.html
var templateFS embed.FS

// InsightService runs the two user actions, which report failure inside the
// returned value, and reads saved insights back.
type InsightService interface {
	GetIntentInsights(ctx context.Context, form models.IntentForm) models.InsightResult
	SaveInsight(ctx context.Context, report models.IntentReport) models.SaveResult
	GetInsight(ctx context.Context, id string) (*models.StoredInsight, error)
}

type Server struct {
	service      InsightService
	deps         []database.Pinger
	page         *template.Template
	serviceName  string
	readyTimeout time.Duration
	logger       logger.Logger
}

func NewServer(service InsightService, serviceName string, log logger.Logger, deps ...database.Pinger) *Server {
	page := template.Must(template.ParseFS(templateFS, "templates/page.html"))
	return &Server{
		service:      service,
		deps:         deps,
		page:         page,
		serviceName:  serviceName,
		readyTimeout: 2 * time.Second,
		logger:       log.With(map[string]interface{}{"component": "httpapi"}),
	}
}

// Router wires every route onto a new gorilla/mux router.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestLogger)

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/", s.handleAnalyzeForm).Methods(http.MethodPost)
	r.HandleFunc("/insights/save", s.handleSaveForm).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/insights", s.handleInsightsAPI).Methods(http.MethodPost)
	api.HandleFunc("/insights/save", s.handleSaveAPI).Methods(http.MethodPost)
	api.HandleFunc("/insights/{id}", s.handleGetInsightAPI).Methods(http.MethodGet)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ready", s.handleReady).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": s.serviceName,
		"time":    time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	failures := database.CheckAll(r.Context(), s.readyTimeout, s.deps...)
	if len(failures) > 0 {
		checks := make(map[string]string, len(failures))
		for name, err := range failures {
			checks[name] = err.Error()
		}
		s.logger.Warn("readiness check failed", map[string]interface{}{"failures": checks})
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "not_ready",
			"checks": checks,
			"time":   time.Now().Format(time.RFC3339),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
