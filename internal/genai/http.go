package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"intent-insights/internal/common/config"
	httpclient "intent-insights/internal/common/http"
	"intent-insights/internal/common/logger"
	"intent-insights/internal/common/metrics"
)

const maxResponseBytes = 4 << 20

// HTTPGenerator posts prompts to a GenAI gateway at {base_url}/api/ai/generate.
type HTTPGenerator struct {
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	client      *httpclient.Client
	logger      logger.Logger
}

func NewHTTPGenerator(cfg config.GenAIConfig, log logger.Logger) *HTTPGenerator {
	return &HTTPGenerator{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		client:      httpclient.NewClient(config.GetDuration(cfg.Timeout)),
		logger: log.With(map[string]interface{}{
			"component": "genai",
			"provider":  "http",
		}),
	}
}

type generateRequest struct {
	Name        string          `json:"name"`
	Prompt      string          `json:"prompt"`
	Schema      json.RawMessage `json:"schema,omitempty"`
	Model       string          `json:"model,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
}

func (g *HTTPGenerator) Generate(ctx context.Context, req Request, out interface{}) error {
	start := time.Now()

	headers := map[string]string{}
	if g.apiKey != "" {
		headers["Authorization"] = "Bearer " + g.apiKey
	}

	status, payload, err := g.client.PostJSON(ctx, g.baseURL+"/api/ai/generate", headers, generateRequest{
		Name:        req.Name,
		Prompt:      req.Prompt,
		Schema:      json.RawMessage(req.Schema),
		Model:       g.model,
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
	}, maxResponseBytes)
	if err != nil {
		metrics.GenerationRequests.WithLabelValues("http", req.Name, "error").Inc()
		return classifyCallError(ctx, req.Name, err)
	}

	if status != http.StatusOK {
		metrics.GenerationRequests.WithLabelValues("http", req.Name, "error").Inc()
		return fmt.Errorf("%w: %s: status %d: %s", ErrGenerationFailed, req.Name, status, snippet(payload))
	}

	raw, err := unwrapOutput(payload)
	if err != nil {
		metrics.GenerationRequests.WithLabelValues("http", req.Name, "invalid").Inc()
		return err
	}

	if err := decodeOutput(req, raw, out); err != nil {
		metrics.GenerationRequests.WithLabelValues("http", req.Name, "invalid").Inc()
		return err
	}

	metrics.GenerationRequests.WithLabelValues("http", req.Name, "ok").Inc()
	g.logger.Debug("generation completed", map[string]interface{}{
		"prompt":     req.Name,
		"durationMs": time.Since(start).Milliseconds(),
	})
	return nil
}

// unwrapOutput accepts {"output": <object>}, {"output": "<json text>"} or a
// bare JSON object. A bare object carrying an "error" key is a gateway
// failure, not model output.
func unwrapOutput(payload []byte) ([]byte, error) {
	var envelope struct {
		Output json.RawMessage `json:"output"`
		Error  json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("%w: response is not JSON: %v", ErrInvalidOutput, err)
	}

	if len(envelope.Output) == 0 || string(envelope.Output) == "null" {
		if len(envelope.Error) > 0 && string(envelope.Error) != "null" {
			return nil, fmt.Errorf("%w: gateway returned error: %s", ErrInvalidOutput, snippet(envelope.Error))
		}
		return payload, nil
	}

	var text string
	if err := json.Unmarshal(envelope.Output, &text); err == nil {
		return extractJSON(text)
	}
	return envelope.Output, nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
