package genai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"intent-insights/internal/common/config"
	"intent-insights/internal/common/logger"
	"intent-insights/internal/common/metrics"
)

const defaultAnthropicModel = "claude-sonnet-4-20250514"

// AnthropicGenerator calls the Anthropic Messages API. The output schema is
// sent in the system prompt and the reply text is parsed as JSON.
type AnthropicGenerator struct {
	client      anthropic.Client
	model       string
	maxTokens   int
	temperature float64
	logger      logger.Logger
}

func NewAnthropicGenerator(cfg config.GenAIConfig, log logger.Logger, opts ...option.RequestOption) (*AnthropicGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic api key not set")
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(config.GetDuration(cfg.Timeout)))
	}
	// The pipeline makes a single attempt per stage.
	reqOpts = append(reqOpts, option.WithMaxRetries(0))
	reqOpts = append(reqOpts, opts...)

	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	return &AnthropicGenerator{
		client:      anthropic.NewClient(reqOpts...),
		model:       model,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
		logger: log.With(map[string]interface{}{
			"component": "genai",
			"provider":  "anthropic",
		}),
	}, nil
}

func (g *AnthropicGenerator) Generate(ctx context.Context, req Request, out interface{}) error {
	start := time.Now()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: int64(g.maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt(req)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if g.temperature > 0 {
		params.Temperature = anthropic.Float(g.temperature)
	}

	resp, err := g.client.Messages.New(ctx, params)
	if err != nil {
		metrics.GenerationRequests.WithLabelValues("anthropic", req.Name, "error").Inc()
		return classifyCallError(ctx, req.Name, err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	raw, err := extractJSON(text.String())
	if err == nil {
		err = decodeOutput(req, raw, out)
	}
	if err != nil {
		metrics.GenerationRequests.WithLabelValues("anthropic", req.Name, "invalid").Inc()
		return err
	}

	metrics.GenerationRequests.WithLabelValues("anthropic", req.Name, "ok").Inc()
	g.logger.Debug("generation completed", map[string]interface{}{
		"prompt":       req.Name,
		"durationMs":   time.Since(start).Milliseconds(),
		"inputTokens":  resp.Usage.InputTokens,
		"outputTokens": resp.Usage.OutputTokens,
	})
	return nil
}

func systemPrompt(req Request) string {
	return "Respond with a single JSON object and nothing else. " +
		"The object must conform to this JSON schema:\n" + req.Schema
}
