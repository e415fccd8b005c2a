// Package genai performs structured generation: a rendered prompt goes to a
// model backend and the reply is validated against the prompt's JSON schema
// before it is decoded.
package genai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"

	"intent-insights/internal/common/validation"
)

var (
	ErrGenerationFailed  = errors.New("GENERATION_FAILED")
	ErrGenerationTimeout = errors.New("GENERATION_TIMEOUT")
	ErrInvalidOutput     = errors.New("INVALID_MODEL_OUTPUT")
)

// Request is a rendered prompt together with the schema its output must match.
type Request struct {
	Name   string
	Prompt string
	Schema string

	schema *validation.Schema
}

// Generator sends a request to a model and decodes the schema-conforming
// reply into out.
type Generator interface {
	Generate(ctx context.Context, req Request, out interface{}) error
}

// decodeOutput validates raw against the request schema and unmarshals it.
func decodeOutput(req Request, raw []byte, out interface{}) error {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return fmt.Errorf("%w: empty response for %s", ErrInvalidOutput, req.Name)
	}

	if req.schema == nil && req.Schema != "" {
		s, err := validation.CompileSchema(req.Schema)
		if err != nil {
			return err
		}
		req.schema = s
	}

	if req.schema != nil {
		result, err := req.schema.ValidateJSON(raw)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidOutput, req.Name, err)
		}
		if !result.Valid {
			return fmt.Errorf("%w: %s: %s", ErrInvalidOutput, req.Name, strings.Join(result.GetErrorMessages(), "; "))
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidOutput, req.Name, err)
	}
	return nil
}

// extractJSON strips markdown fences and returns the outermost JSON object
// found in text.
func extractJSON(text string) ([]byte, error) {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("%w: no JSON object in model reply", ErrInvalidOutput)
	}
	return []byte(text[start : end+1]), nil
}

func classifyCallError(ctx context.Context, name string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", ErrGenerationTimeout, name)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %s", ErrGenerationTimeout, name)
	}
	return fmt.Errorf("%w: %s: %v", ErrGenerationFailed, name, err)
}
