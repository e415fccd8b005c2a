package insights

import (
	"context"
	"fmt"

	"intent-insights/internal/genai"
)

type RefineInput struct {
	ProductDescription string `json:"productDescription"`
	Category           string `json:"category"`
}

type RefineOutput struct {
	RefinedQueries []string `json:"refinedQueries"`
}

// QueryRefiner turns a product and category into search-style queries.
type QueryRefiner interface {
	RefineQueries(ctx context.Context, input RefineInput) (*RefineOutput, error)
}

// GenAIQueryRefiner renders the refine_queries prompt and asks the generator
// for a schema-conforming query list.
type GenAIQueryRefiner struct {
	generator genai.Generator
	catalog   *genai.Catalog
}

func NewQueryRefiner(generator genai.Generator, catalog *genai.Catalog) *GenAIQueryRefiner {
	return &GenAIQueryRefiner{generator: generator, catalog: catalog}
}

func (r *GenAIQueryRefiner) RefineQueries(ctx context.Context, input RefineInput) (*RefineOutput, error) {
	req, err := r.catalog.Render(genai.PromptRefineQueries, input)
	if err != nil {
		return nil, err
	}

	var out RefineOutput
	if err := r.generator.Generate(ctx, req, &out); err != nil {
		return nil, fmt.Errorf("refine queries: %w", err)
	}
	return &out, nil
}
