package genai

import (
	"bytes"
	_ "embed"
	"fmt"
	"sort"
	"text/template"

	"gopkg.in/yaml.v3"

	"intent-insights/internal/common/validation"
)

const (
	PromptRefineQueries   = "refine_queries"
	PromptSummarizeIntent = "summarize_intent"
)

//go:embed prompts.yaml
var promptsYAML []byte

type promptSpec struct {
	Description string `yaml:"description"`
	Schema      string `yaml:"schema"`
	Template    string `yaml:"template"`
}

// Prompt is a compiled entry of the prompt catalog.
type Prompt struct {
	Name        string
	Description string
	SchemaJSON  string

	tmpl   *template.Template
	schema *validation.Schema
}

// Catalog holds the fixed prompt templates shipped with the binary.
type Catalog struct {
	prompts map[string]*Prompt
}

// LoadCatalog parses the embedded prompt catalog.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(promptsYAML)
}

// ParseCatalog compiles every template and schema in a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var specs map[string]promptSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("parse prompt catalog: %w", err)
	}

	c := &Catalog{prompts: make(map[string]*Prompt, len(specs))}
	for name, spec := range specs {
		tmpl, err := template.New(name).Option("missingkey=error").Parse(spec.Template)
		if err != nil {
			return nil, fmt.Errorf("prompt %s: template: %w", name, err)
		}
		schema, err := validation.CompileSchema(spec.Schema)
		if err != nil {
			return nil, fmt.Errorf("prompt %s: %w", name, err)
		}
		c.prompts[name] = &Prompt{
			Name:        name,
			Description: spec.Description,
			SchemaJSON:  spec.Schema,
			tmpl:        tmpl,
			schema:      schema,
		}
	}
	return c, nil
}

// Names lists the catalog entries in lexical order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.prompts))
	for name := range c.prompts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render interpolates data into the named template.
func (c *Catalog) Render(name string, data interface{}) (Request, error) {
	p, ok := c.prompts[name]
	if !ok {
		return Request{}, fmt.Errorf("unknown prompt %q", name)
	}

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		return Request{}, fmt.Errorf("render prompt %s: %w", name, err)
	}

	return Request{
		Name:   name,
		Prompt: buf.String(),
		Schema: p.SchemaJSON,
		schema: p.schema,
	}, nil
}
