package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Product  *string `validate:"required,min=2"`
	Category *string `validate:"required,min=2"`
}

func strPtr(s string) *string { return &s }

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name  string
		input sample
		want  []string
	}{
		{
			name:  "valid",
			input: sample{Product: strPtr("CRM"), Category: strPtr("SaaS")},
		},
		{
			name:  "both too short",
			input: sample{Product: strPtr("a"), Category: strPtr("")},
			want: []string{
				"Product must be at least 2 characters.",
				"Category must be at least 2 characters.",
			},
		},
		{
			name:  "missing product",
			input: sample{Category: strPtr("Fintech")},
			want:  []string{"Product is required."},
		},
		{
			name:  "multibyte counted as characters",
			input: sample{Product: strPtr("日本"), Category: strPtr("é")},
			want:  []string{"Category must be at least 2 characters."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateStruct(tt.input)
			assert.Equal(t, len(tt.want) == 0, result.Valid)
			if len(tt.want) == 0 {
				assert.Empty(t, result.Errors)
				return
			}
			assert.Equal(t, tt.want, result.Messages())
		})
	}
}

const reportSchema = `{
  "type": "object",
  "required": ["summary", "keywords"],
  "properties": {
    "summary": {"type": "string"},
    "keywords": {"type": "array", "items": {"type": "string"}}
  }
}`

func TestSchema_ValidateJSON(t *testing.T) {
	schema, err := CompileSchema(reportSchema)
	require.NoError(t, err)

	ok, err := schema.ValidateJSON([]byte(`{"summary":"s","keywords":["a"]}`))
	require.NoError(t, err)
	assert.True(t, ok.Valid)

	bad, err := schema.ValidateJSON([]byte(`{"keywords":[1]}`))
	require.NoError(t, err)
	assert.False(t, bad.Valid)
	assert.Len(t, bad.Errors, 2)
	assert.Contains(t, strings.Join(bad.Messages(), "\n"), "keywords.0: ")

	_, err = schema.ValidateJSON([]byte(`{not json`))
	assert.Error(t, err)
}

func TestCompileSchema_Invalid(t *testing.T) {
	_, err := CompileSchema(`{"type": "nonsense"}`)
	assert.Error(t, err)
}
