package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	require.Len(t, reg.Activities, 4)

	a, ok := reg.Find("summarize-intent")
	require.True(t, ok)
	assert.Equal(t, "Summarize Intent", a.DisplayName)
	assert.Equal(t, "completed", a.ImplementationStatus)
	assert.Contains(t, a.ErrorCodes, "GENERATION_FAILED")

	_, ok = reg.Find("auth-logout")
	assert.False(t, ok)
}

func TestParse_RejectsDuplicateTaskTypes(t *testing.T) {
	_, err := Parse([]byte(`{"activities":[{"id":"a","taskType":"x"},{"id":"b","taskType":"x"}]}`))
	assert.ErrorContains(t, err, "duplicate taskType")

	_, err = Parse([]byte(`{"activities":[{"id":"a"}]}`))
	assert.ErrorContains(t, err, "no taskType")
}

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"2.0.0","activities":[]}`), 0o600))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", reg.Version)

	_, err = LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestActivityHelpers(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	a, ok := reg.Find("refine-search-queries")
	require.True(t, ok)
	assert.Equal(t, []string{"category", "product"}, a.InputFields())
	assert.Equal(t, "2m0s", a.TimeoutDuration().String())

	assert.Zero(t, Activity{Timeout: "soon"}.TimeoutDuration())
	assert.Empty(t, Activity{}.InputFields())
}
