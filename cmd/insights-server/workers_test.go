package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intent-insights/pkg/registry"

	asc "intent-insights/internal/workers/ai-insights/aggregate-search-content"
	rsq "intent-insights/internal/workers/ai-insights/refine-search-queries"
	svi "intent-insights/internal/workers/ai-insights/save-insight"
	smi "intent-insights/internal/workers/ai-insights/summarize-intent"
)

func TestRegistryCoversEveryWorker(t *testing.T) {
	reg, err := registry.Default()
	require.NoError(t, err)

	for _, taskType := range []string{rsq.TaskType, asc.TaskType, smi.TaskType, svi.TaskType} {
		_, ok := reg.Find(taskType)
		assert.True(t, ok, taskType)
	}
}

func TestWorkersCommand(t *testing.T) {
	var out bytes.Buffer
	workersCmd.SetOut(&out)
	registryFile = ""

	require.NoError(t, runWorkers(workersCmd, nil))

	assert.Contains(t, out.String(), "TASK TYPE")
	assert.Contains(t, out.String(), "save-insight")
	assert.Contains(t, out.String(), "EMPTY_REFINED_QUERIES")
}

func TestWorkersCommand_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activities.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"activities": [
			{"taskType": "score-lead", "implementationStatus": "planned", "timeout": "45s", "retries": 2}
		]
	}`), 0o644))

	var out bytes.Buffer
	workersCmd.SetOut(&out)
	registryFile = path
	t.Cleanup(func() { registryFile = "" })

	require.NoError(t, runWorkers(workersCmd, nil))

	assert.Contains(t, out.String(), "score-lead")
	assert.NotContains(t, out.String(), "save-insight")

	registryFile = filepath.Join(t.TempDir(), "missing.json")
	assert.Error(t, runWorkers(workersCmd, nil))
}
