package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntentReport_NormalizeEncodesEmptyLists(t *testing.T) {
	var r IntentReport
	r.Normalize()

	body, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"","productName":"","reasons":[],"intentType":"","keywords":[],"contacts":[]}`, string(body))
}

func TestIntentForm_Request(t *testing.T) {
	assert.Equal(t, IntentRequest{Product: "CRM", Category: "Software"}, NewIntentForm("CRM", "Software").Request())
	assert.Equal(t, IntentRequest{}, IntentForm{}.Request())
}

func TestStoredInsight_FlattensReport(t *testing.T) {
	doc := StoredInsight{
		IntentReport: IntentReport{Summary: "s", Contacts: []Contact{{Email: "a@b.co"}}},
		CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	body, err := json.Marshal(doc)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &m))
	assert.Equal(t, "s", m["summary"])
	assert.Equal(t, "2026-01-02T03:04:05Z", m["createdAt"])
	assert.NotContains(t, m, "id")
	assert.Equal(t, []interface{}{map[string]interface{}{"email": "a@b.co"}}, m["contacts"])
}
