package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTickMessageShape(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 600_000_000, time.UTC)
	msg := NewTickMessage(Reading{Tick: 4, Value: 88}, Aggregates{Min: 70, Max: 90, Avg: 80.25, Trend: -2}, at)

	raw, err := json.Marshal(msg)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	require.Equal(t, 4.0, doc["time"])
	require.Equal(t, map[string]any{"min": 70.0, "max": 90.0, "avg": 80.25, "trend": -2.0}, doc["aggregates"])

	obs := doc["observation"].(map[string]any)
	require.Equal(t, "Observation", obs["resourceType"])
	require.Equal(t, "2025-01-02T03:04:05Z", obs["effectiveDateTime"])
	require.NotContains(t, obs, "component")
	require.NotContains(t, obs, "effectivePeriod")
	require.Equal(t, map[string]any{
		"value":  88.0,
		"unit":   "beats/minute",
		"system": "http://unitsofmeasure.org",
		"code":   "/min",
	}, obs["valueQuantity"])

	cat := obs["category"].([]any)[0].(map[string]any)["coding"].([]any)[0].(map[string]any)
	require.Equal(t, "vital-signs", cat["code"])
}
