package domain

import (
	"encoding/json"
	"errors"
	"time"
)

var ErrNoReadings = errors.New("session has no readings")

// SessionRecord is what the store keeps: the summary plus bookkeeping
// about which session produced it.
type SessionRecord struct {
	SessionID string
	SavedAt   time.Time
	Summary   Observation
}

// BuildSummary synthesizes the end-of-session observation from the full
// reading history. Duration is truncated to whole seconds.
func BuildSummary(readings []Reading, start, end time.Time) (Observation, error) {
	if len(readings) == 0 {
		return Observation{}, ErrNoReadings
	}
	agg := ComputeAggregates(readings)
	dump, err := json.Marshal(readings)
	if err != nil {
		return Observation{}, err
	}
	last := readings[len(readings)-1]
	return Observation{
		ResourceType:  ResourceTypeObservation,
		Status:        StatusFinal,
		Code:          heartRateCode(),
		ValueQuantity: bpm(last.Value),
		Component: []Component{
			{Code: CodeableConcept{Text: "min"}, ValueQuantity: DecimalQuantity{Value: float64(agg.Min)}},
			{Code: CodeableConcept{Text: "max"}, ValueQuantity: DecimalQuantity{Value: float64(agg.Max)}},
			{Code: CodeableConcept{Text: "avg"}, ValueQuantity: DecimalQuantity{Value: agg.Avg}},
		},
		EffectivePeriod: &Period{
			Start:           FormatTimestamp(start),
			End:             FormatTimestamp(end),
			DurationSeconds: int(end.Sub(start) / time.Second),
		},
		Extension: []Extension{{URL: SessionDataURL, ValueString: string(dump)}},
	}, nil
}
