package domain

import "time"

// FHIR coding constants for heart-rate observations.
const (
	ResourceTypeObservation = "Observation"
	StatusFinal             = "final"

	LOINCSystem      = "http://loinc.org"
	HeartRateCode    = "8867-4"
	HeartRateDisplay = "Heart rate"

	UCUMSystem     = "http://unitsofmeasure.org"
	PerMinute      = "/min"
	BeatsPerMinute = "beats/minute"

	CategorySystem  = "http://terminology.hl7.org/CodeSystem/observation-category"
	VitalSigns      = "vital-signs"
	VitalSignsLabel = "Vital Signs"

	SessionDataURL = "http://example.org/sessionData"

	// TimestampLayout is UTC with second precision.
	TimestampLayout = "2006-01-02T15:04:05Z"
)

type Coding struct {
	System  string `json:"system,omitempty"`
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

type CodeableConcept struct {
	Coding []Coding `json:"coding,omitempty"`
	Text   string   `json:"text,omitempty"`
}

// Quantity is an integer measurement such as a bpm reading.
type Quantity struct {
	Value  int    `json:"value"`
	Unit   string `json:"unit,omitempty"`
	System string `json:"system,omitempty"`
	Code   string `json:"code,omitempty"`
}

// DecimalQuantity carries summary statistics. Whole numbers still encode
// without a fraction, so min and max read as integers on the wire.
type DecimalQuantity struct {
	Value float64 `json:"value"`
}

type Component struct {
	Code          CodeableConcept `json:"code"`
	ValueQuantity DecimalQuantity `json:"valueQuantity"`
}

type Period struct {
	Start           string `json:"start"`
	End             string `json:"end"`
	DurationSeconds int    `json:"duration_seconds"`
}

type Extension struct {
	URL         string `json:"url"`
	ValueString string `json:"valueString"`
}

// Observation covers both the per-tick observation and the session summary;
// fields that do not apply are omitted.
type Observation struct {
	ResourceType      string            `json:"resourceType"`
	Status            string            `json:"status"`
	Category          []CodeableConcept `json:"category,omitempty"`
	Code              CodeableConcept   `json:"code"`
	ValueQuantity     Quantity          `json:"valueQuantity"`
	Component         []Component       `json:"component,omitempty"`
	EffectiveDateTime string            `json:"effectiveDateTime,omitempty"`
	EffectivePeriod   *Period           `json:"effectivePeriod,omitempty"`
	Extension         []Extension       `json:"extension,omitempty"`
}

func heartRateCode() CodeableConcept {
	return CodeableConcept{
		Coding: []Coding{{System: LOINCSystem, Code: HeartRateCode, Display: HeartRateDisplay}},
		Text:   HeartRateDisplay,
	}
}

func bpm(value int) Quantity {
	return Quantity{Value: value, Unit: BeatsPerMinute, System: UCUMSystem, Code: PerMinute}
}

// FormatTimestamp renders t in UTC with second precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// NewReadingObservation builds the single-value observation sent with every tick.
func NewReadingObservation(value int, at time.Time) Observation {
	return Observation{
		ResourceType: ResourceTypeObservation,
		Status:       StatusFinal,
		Category: []CodeableConcept{{
			Coding: []Coding{{System: CategorySystem, Code: VitalSigns, Display: VitalSignsLabel}},
		}},
		Code:              heartRateCode(),
		ValueQuantity:     bpm(value),
		EffectiveDateTime: FormatTimestamp(at),
	}
}

// TickMessage is the outbound message for one tick.
type TickMessage struct {
	Time        int         `json:"time"`
	Observation Observation `json:"observation"`
	Aggregates  Aggregates  `json:"aggregates"`
}

func NewTickMessage(r Reading, agg Aggregates, at time.Time) TickMessage {
	return TickMessage{Time: r.Tick, Observation: NewReadingObservation(r.Value, at), Aggregates: agg}
}
