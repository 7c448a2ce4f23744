package domain

import "math"

// Reading is one generated heart-rate sample. Tick is 0-based per session.
type Reading struct {
	Tick  int `json:"time"`
	Value int `json:"value"`
}

// Sample produces synthetic heart-rate values.
type Sample interface {
	Next() int
}

type Aggregates struct {
	Min   int     `json:"min"`
	Max   int     `json:"max"`
	Avg   float64 `json:"avg"`
	Trend int     `json:"trend"`
}

// ComputeAggregates recomputes min/max/avg/trend over the whole sequence.
// An empty sequence yields the zero value.
func ComputeAggregates(readings []Reading) Aggregates {
	if len(readings) == 0 {
		return Aggregates{}
	}
	agg := Aggregates{Min: readings[0].Value, Max: readings[0].Value}
	sum := 0
	for _, r := range readings {
		if r.Value < agg.Min {
			agg.Min = r.Value
		}
		if r.Value > agg.Max {
			agg.Max = r.Value
		}
		sum += r.Value
	}
	agg.Avg = RoundAvg(float64(sum) / float64(len(readings)))
	if len(readings) > 1 {
		agg.Trend = readings[len(readings)-1].Value - readings[0].Value
	}
	return agg
}

// RoundAvg rounds half away from zero to two fractional digits.
func RoundAvg(v float64) float64 {
	return math.Round(v*100) / 100
}
