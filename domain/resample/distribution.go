package resample

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"gorisk/domain/core"
)

// StatisticKind identifies the derived statistic a resample run accumulates
type StatisticKind string

const (
	// StatisticEfficacy is one minus the treatment/control risk ratio
	StatisticEfficacy StatisticKind = "efficacy"
	// StatisticRelativeRisk is the raw treatment/control risk ratio
	StatisticRelativeRisk StatisticKind = "relative_risk"
	// StatisticGroupRisk is a single simulated per-arm risk
	StatisticGroupRisk StatisticKind = "group_risk"
)

// ParseStatisticKind maps a request string onto a two-arm statistic kind.
// An empty string selects efficacy, the primary reporting form.
func ParseStatisticKind(s string) (StatisticKind, error) {
	switch s {
	case "", string(StatisticEfficacy):
		return StatisticEfficacy, nil
	case string(StatisticRelativeRisk):
		return StatisticRelativeRisk, nil
	default:
		return "", core.NewInvalidArgumentError("statistic", fmt.Sprintf("unknown kind %q", s))
	}
}

// Distribution is the ordered sequence of simulated statistics produced by
// one resample run. It is appended to only while the run is generating and
// must be treated as immutable afterwards; summaries are order-insensitive.
type Distribution []float64

// Len returns the number of simulated statistics
func (d Distribution) Len() int {
	return len(d)
}

// Profile captures the shape of the distribution for reporting consumers
type Profile struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	Count  int     `json:"count"`
}

// Profile computes the distribution shape summary. A zero Profile is
// returned for an empty distribution.
func (d Distribution) Profile() Profile {
	if len(d) == 0 {
		return Profile{}
	}

	data := stats.Float64Data(d)
	min, _ := stats.Min(data)
	max, _ := stats.Max(data)
	median, _ := stats.Median(data)

	return Profile{
		Min:    min,
		Max:    max,
		Median: median,
		Count:  len(d),
	}
}
