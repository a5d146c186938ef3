package metrics

import (
	"math"

	"dnsdelay/internal/models"
)

// Summary aggregates the outcome of a probe session.
type Summary struct {
	TotalAttempts int      `json:"total_attempts"`
	Successes     int      `json:"successes"`
	Failures      int      `json:"failures"`
	SuccessRate   float64  `json:"success_rate"`
	MinMS         *float64 `json:"min_ms,omitempty"`
	MaxMS         *float64 `json:"max_ms,omitempty"`
	MeanMS        *float64 `json:"mean_ms,omitempty"`
}

// Compute derives summary statistics from a finished report. Latency figures
// are present only when at least one attempt succeeded.
func Compute(report models.Report) Summary {
	latencies := report.Latencies()

	summary := Summary{
		TotalAttempts: len(report.Attempts),
		Successes:     len(latencies),
		Failures:      len(report.Attempts) - len(latencies),
	}
	if summary.TotalAttempts > 0 {
		summary.SuccessRate = round2(float64(summary.Successes) / float64(summary.TotalAttempts) * 100)
	}
	if len(latencies) == 0 {
		return summary
	}

	minV, maxV, sum := latencies[0], latencies[0], 0.0
	for _, v := range latencies {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
		sum += v
	}
	minV = round2(minV)
	maxV = round2(maxV)
	mean := round2(sum / float64(len(latencies)))
	summary.MinMS = &minV
	summary.MaxMS = &maxV
	summary.MeanMS = &mean
	return summary
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
