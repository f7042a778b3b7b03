package metrics

import (
	"math"
	"time"

	"github.com/mahakarkout/AttentionTest/internal/models"
)

// Profile breaks a session down by cue type. It complements the summary
// for reports; none of it feeds the composite score.
type Profile struct {
	GoTrials   int
	NoGoTrials int

	DetectionRate  float64 // hits / go trials
	OmissionRate   float64 // misses / go trials
	CommissionRate float64 // false alarms / nogo trials

	// Population standard deviation of hit latencies.
	LatencySD time.Duration
}

func Describe(trials []models.Trial) Profile {
	var p Profile
	var hits, misses, falseAlarms int
	var latencies []float64

	for _, trial := range trials {
		switch trial.Cue {
		case models.CueGo:
			p.GoTrials++
		case models.CueNoGo:
			p.NoGoTrials++
		}

		switch trial.Outcome {
		case models.OutcomeHit:
			hits++
			latencies = append(latencies, float64(trial.ReactionLatency))
		case models.OutcomeMiss:
			misses++
		case models.OutcomeFalseAlarm:
			falseAlarms++
		}
	}

	p.DetectionRate = rate(hits, p.GoTrials)
	p.OmissionRate = rate(misses, p.GoTrials)
	p.CommissionRate = rate(falseAlarms, p.NoGoTrials)
	p.LatencySD = time.Duration(stddev(latencies))
	return p
}

func rate(n, of int) float64 {
	if of == 0 {
		return 0
	}
	return float64(n) / float64(of)
}

func stddev(values []float64) float64 {
	if len(values) <= 1 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	avg := sum / float64(len(values))

	var sumSquaredDiff float64
	for _, v := range values {
		diff := v - avg
		sumSquaredDiff += diff * diff
	}
	return math.Sqrt(sumSquaredDiff / float64(len(values)))
}
