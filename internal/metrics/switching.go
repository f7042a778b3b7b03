package metrics

import (
	"time"

	"github.com/mahakarkout/AttentionTest/internal/models"
)

// Aggregator accumulates trial outcomes for one session and computes the
// summary on demand. It is not safe for concurrent use; the sequencer that
// feeds it runs on a single goroutine.
type Aggregator struct {
	trials []models.Trial

	correct   int
	incorrect int

	hits             int
	misses           int
	correctWithholds int
	falseAlarms      int

	hitLatencySum time.Duration
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Record appends a classified trial to the log.
func (a *Aggregator) Record(trial models.Trial) {
	a.trials = append(a.trials, trial)

	if trial.Outcome.Correct() {
		a.correct++
	} else {
		a.incorrect++
	}

	switch trial.Outcome {
	case models.OutcomeHit:
		a.hits++
		a.hitLatencySum += trial.ReactionLatency
	case models.OutcomeMiss:
		a.misses++
	case models.OutcomeCorrectWithhold:
		a.correctWithholds++
	case models.OutcomeFalseAlarm:
		a.falseAlarms++
	}
}

// Summarize computes the session summary against the configured trial count.
// It does not change the accumulators, so repeated calls agree.
func (a *Aggregator) Summarize(totalConfigured int) models.SessionSummary {
	avg := a.averageHitLatency()
	return models.SessionSummary{
		TotalConfigured:        totalConfigured,
		TrialsCompleted:        len(a.trials),
		CorrectCount:           a.correct,
		ErrorCount:             a.incorrect,
		Hits:                   a.hits,
		Misses:                 a.misses,
		CorrectWithholds:       a.correctWithholds,
		FalseAlarms:            a.falseAlarms,
		AverageReactionLatency: avg,
		CompositeScore:         CompositeScore(totalConfigured, a.incorrect, avg),
	}
}

// Trials returns a copy of the recorded trials in order.
func (a *Aggregator) Trials() []models.Trial {
	out := make([]models.Trial, len(a.trials))
	copy(out, a.trials)
	return out
}

// Reset clears everything recorded so far.
func (a *Aggregator) Reset() {
	*a = Aggregator{}
}

// Mean over hits. The divisor is the hit count, not the correct count:
// correct withholds carry no latency.
func (a *Aggregator) averageHitLatency() time.Duration {
	if a.hits == 0 {
		return 0
	}
	return a.hitLatencySum / time.Duration(a.hits)
}

// CompositeScore is the switching attention score PV = n/(n-e) * avg, in
// seconds. It is 0 when every configured trial was an error.
func CompositeScore(totalConfigured, errorCount int, avg time.Duration) float64 {
	correctable := totalConfigured - errorCount
	if correctable == 0 {
		return 0
	}
	return float64(totalConfigured) / float64(correctable) * avg.Seconds()
}
