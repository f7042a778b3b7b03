// Package services wires the experiment together for the command line: an
// interactive Runner on a real terminal and a virtual-time Simulate used for
// dry runs.
package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mahakarkout/AttentionTest/internal/config"
	"github.com/mahakarkout/AttentionTest/internal/experiment"
	"github.com/mahakarkout/AttentionTest/internal/metrics"
	"github.com/mahakarkout/AttentionTest/internal/models"
	"github.com/mahakarkout/AttentionTest/internal/schedule"
)

// Simulate runs one full session against a SimulatedSubject in virtual time
// starting at start. It returns as soon as the session is finished; no wall
// clock time passes. echo may be nil.
func Simulate(log *zap.Logger, cfg config.Config, start time.Time, echo experiment.Display) (models.SessionRecord, error) {
	sched := schedule.NewManual(start)
	agg := metrics.NewAggregator()
	subject := NewSimulatedSubject(log, cfg.Subject, sched, cfg.Seed, echo)

	var (
		summary  models.SessionSummary
		finished bool
	)
	seq := experiment.NewSequencer(log, experiment.Deps{
		Display:   subject,
		Input:     subject,
		Scheduler: sched,
		Clock:     sched.Clock(),
		Sampler:   experiment.NewRandomSampler(cfg.Seed),
		Recorder:  agg,
		OnFinish: func(s models.SessionSummary) {
			summary = s
			finished = true
		},
	})
	subject.Bind(seq.RegisterReaction)

	if err := seq.Start(cfg.Session); err != nil {
		return models.SessionRecord{}, err
	}

	// Each trial fires at most cue, reaction, deadline and pause callbacks.
	limit := 4*cfg.Session.TotalTrials + 1
	sched.RunUntilIdle(limit)
	seq.Teardown()

	if !finished {
		return models.SessionRecord{}, errors.Errorf("simulated session did not finish within %d events", limit)
	}

	rec := models.SessionRecord{
		ID:        uuid.New(),
		StartedAt: start,
		Config:    cfg.Session,
		Trials:    agg.Trials(),
		Summary:   summary,
	}
	log.Info("Simulated session complete",
		zap.Stringer("session", rec.ID),
		zap.Int("trials", summary.TrialsCompleted),
		zap.Float64("pv", summary.CompositeScore),
	)
	return rec, nil
}
