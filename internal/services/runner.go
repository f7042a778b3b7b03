package services

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mahakarkout/AttentionTest/internal/config"
	"github.com/mahakarkout/AttentionTest/internal/experiment"
	"github.com/mahakarkout/AttentionTest/internal/metrics"
	"github.com/mahakarkout/AttentionTest/internal/models"
	"github.com/mahakarkout/AttentionTest/internal/report"
	"github.com/mahakarkout/AttentionTest/internal/schedule"
	"github.com/mahakarkout/AttentionTest/internal/terminal"
)

const (
	promptStart   = "Press Enter to start (q to quit):"
	promptRestart = "Press Enter or r to restart (q to quit):"
	msgBusy       = "A session is running. Type q to end it before restarting."
)

// Runner is the interactive front end. It owns the event loop; the
// sequencer, screen and keyboard state are only touched on the loop
// goroutine.
type Runner struct {
	log      *zap.Logger
	cfg      *config.Manager
	loop     *schedule.Loop
	screen   *terminal.Screen
	keyboard *terminal.Keyboard
	agg      *metrics.Aggregator
	seq      *experiment.Sequencer
	in       io.Reader

	running  bool
	quitting bool
	session  models.SessionRecord
	sessions int
}

// NewRunner reads reactions and commands from in and draws on out.
func NewRunner(log *zap.Logger, cfg *config.Manager, in io.Reader, out io.Writer, colored bool) *Runner {
	r := &Runner{
		log:    log,
		cfg:    cfg,
		loop:   schedule.NewLoop(log),
		screen: terminal.NewScreen(out, colored),
		agg:    metrics.NewAggregator(),
		in:     in,
	}
	r.keyboard = terminal.NewKeyboard(log, r.loop)
	r.seq = experiment.NewSequencer(log, experiment.Deps{
		Display:   r.screen,
		Input:     r.keyboard,
		Scheduler: r.loop,
		Sampler:   experiment.NewRandomSampler(cfg.Current().Seed),
		Recorder:  r.agg,
		OnFinish:  r.onFinish,
	})
	r.keyboard.Bind(r.seq.RegisterReaction, r.handleCommand)
	return r
}

// Sessions returns how many sessions have finished.
func (r *Runner) Sessions() int {
	return r.sessions
}

// Run shows the instructions and serves sessions until the subject quits,
// the input ends or ctx is cancelled. A session still running when ctx is
// cancelled is ended early so its summary is shown and exported.
func (r *Runner) Run(ctx context.Context) error {
	r.screen.ShowInstructions()
	r.screen.ShowPrompt(promptStart)

	go func() {
		if err := r.keyboard.Listen(ctx, r.in); err != nil && !errors.Is(err, context.Canceled) {
			r.log.Error("Keyboard listener stopped", zap.Error(err))
		}
	}()

	err := r.loop.Run(ctx)

	// The loop has stopped, so this goroutine owns the sequencer again.
	if r.running {
		r.quitting = true
		r.seq.EndEarly()
	}
	r.seq.Teardown()

	if errors.Is(err, context.Canceled) {
		r.log.Info("Interrupted", zap.Int("sessions", r.sessions))
		return nil
	}
	return err
}

func (r *Runner) handleCommand(cmd string) {
	switch cmd {
	case "", "r":
		if r.running {
			if cmd == "" {
				// Enter outside the reaction window; the sequencer ignores it.
				r.seq.RegisterReaction()
				return
			}
			// Restarting would discard the trials recorded so far.
			r.screen.ShowMessage(msgBusy)
			return
		}
		r.startSession()
	case "q":
		if r.running {
			r.seq.EndEarly()
			return
		}
		r.loop.Stop()
	case "eof":
		r.quitting = true
		if r.running {
			r.seq.EndEarly()
		}
		r.loop.Stop()
	default:
		r.screen.ShowMessage("Unknown command " + cmd + ". Use Enter, r or q.")
	}
}

func (r *Runner) startSession() {
	cfg := r.cfg.Current()
	r.session = models.SessionRecord{
		ID:        uuid.New(),
		StartedAt: time.Now(),
		Config:    cfg.Session,
	}

	if err := r.seq.Start(cfg.Session); err != nil {
		r.screen.ShowMessage(err.Error())
		r.screen.ShowPrompt(promptRestart)
		return
	}
	r.running = true
	r.log.Info("Session opened", zap.Stringer("session", r.session.ID))
}

func (r *Runner) onFinish(summary models.SessionSummary) {
	r.running = false
	r.sessions++
	r.screen.ShowSummary(summary)

	r.session.Trials = r.agg.Trials()
	r.screen.ShowProfile(metrics.Describe(r.session.Trials))
	r.session.Summary = summary

	out := r.cfg.Current().Output
	exporter := report.NewExporter(r.log, out.TranscriptFile, out.ReportFile)
	written, err := exporter.Export(r.session)
	if err != nil {
		r.log.Error("Failed to export session", zap.Stringer("session", r.session.ID), zap.Error(err))
		r.screen.ShowMessage("Could not save results: " + err.Error())
	}
	for _, path := range written {
		r.screen.ShowMessage("Saved " + path)
	}

	if !r.quitting {
		r.screen.ShowPrompt(promptRestart)
	}
}
