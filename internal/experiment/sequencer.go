// Package experiment runs the Go/No-Go trial loop of the attention
// switching test.
//
// A Sequencer is not safe for concurrent use. All of its methods, and every
// callback it schedules, must run on the goroutine of the scheduler it was
// built with. Front ends hand reactions over with schedule.Poster.
package experiment

import (
	"time"

	"github.com/dropbox/godropbox/time2"
	"go.uber.org/zap"

	"github.com/mahakarkout/AttentionTest/internal/models"
	"github.com/mahakarkout/AttentionTest/internal/schedule"
)

const (
	MessageStarted   = "Experiment started! Please follow the signals."
	MessageStimulus  = "White signal! Respond accordingly."
	MessageCompleted = "Experiment completed! See your results below."
	MessageEnded     = "Experiment ended early. See your results below."
)

// CueMessage is the status line shown together with a cue.
func CueMessage(cue models.Cue) string {
	if cue == models.CueGo {
		return "Green light! Get ready."
	}
	return "Red light! Wait..."
}

// Deps are the collaborators a Sequencer drives.
type Deps struct {
	Display   Display
	Input     Input
	Scheduler schedule.Scheduler
	Clock     time2.Clock
	Sampler   Sampler
	Recorder  Recorder
	OnFinish  FinishFunc // optional
}

// Sequencer owns the session state machine.
type Sequencer struct {
	log      *zap.Logger
	display  Display
	input    Input
	sched    schedule.Scheduler
	clock    time2.Clock
	sampler  Sampler
	recorder Recorder
	onFinish FinishFunc

	cfg        models.SessionConfig
	phase      models.Phase
	trialIndex int
	current    *models.Trial
	pending    schedule.Timer
}

// NewSequencer returns an idle sequencer. A nil deps.Clock means wall time.
func NewSequencer(log *zap.Logger, deps Deps) *Sequencer {
	clock := deps.Clock
	if clock == nil {
		clock = time2.DefaultClock
	}
	return &Sequencer{
		log:      log,
		display:  deps.Display,
		input:    deps.Input,
		sched:    deps.Scheduler,
		clock:    clock,
		sampler:  deps.Sampler,
		recorder: deps.Recorder,
		onFinish: deps.OnFinish,
		phase:    models.PhaseIdle,
	}
}

// Phase is the current state of the trial loop.
func (s *Sequencer) Phase() models.Phase {
	return s.phase
}

// TrialIndex is the number of trials started in the current session.
func (s *Sequencer) TrialIndex() int {
	return s.trialIndex
}

// Start validates cfg, resets the session and begins the first trial. An
// invalid cfg leaves the sequencer untouched and returns a
// *models.ConfigurationError.
func (s *Sequencer) Start(cfg models.SessionConfig) error {
	if err := cfg.Validate(); err != nil {
		s.log.Warn("Refusing to start session", zap.Error(err))
		return err
	}

	s.cancelPending()
	if s.current != nil {
		s.display.HideStimulus()
	}
	s.cfg = cfg
	s.trialIndex = 0
	s.current = nil
	s.phase = models.PhaseIdle
	s.recorder.Reset()
	s.input.DisableReaction()

	s.log.Info("Session started",
		zap.Int("total_trials", cfg.TotalTrials),
		zap.Duration("reaction_deadline", cfg.ReactionDeadline),
		zap.Duration("delay_min", cfg.PreStimulusDelayMin),
		zap.Duration("delay_max", cfg.PreStimulusDelayMax),
	)
	s.display.ShowMessage(MessageStarted)
	s.beginTrial()
	return nil
}

func (s *Sequencer) beginTrial() {
	if s.trialIndex == s.cfg.TotalTrials {
		s.finish(false)
		return
	}

	s.trialIndex++
	cue := s.sampler.Cue()
	delay := s.sampler.Delay(s.cfg.PreStimulusDelayMin, s.cfg.PreStimulusDelayMax)
	s.current = &models.Trial{
		Index:            s.trialIndex,
		Cue:              cue,
		PreStimulusDelay: delay,
		ReactionDeadline: s.cfg.ReactionDeadline,
	}
	s.phase = models.PhaseAwaitingCue

	s.log.Debug("Trial started",
		zap.Int("trial", s.trialIndex),
		zap.Stringer("cue", cue),
		zap.Duration("delay", delay),
	)
	s.display.ShowCue(cue)
	s.display.ShowMessage(CueMessage(cue))
	s.arm(delay, s.revealStimulus)
}

func (s *Sequencer) revealStimulus() {
	if s.phase != models.PhaseAwaitingCue {
		return
	}

	s.phase = models.PhaseAwaitingReaction
	s.display.ShowStimulus()
	s.display.ShowMessage(MessageStimulus)
	s.current.StimulusOnset = s.clock.Now()
	// The deadline is armed first so that, on a scheduler that orders
	// simultaneous callbacks by arrival, a reaction landing exactly on the
	// deadline is a late one.
	s.arm(s.cfg.ReactionDeadline, s.onDeadlineExpired)
	s.input.EnableReaction()
}

// RegisterReaction records the subject's reaction to the current stimulus.
// Reactions outside the reaction window are ignored.
func (s *Sequencer) RegisterReaction() {
	if s.phase != models.PhaseAwaitingReaction {
		s.log.Debug("Ignoring reaction outside the reaction window",
			zap.Stringer("phase", s.phase),
			zap.Int("trial", s.trialIndex),
		)
		return
	}

	s.cancelPending()
	s.current.Reacted = true
	s.current.ReactionLatency = s.clock.Now().Sub(s.current.StimulusOnset)
	s.closeTrial()
}

func (s *Sequencer) onDeadlineExpired() {
	if s.phase != models.PhaseAwaitingReaction {
		return
	}
	s.current.Reacted = false
	s.closeTrial()
}

func (s *Sequencer) closeTrial() {
	s.input.DisableReaction()
	s.display.HideStimulus()

	s.current.Outcome = models.Classify(s.current.Cue, s.current.Reacted)
	trial := *s.current
	s.current = nil
	s.recorder.Record(trial)

	s.log.Debug("Trial completed",
		zap.Int("trial", trial.Index),
		zap.Stringer("cue", trial.Cue),
		zap.Stringer("outcome", trial.Outcome),
		zap.Duration("latency", trial.ReactionLatency),
	)

	s.phase = models.PhaseInterTrialPause
	s.arm(s.cfg.InterTrialPause, s.nextTrial)
}

func (s *Sequencer) nextTrial() {
	if s.phase != models.PhaseInterTrialPause {
		return
	}
	s.beginTrial()
}

// EndEarly terminates the session. A trial that has not been classified yet
// is dropped and not counted. It does nothing when no session is running.
func (s *Sequencer) EndEarly() {
	if s.phase == models.PhaseIdle || s.phase == models.PhaseFinished {
		return
	}

	s.cancelPending()
	if s.phase == models.PhaseAwaitingReaction {
		s.input.DisableReaction()
	}
	if s.current != nil {
		s.display.HideStimulus()
		s.log.Info("Dropping unfinished trial", zap.Int("trial", s.current.Index))
		s.current = nil
	}
	s.finish(true)
}

// Teardown releases the pending timer and returns to Idle without producing
// a summary.
func (s *Sequencer) Teardown() {
	s.cancelPending()
	s.input.DisableReaction()
	if s.current != nil {
		s.display.HideStimulus()
		s.current = nil
	}
	s.phase = models.PhaseIdle
}

func (s *Sequencer) finish(early bool) {
	s.cancelPending()
	s.phase = models.PhaseFinished

	summary := s.recorder.Summarize(s.cfg.TotalTrials)
	summary.EndedEarly = early

	s.log.Info("Session finished",
		zap.Bool("ended_early", early),
		zap.Int("completed", summary.TrialsCompleted),
		zap.Int("correct", summary.CorrectCount),
		zap.Int("errors", summary.ErrorCount),
		zap.Duration("avg_latency", summary.AverageReactionLatency),
		zap.Float64("pv", summary.CompositeScore),
	)

	if early {
		s.display.ShowMessage(MessageEnded)
	} else {
		s.display.ShowMessage(MessageCompleted)
	}
	if s.onFinish != nil {
		s.onFinish(summary)
	}
}

// arm replaces the pending timer. There is never more than one.
func (s *Sequencer) arm(d time.Duration, f func()) {
	s.cancelPending()
	s.pending = s.sched.AfterFunc(d, func() {
		s.pending = nil
		f()
	})
}

func (s *Sequencer) cancelPending() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}
