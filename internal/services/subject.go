package services

import (
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/mahakarkout/AttentionTest/internal/config"
	"github.com/mahakarkout/AttentionTest/internal/experiment"
	"github.com/mahakarkout/AttentionTest/internal/models"
	"github.com/mahakarkout/AttentionTest/internal/schedule"
)

const minSimulatedLatency = time.Millisecond

// SimulatedSubject plays the part of the person in front of the screen. It
// watches the cue, and once reactions are enabled it decides whether to
// react and how fast.
type SimulatedSubject struct {
	log   *zap.Logger
	cfg   config.SubjectConfig
	sched schedule.Scheduler
	rng   *rand.Rand
	echo  experiment.Display

	react   func()
	cue     models.Cue
	pending schedule.Timer
}

// NewSimulatedSubject builds a subject driven by sched. When echo is not nil
// every display call is forwarded to it.
func NewSimulatedSubject(log *zap.Logger, cfg config.SubjectConfig, sched schedule.Scheduler, seed uint64, echo experiment.Display) *SimulatedSubject {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &SimulatedSubject{
		log:   log,
		cfg:   cfg,
		sched: sched,
		rng:   rand.New(rand.NewPCG(seed^0x5bd1e995, seed)),
		echo:  echo,
		react: func() {},
	}
}

// Bind sets the reaction handler, normally Sequencer.RegisterReaction.
func (s *SimulatedSubject) Bind(react func()) {
	s.react = react
}

func (s *SimulatedSubject) ShowCue(cue models.Cue) {
	s.cue = cue
	if s.echo != nil {
		s.echo.ShowCue(cue)
	}
}

func (s *SimulatedSubject) ShowStimulus() {
	if s.echo != nil {
		s.echo.ShowStimulus()
	}
}

func (s *SimulatedSubject) HideStimulus() {
	if s.echo != nil {
		s.echo.HideStimulus()
	}
}

func (s *SimulatedSubject) ShowMessage(text string) {
	if s.echo != nil {
		s.echo.ShowMessage(text)
	}
}

func (s *SimulatedSubject) EnableReaction() {
	rate := s.cfg.HitRate
	if s.cue == models.CueNoGo {
		rate = s.cfg.FalseAlarmRate
	}
	if s.rng.Float64() >= rate {
		return
	}

	latency := s.latency()
	s.log.Debug("Simulated subject will react",
		zap.Stringer("cue", s.cue),
		zap.Duration("latency", latency),
	)
	s.pending = s.sched.AfterFunc(latency, func() {
		s.pending = nil
		s.react()
	})
}

func (s *SimulatedSubject) DisableReaction() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

// latency draws uniformly from mean ± jitter.
func (s *SimulatedSubject) latency() time.Duration {
	d := s.cfg.LatencyMean
	if s.cfg.LatencyJitter > 0 {
		d += time.Duration(s.rng.Int64N(2*int64(s.cfg.LatencyJitter)+1)) - s.cfg.LatencyJitter
	}
	if d < minSimulatedLatency {
		d = minSimulatedLatency
	}
	return d
}
