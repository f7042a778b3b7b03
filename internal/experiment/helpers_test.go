package experiment

import (
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/mahakarkout/AttentionTest/internal/metrics"
	"github.com/mahakarkout/AttentionTest/internal/models"
	"github.com/mahakarkout/AttentionTest/internal/schedule"
)

var epoch = time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

// scriptedSampler returns the given cues in order and a fixed delay.
type scriptedSampler struct {
	cues  []models.Cue
	delay time.Duration
	next  int
}

func (s *scriptedSampler) Cue() models.Cue {
	c := s.cues[s.next%len(s.cues)]
	s.next++
	return c
}

func (s *scriptedSampler) Delay(lo, hi time.Duration) time.Duration {
	if s.delay < lo {
		return lo
	}
	if s.delay > hi {
		return hi
	}
	return s.delay
}

type fakeDisplay struct {
	events   []string
	messages []string
	visible  bool
}

func (d *fakeDisplay) ShowCue(cue models.Cue) {
	d.events = append(d.events, "cue:"+cue.String())
}

func (d *fakeDisplay) ShowStimulus() {
	d.visible = true
	d.events = append(d.events, "stimulus")
}

func (d *fakeDisplay) HideStimulus() {
	d.visible = false
	d.events = append(d.events, "hide")
}

func (d *fakeDisplay) ShowMessage(text string) {
	d.messages = append(d.messages, text)
}

type fakeInput struct {
	enabled bool
	enables int
}

func (i *fakeInput) EnableReaction() {
	i.enabled = true
	i.enables++
}

func (i *fakeInput) DisableReaction() {
	i.enabled = false
}

type harness struct {
	seq       *Sequencer
	sched     *schedule.Manual
	display   *fakeDisplay
	input     *fakeInput
	agg       *metrics.Aggregator
	summaries []models.SessionSummary
}

func newHarness(t *testing.T, delay time.Duration, cues ...models.Cue) *harness {
	t.Helper()

	h := &harness{
		sched:   schedule.NewManual(epoch),
		display: &fakeDisplay{},
		input:   &fakeInput{},
		agg:     metrics.NewAggregator(),
	}
	h.seq = NewSequencer(zaptest.NewLogger(t), Deps{
		Display:   h.display,
		Input:     h.input,
		Scheduler: h.sched,
		Clock:     h.sched.Clock(),
		Sampler:   &scriptedSampler{cues: cues, delay: delay},
		Recorder:  h.agg,
		OnFinish: func(s models.SessionSummary) {
			h.summaries = append(h.summaries, s)
		},
	})
	return h
}

func testConfig(trials int) models.SessionConfig {
	cfg := models.DefaultSessionConfig()
	cfg.TotalTrials = trials
	return cfg
}
