package experiment

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahakarkout/AttentionTest/internal/models"
)

const delay = time.Second

// play drives one trial from its cue to the start of the next one. A
// non-positive latency means the subject does not react.
func (h *harness) play(t *testing.T, latency time.Duration) {
	t.Helper()

	require.Equal(t, models.PhaseAwaitingCue, h.seq.Phase())
	h.sched.Advance(delay)
	require.Equal(t, models.PhaseAwaitingReaction, h.seq.Phase())
	require.True(t, h.input.enabled)
	require.LessOrEqual(t, h.sched.Pending(), 1)

	if latency > 0 {
		h.sched.Advance(latency)
		h.seq.RegisterReaction()
	} else {
		h.sched.Advance(models.DefaultSessionConfig().ReactionDeadline)
	}

	require.False(t, h.input.enabled)
	require.False(t, h.display.visible)
	require.LessOrEqual(t, h.sched.Pending(), 1)
	h.sched.Advance(models.DefaultSessionConfig().InterTrialPause)
}

func TestSequencer_SingleHit(t *testing.T) {
	h := newHarness(t, delay, models.CueGo)
	require.NoError(t, h.seq.Start(testConfig(1)))

	h.play(t, 200*time.Millisecond)

	require.Len(t, h.summaries, 1)
	s := h.summaries[0]
	assert.Equal(t, models.PhaseFinished, h.seq.Phase())
	assert.Equal(t, 1, s.CorrectCount)
	assert.Equal(t, 0, s.ErrorCount)
	assert.Equal(t, 200*time.Millisecond, s.AverageReactionLatency)
	assert.InDelta(t, 0.2, s.CompositeScore, 1e-9)
	assert.False(t, s.EndedEarly)
	assert.Equal(t, 0, h.sched.Pending())

	trials := h.agg.Trials()
	require.Len(t, trials, 1)
	assert.Equal(t, models.OutcomeHit, trials[0].Outcome)
	assert.Equal(t, epoch.Add(delay), trials[0].StimulusOnset)
	assert.Equal(t, MessageCompleted, h.display.messages[len(h.display.messages)-1])
}

func TestSequencer_MissThenCorrectWithhold(t *testing.T) {
	h := newHarness(t, delay, models.CueGo, models.CueNoGo)
	require.NoError(t, h.seq.Start(testConfig(2)))

	h.play(t, 0)
	h.play(t, 0)

	require.Len(t, h.summaries, 1)
	s := h.summaries[0]
	assert.Equal(t, 1, s.CorrectCount)
	assert.Equal(t, 1, s.ErrorCount)
	assert.Equal(t, 1, s.Misses)
	assert.Equal(t, 1, s.CorrectWithholds)
	assert.Equal(t, time.Duration(0), s.AverageReactionLatency)
	assert.Equal(t, 0.0, s.CompositeScore)
}

func TestSequencer_ErrorsInflateScore(t *testing.T) {
	h := newHarness(t, delay,
		models.CueGo, models.CueGo, models.CueNoGo, models.CueNoGo, models.CueGo)
	require.NoError(t, h.seq.Start(testConfig(5)))

	h.play(t, 400*time.Millisecond) // hit
	h.play(t, 0)                    // miss
	h.play(t, 300*time.Millisecond) // false alarm
	h.play(t, 100*time.Millisecond) // false alarm
	h.play(t, 0)                    // miss

	require.Len(t, h.summaries, 1)
	s := h.summaries[0]
	assert.Equal(t, 1, s.CorrectCount)
	assert.Equal(t, 4, s.ErrorCount)
	assert.Equal(t, 400*time.Millisecond, s.AverageReactionLatency)
	assert.InDelta(t, 2.0, s.CompositeScore, 1e-9)
}

func TestSequencer_EndEarlyDropsInFlightTrial(t *testing.T) {
	h := newHarness(t, delay, models.CueGo)
	require.NoError(t, h.seq.Start(testConfig(3)))

	h.play(t, 250*time.Millisecond)
	h.sched.Advance(delay)
	require.Equal(t, models.PhaseAwaitingReaction, h.seq.Phase())

	h.seq.EndEarly()

	assert.Equal(t, models.PhaseFinished, h.seq.Phase())
	assert.False(t, h.input.enabled)
	assert.False(t, h.display.visible)
	assert.Equal(t, 0, h.sched.Pending())

	require.Len(t, h.summaries, 1)
	s := h.summaries[0]
	assert.True(t, s.EndedEarly)
	assert.Equal(t, 1, s.TrialsCompleted)
	assert.Equal(t, 1, s.CorrectCount+s.ErrorCount)
	assert.Equal(t, 3, s.TotalConfigured)

	h.seq.RegisterReaction()
	h.sched.Advance(10 * time.Second)
	h.seq.EndEarly()
	assert.Len(t, h.summaries, 1)
	assert.Len(t, h.agg.Trials(), 1)
}

func TestSequencer_EndEarlyDuringCue(t *testing.T) {
	h := newHarness(t, delay, models.CueNoGo)
	require.NoError(t, h.seq.Start(testConfig(2)))
	require.Equal(t, models.PhaseAwaitingCue, h.seq.Phase())

	h.seq.EndEarly()

	require.Len(t, h.summaries, 1)
	assert.Equal(t, 0, h.summaries[0].TrialsCompleted)
	assert.Equal(t, 0.0, h.summaries[0].CompositeScore)
	assert.Equal(t, 0, h.sched.Pending())
	assert.Equal(t, 0, h.input.enables)
}

func TestSequencer_EndEarlyWithoutSessionIsNoop(t *testing.T) {
	h := newHarness(t, delay, models.CueGo)

	h.seq.EndEarly()
	assert.Equal(t, models.PhaseIdle, h.seq.Phase())
	assert.Empty(t, h.summaries)

	require.NoError(t, h.seq.Start(testConfig(1)))
	h.play(t, 0)
	require.Len(t, h.summaries, 1)

	h.seq.EndEarly()
	assert.Len(t, h.summaries, 1)
	assert.Equal(t, models.PhaseFinished, h.seq.Phase())
}

func TestSequencer_LateReactionIgnored(t *testing.T) {
	h := newHarness(t, delay, models.CueGo)
	require.NoError(t, h.seq.Start(testConfig(2)))

	h.sched.Advance(delay)
	h.sched.Advance(1500 * time.Millisecond)
	require.Equal(t, models.PhaseInterTrialPause, h.seq.Phase())

	h.seq.RegisterReaction()

	trials := h.agg.Trials()
	require.Len(t, trials, 1)
	assert.Equal(t, models.OutcomeMiss, trials[0].Outcome)
	assert.False(t, trials[0].Reacted)
	assert.Equal(t, models.PhaseInterTrialPause, h.seq.Phase())
	assert.Equal(t, 1, h.sched.Pending())
}

func TestSequencer_ReactionBeforeStimulusIgnored(t *testing.T) {
	h := newHarness(t, delay, models.CueNoGo)
	require.NoError(t, h.seq.Start(testConfig(1)))

	h.sched.Advance(delay / 2)
	h.seq.RegisterReaction()
	assert.Equal(t, models.PhaseAwaitingCue, h.seq.Phase())
	assert.Empty(t, h.agg.Trials())

	h.sched.Advance(delay / 2)
	require.Equal(t, models.PhaseAwaitingReaction, h.seq.Phase())
	h.sched.Advance(1500 * time.Millisecond)
	h.sched.Advance(500 * time.Millisecond)

	require.Len(t, h.summaries, 1)
	assert.Equal(t, models.OutcomeCorrectWithhold, h.agg.Trials()[0].Outcome)
	assert.Equal(t, 1, h.summaries[0].CorrectCount)
}

func TestSequencer_InvalidConfig(t *testing.T) {
	h := newHarness(t, delay, models.CueGo)

	cfg := testConfig(0)
	err := h.seq.Start(cfg)
	require.Error(t, err)

	var cfgErr *models.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "total_trials", cfgErr.Field)
	assert.Equal(t, models.PhaseIdle, h.seq.Phase())
	assert.Equal(t, 0, h.sched.Pending())
	assert.Empty(t, h.display.messages)

	cfg = testConfig(3)
	cfg.PreStimulusDelayMin = 3 * time.Second
	assert.Error(t, h.seq.Start(cfg))

	cfg = testConfig(3)
	cfg.ReactionDeadline = 0
	assert.Error(t, h.seq.Start(cfg))
	assert.Equal(t, 0, h.seq.TrialIndex())
}

func TestSequencer_RestartResetsSession(t *testing.T) {
	h := newHarness(t, delay, models.CueGo)
	require.NoError(t, h.seq.Start(testConfig(3)))
	h.play(t, 300*time.Millisecond)
	h.sched.Advance(delay)
	require.Equal(t, 2, h.seq.TrialIndex())

	require.NoError(t, h.seq.Start(testConfig(1)))
	assert.Equal(t, 1, h.seq.TrialIndex())
	assert.Empty(t, h.agg.Trials())
	assert.False(t, h.input.enabled)
	assert.Equal(t, 1, h.sched.Pending())

	h.play(t, 0)
	require.Len(t, h.summaries, 1)
	assert.Equal(t, 1, h.summaries[0].TrialsCompleted)
	assert.Equal(t, 1, h.summaries[0].Misses)
}

func TestSequencer_Teardown(t *testing.T) {
	h := newHarness(t, delay, models.CueGo)
	require.NoError(t, h.seq.Start(testConfig(4)))
	h.sched.Advance(delay)
	require.True(t, h.display.visible)

	h.seq.Teardown()

	assert.Equal(t, models.PhaseIdle, h.seq.Phase())
	assert.Equal(t, 0, h.sched.Pending())
	assert.False(t, h.input.enabled)
	assert.False(t, h.display.visible)
	assert.Empty(t, h.summaries)

	h.sched.Advance(time.Minute)
	assert.Empty(t, h.agg.Trials())
}

func TestSequencer_NeverMoreThanOneTimer(t *testing.T) {
	cues := []models.Cue{models.CueGo, models.CueNoGo, models.CueNoGo, models.CueGo}
	h := newHarness(t, 700*time.Millisecond, cues...)
	require.NoError(t, h.seq.Start(testConfig(8)))

	reactions := 0
	for i := 0; i < 400 && h.seq.Phase() != models.PhaseFinished; i++ {
		require.LessOrEqual(t, h.sched.Pending(), 1)
		if h.seq.Phase() == models.PhaseAwaitingReaction && i%3 == 0 {
			h.seq.RegisterReaction()
			reactions++
		}
		h.sched.Advance(100 * time.Millisecond)
	}

	require.Len(t, h.summaries, 1)
	s := h.summaries[0]
	assert.Equal(t, 8, s.TrialsCompleted)
	assert.Equal(t, 8, s.CorrectCount+s.ErrorCount)
	assert.Equal(t, 8, h.input.enables)
	assert.Positive(t, reactions)

	for _, trial := range h.agg.Trials() {
		assert.Equal(t, models.Classify(trial.Cue, trial.Reacted), trial.Outcome)
		if trial.Reacted {
			assert.Less(t, trial.ReactionLatency, trial.ReactionDeadline)
		} else {
			assert.Zero(t, trial.ReactionLatency)
		}
	}
}

func TestSequencer_CueMessages(t *testing.T) {
	h := newHarness(t, delay, models.CueNoGo)
	require.NoError(t, h.seq.Start(testConfig(1)))

	assert.Equal(t, []string{MessageStarted, CueMessage(models.CueNoGo)}, h.display.messages)
	assert.Equal(t, []string{"cue:nogo"}, h.display.events)

	h.sched.Advance(delay)
	assert.Equal(t, MessageStimulus, h.display.messages[2])
	assert.Equal(t, []string{"cue:nogo", "stimulus"}, h.display.events)
}
