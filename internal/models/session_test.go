package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		cue     Cue
		reacted bool
		want    Outcome
		correct bool
	}{
		{CueGo, true, OutcomeHit, true},
		{CueGo, false, OutcomeMiss, false},
		{CueNoGo, false, OutcomeCorrectWithhold, true},
		{CueNoGo, true, OutcomeFalseAlarm, false},
	}

	for _, tt := range tests {
		got := Classify(tt.cue, tt.reacted)
		assert.Equal(t, tt.want, got, "cue=%s reacted=%v", tt.cue, tt.reacted)
		assert.Equal(t, tt.correct, got.Correct(), "outcome %s", got)
	}
}

func TestSessionConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultSessionConfig().Validate())

	zeroDelay := DefaultSessionConfig()
	zeroDelay.PreStimulusDelayMin = 0
	zeroDelay.PreStimulusDelayMax = 0
	zeroDelay.InterTrialPause = 0
	assert.NoError(t, zeroDelay.Validate())

	tests := []struct {
		name   string
		mutate func(*SessionConfig)
		field  string
	}{
		{"zero trials", func(c *SessionConfig) { c.TotalTrials = 0 }, "total_trials"},
		{"negative trials", func(c *SessionConfig) { c.TotalTrials = -3 }, "total_trials"},
		{"zero deadline", func(c *SessionConfig) { c.ReactionDeadline = 0 }, "reaction_deadline"},
		{"negative min delay", func(c *SessionConfig) { c.PreStimulusDelayMin = -time.Millisecond }, "pre_stimulus_delay_min"},
		{"inverted range", func(c *SessionConfig) { c.PreStimulusDelayMax = 100 * time.Millisecond }, "pre_stimulus_delay_max"},
		{"negative pause", func(c *SessionConfig) { c.InterTrialPause = -time.Second }, "inter_trial_pause"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSessionConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
			assert.Contains(t, err.Error(), "invalid session configuration")
		})
	}
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "green", CueGo.Color())
	assert.Equal(t, "red", CueNoGo.Color())
	assert.Equal(t, "false_alarm", OutcomeFalseAlarm.String())
	assert.Equal(t, "awaiting_reaction", PhaseAwaitingReaction.String())
	assert.False(t, OutcomeNone.Correct())
}
