package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionConfig holds the parameters of one test session.
type SessionConfig struct {
	TotalTrials         int           `mapstructure:"total_trials" yaml:"total_trials"`
	ReactionDeadline    time.Duration `mapstructure:"reaction_deadline" yaml:"reaction_deadline"`
	PreStimulusDelayMin time.Duration `mapstructure:"pre_stimulus_delay_min" yaml:"pre_stimulus_delay_min"`
	PreStimulusDelayMax time.Duration `mapstructure:"pre_stimulus_delay_max" yaml:"pre_stimulus_delay_max"`
	InterTrialPause     time.Duration `mapstructure:"inter_trial_pause" yaml:"inter_trial_pause"`
}

// DefaultSessionConfig returns the classic ten-trial setup.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		TotalTrials:         10,
		ReactionDeadline:    1500 * time.Millisecond,
		PreStimulusDelayMin: 500 * time.Millisecond,
		PreStimulusDelayMax: 2 * time.Second,
		InterTrialPause:     500 * time.Millisecond,
	}
}

// Validate checks that a session can be run with these parameters.
func (c SessionConfig) Validate() error {
	switch {
	case c.TotalTrials <= 0:
		return &ConfigurationError{Field: "total_trials", Reason: fmt.Sprintf("must be positive, got %d", c.TotalTrials)}
	case c.ReactionDeadline <= 0:
		return &ConfigurationError{Field: "reaction_deadline", Reason: fmt.Sprintf("must be positive, got %s", c.ReactionDeadline)}
	case c.PreStimulusDelayMin < 0:
		return &ConfigurationError{Field: "pre_stimulus_delay_min", Reason: fmt.Sprintf("must not be negative, got %s", c.PreStimulusDelayMin)}
	case c.PreStimulusDelayMax < c.PreStimulusDelayMin:
		return &ConfigurationError{Field: "pre_stimulus_delay_max", Reason: fmt.Sprintf("%s is below the minimum %s", c.PreStimulusDelayMax, c.PreStimulusDelayMin)}
	case c.InterTrialPause < 0:
		return &ConfigurationError{Field: "inter_trial_pause", Reason: fmt.Sprintf("must not be negative, got %s", c.InterTrialPause)}
	}
	return nil
}

// ConfigurationError reports invalid session parameters. A session is never
// started with a config that produced one.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid session configuration: %s %s", e.Field, e.Reason)
}

// SessionSummary holds the processed results of a session.
type SessionSummary struct {
	TotalConfigured        int           `yaml:"total_configured"`
	TrialsCompleted        int           `yaml:"trials_completed"`
	CorrectCount           int           `yaml:"correct_count"`
	ErrorCount             int           `yaml:"error_count"`
	Hits                   int           `yaml:"hits"`
	Misses                 int           `yaml:"misses"`
	CorrectWithholds       int           `yaml:"correct_withholds"`
	FalseAlarms            int           `yaml:"false_alarms"`
	AverageReactionLatency time.Duration `yaml:"average_reaction_latency"`
	CompositeScore         float64       `yaml:"composite_score"` // PV, in seconds
	EndedEarly             bool          `yaml:"ended_early"`
}

// SessionRecord is everything known about one finished session. It backs the
// single-session exports and is never stored across sessions.
type SessionRecord struct {
	ID        uuid.UUID      `yaml:"id"`
	StartedAt time.Time      `yaml:"started_at"`
	Config    SessionConfig  `yaml:"config"`
	Trials    []Trial        `yaml:"trials"`
	Summary   SessionSummary `yaml:"summary"`
}
