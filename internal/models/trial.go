package models

import (
	"time"
)

// Cue is the pre-signal shown before the neutral stimulus.
type Cue int

const (
	CueGo   Cue = iota // green light: react to the white signal
	CueNoGo            // red light: withhold
)

func (c Cue) String() string {
	switch c {
	case CueGo:
		return "go"
	case CueNoGo:
		return "nogo"
	default:
		return "unknown"
	}
}

// Color is the light colour the cue is presented with.
func (c Cue) Color() string {
	if c == CueGo {
		return "green"
	}
	return "red"
}

func (c Cue) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Outcome is the signal-detection class of a finished trial.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeHit
	OutcomeMiss
	OutcomeCorrectWithhold
	OutcomeFalseAlarm
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHit:
		return "hit"
	case OutcomeMiss:
		return "miss"
	case OutcomeCorrectWithhold:
		return "correct_withhold"
	case OutcomeFalseAlarm:
		return "false_alarm"
	default:
		return "none"
	}
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Correct reports whether the outcome counts as a correct reaction.
func (o Outcome) Correct() bool {
	return o == OutcomeHit || o == OutcomeCorrectWithhold
}

// Classify maps a cue and whether the subject reacted to the trial outcome.
// Go trials require a reaction, NoGo trials require withholding.
func Classify(cue Cue, reacted bool) Outcome {
	switch {
	case cue == CueGo && reacted:
		return OutcomeHit
	case cue == CueGo:
		return OutcomeMiss
	case reacted:
		return OutcomeFalseAlarm
	default:
		return OutcomeCorrectWithhold
	}
}

// Phase is the state of the trial loop.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingCue
	PhaseAwaitingReaction
	PhaseInterTrialPause
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitingCue:
		return "awaiting_cue"
	case PhaseAwaitingReaction:
		return "awaiting_reaction"
	case PhaseInterTrialPause:
		return "inter_trial_pause"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Trial is one cue-response episode. Once Outcome is set the trial is
// handed out by value and never changed again.
type Trial struct {
	Index            int           `yaml:"index"`
	Cue              Cue           `yaml:"cue"`
	PreStimulusDelay time.Duration `yaml:"pre_stimulus_delay"`
	ReactionDeadline time.Duration `yaml:"reaction_deadline"`
	StimulusOnset    time.Time     `yaml:"stimulus_onset"`
	Reacted          bool          `yaml:"reacted"`
	ReactionLatency  time.Duration `yaml:"reaction_latency,omitempty"` // only set when Reacted
	Outcome          Outcome       `yaml:"outcome"`
}
