package experiment

import (
	"github.com/mahakarkout/AttentionTest/internal/models"
)

// Display renders what the subject sees. Calls are fire-and-forget.
type Display interface {
	ShowCue(cue models.Cue)
	ShowStimulus()
	HideStimulus()
	ShowMessage(text string)
}

// Input is the reaction capability of the front end. While enabled, the
// front end calls Sequencer.RegisterReaction on the sequencer's goroutine
// when the subject reacts.
type Input interface {
	EnableReaction()
	DisableReaction()
}

// Recorder receives every trial the moment its outcome is assigned.
type Recorder interface {
	Record(trial models.Trial)
	Summarize(totalConfigured int) models.SessionSummary
	Reset()
}

// FinishFunc is called once per session with its summary.
type FinishFunc func(summary models.SessionSummary)
