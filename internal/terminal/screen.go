// Package terminal is a text front end for the attention switching test.
package terminal

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mahakarkout/AttentionTest/internal/metrics"
	"github.com/mahakarkout/AttentionTest/internal/models"
)

const (
	ansiReset = "\033[0m"
	ansiGreen = "\033[1;32m"
	ansiRed   = "\033[1;31m"
	ansiWhite = "\033[1;97m"
	ansiDim   = "\033[2m"
)

const Instructions = `Welcome to the Attention Switching Experiment!

Instructions:
- A GREEN or RED light will appear.
- If the light is GREEN, press Enter as quickly as you can once the WHITE light appears.
- If the light is RED, do NOT press Enter when the WHITE light appears.
- Your accuracy and speed will be measured.
- Type q and press Enter at any time to end the experiment early.`

// Screen renders the test as coloured lines of text.
type Screen struct {
	w       io.Writer
	p       *message.Printer
	colored bool
}

// NewScreen draws on w. colored enables ANSI colours.
func NewScreen(w io.Writer, colored bool) *Screen {
	return &Screen{w: w, p: message.NewPrinter(language.English), colored: colored}
}

func (s *Screen) paint(color, text string) string {
	if !s.colored {
		return text
	}
	return color + text + ansiReset
}

func (s *Screen) ShowCue(cue models.Cue) {
	color := ansiRed
	if cue == models.CueGo {
		color = ansiGreen
	}
	fmt.Fprintf(s.w, "\n   %s\n", s.paint(color, "( ● ) "+strings.ToUpper(cue.Color())))
}

func (s *Screen) ShowStimulus() {
	fmt.Fprintf(s.w, "   %s\n", s.paint(ansiWhite, "( ● ) WHITE"))
}

func (s *Screen) HideStimulus() {
	fmt.Fprintf(s.w, "   %s\n", s.paint(ansiDim, "( · )"))
}

func (s *Screen) ShowMessage(text string) {
	fmt.Fprintf(s.w, "%s\n", text)
}

func (s *Screen) ShowInstructions() {
	fmt.Fprintf(s.w, "%s\n\n", Instructions)
}

// ShowPrompt prints a line without a trailing newline.
func (s *Screen) ShowPrompt(text string) {
	fmt.Fprintf(s.w, "%s ", text)
}

// ShowSummary prints the results table.
func (s *Screen) ShowSummary(summary models.SessionSummary) {
	rows := []struct {
		label string
		value string
	}{
		{"Number of Correct Reactions:", s.p.Sprintf("%d", summary.CorrectCount)},
		{"Number of Errors:", s.p.Sprintf("%d", summary.ErrorCount)},
		{"Average Reaction Time (seconds):", s.p.Sprintf("%.2f", summary.AverageReactionLatency.Seconds())},
		{"Switching Attention Score (PV):", s.p.Sprintf("%.2f", summary.CompositeScore)},
	}

	fmt.Fprintln(s.w)
	for _, row := range rows {
		fmt.Fprintf(s.w, "  %-34s %8s\n", row.label, row.value)
	}
	fmt.Fprintf(s.w, "  %s\n\n", s.paint(ansiDim, s.p.Sprintf(
		"%d of %d trials: %d hits, %d misses, %d correct withholds, %d false alarms",
		summary.TrialsCompleted, summary.TotalConfigured,
		summary.Hits, summary.Misses, summary.CorrectWithholds, summary.FalseAlarms,
	)))
}

// ShowProfile prints the per-cue breakdown below the summary.
func (s *Screen) ShowProfile(p metrics.Profile) {
	fmt.Fprintf(s.w, "  %s\n", s.p.Sprintf("Go trials: %d, detection %.0f%%, omission %.0f%%", p.GoTrials, p.DetectionRate*100, p.OmissionRate*100))
	fmt.Fprintf(s.w, "  %s\n", s.p.Sprintf("NoGo trials: %d, commission %.0f%%", p.NoGoTrials, p.CommissionRate*100))
	fmt.Fprintf(s.w, "  %s\n\n", s.p.Sprintf("Reaction time SD (seconds): %.2f", p.LatencySD.Seconds()))
}
