package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/mahakarkout/AttentionTest/internal/metrics"
	"github.com/mahakarkout/AttentionTest/internal/models"
)

// echarts renders "-" as a gap in the series.
const emptyValue = "-"

// LatencyChart builds a per-trial reaction latency chart for one session.
// Hits and false alarms are separate series; trials without a reaction are
// gaps.
func LatencyChart(rec models.SessionRecord) *charts.Bar {
	profile := metrics.Describe(rec.Trials)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Reaction Latency per Trial",
			Subtitle: fmt.Sprintf("PV %.2f · %d correct, %d errors · avg %.2fs ± %.2fs\ndetection %.0f%% · commission %.0f%%",
				rec.Summary.CompositeScore,
				rec.Summary.CorrectCount,
				rec.Summary.ErrorCount,
				rec.Summary.AverageReactionLatency.Seconds(),
				profile.LatencySD.Seconds(),
				profile.DetectionRate*100,
				profile.CommissionRate*100,
			),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "trial",
			Type: "category",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "ms",
			Type: "value",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	labels := make([]string, 0, len(rec.Trials))
	hits := make([]opts.BarData, 0, len(rec.Trials))
	falseAlarms := make([]opts.BarData, 0, len(rec.Trials))
	deadlines := make([]opts.LineData, 0, len(rec.Trials))

	for _, trial := range rec.Trials {
		labels = append(labels, strconv.Itoa(trial.Index))

		hit, fa := opts.BarData{Value: emptyValue}, opts.BarData{Value: emptyValue}
		switch trial.Outcome {
		case models.OutcomeHit:
			hit.Value = trial.ReactionLatency.Milliseconds()
		case models.OutcomeFalseAlarm:
			fa.Value = trial.ReactionLatency.Milliseconds()
		}
		hits = append(hits, hit)
		falseAlarms = append(falseAlarms, fa)
		deadlines = append(deadlines, opts.LineData{Value: trial.ReactionDeadline.Milliseconds()})
	}

	bar.SetXAxis(labels).
		AddSeries("Hit", hits, charts.WithItemStyleOpts(opts.ItemStyle{Color: "#2e9e44"})).
		AddSeries("False alarm", falseAlarms, charts.WithItemStyleOpts(opts.ItemStyle{Color: "#d64541"}))

	deadline := charts.NewLine()
	deadline.SetXAxis(labels).
		AddSeries("Deadline", deadlines, charts.WithLineStyleOpts(opts.LineStyle{Width: 2, Type: "dashed"}))
	bar.Overlap(deadline)

	return bar
}

// RenderLatencyChart writes the chart as a standalone HTML page.
func RenderLatencyChart(w io.Writer, rec models.SessionRecord) error {
	return LatencyChart(rec).Render(w)
}
