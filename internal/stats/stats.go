// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/mathdrill/internal/model"
)

const (
	sparkChars          = " .:-=+*#%@"
	terminalWidthBackup = 80
	minCurveWidth       = 10
	timestampLayout     = "2006-01-02 15:04"
)

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Resample reduces values to at most width points by picking evenly spaced entries.
func Resample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return values
	}
	out := make([]float64, width)
	step := float64(len(values)-1) / float64(width-1)
	for i := range out {
		out[i] = values[int(math.Round(float64(i)*step))]
	}
	return out
}

// TerminalWidth returns the stdout width, or 80 when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// RenderSummary prints the all-time summary of a report.
func RenderSummary(w io.Writer, r Report) error {
	title := "Summary"
	if r.Mode != "" {
		title = fmt.Sprintf("Summary (%s)", r.Mode)
	}
	lines := []string{
		title,
		fmt.Sprintf("Sessions: %d", r.Overall.Sessions),
		fmt.Sprintf("Problems: %d (%d correct)", r.Overall.TotalProblems, r.Overall.Correct),
		fmt.Sprintf("Accuracy: %s", r.Overall.Accuracy.Percent()),
		fmt.Sprintf("Avg time: %s", r.Overall.AverageLatency),
		fmt.Sprintf("Best time: %s", r.Overall.BestLatency),
		fmt.Sprintf("Ao5: %s", r.Ao5),
		fmt.Sprintf("Ao12: %s", r.Ao12),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderOperationTable prints per-mode aggregates.
func RenderOperationTable(w io.Writer, ops []OperationStats) error {
	if _, err := fmt.Fprintln(w, "Per-Operation"); err != nil {
		return err
	}
	headers := []string{"Mode", "Accuracy", "Correct", "Total", "Samples", "Avg Time"}
	rows := make([][]string, 0, len(ops))
	for _, op := range ops {
		rows = append(rows, []string{
			string(op.Kind),
			op.Accuracy.Percent(),
			fmt.Sprintf("%d", op.Correct),
			fmt.Sprintf("%d", op.Total),
			fmt.Sprintf("%d", op.Samples),
			op.AverageLatency.String(),
		})
	}
	return writeTable(w, headers, rows)
}

// RenderSessions prints the last sessions, newest first. last <= 0 prints all.
func RenderSessions(w io.Writer, sessions []model.SessionRecord, last int) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Sessions"); err != nil {
		return err
	}
	headers := []string{"When", "Mode", "Score", "Accuracy", "Avg Time", "Best Time", "Streak"}
	recent := newestFirst(sessions, last)
	rows := make([][]string, 0, len(recent))
	for _, s := range recent {
		rows = append(rows, []string{
			s.Timestamp.Local().Format(timestampLayout),
			string(s.Mode),
			fmt.Sprintf("%d/%d", s.Correct, s.Total),
			fmt.Sprintf("%d%%", s.Accuracy),
			MetricOf(s.AverageLatency, s.HasLatency()).String(),
			MetricOf(s.BestLatency, s.HasLatency()).String(),
			fmt.Sprintf("%d", s.BestStreak),
		})
	}
	return writeTable(w, headers, rows)
}

// RenderWrongAnswers prints the last wrong answers, newest first.
func RenderWrongAnswers(w io.Writer, wrong []model.WrongAnswer, last int) error {
	if len(wrong) == 0 {
		_, err := fmt.Fprintln(w, "No wrong answers recorded.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Wrong Answers"); err != nil {
		return err
	}
	headers := []string{"When", "Problem", "Yours", "Correct", "Kind"}
	recent := newestFirst(wrong, last)
	rows := make([][]string, 0, len(recent))
	for _, r := range recent {
		rows = append(rows, []string{
			r.Timestamp.Local().Format(timestampLayout),
			r.ProblemText,
			fmt.Sprintf("%d", r.Submitted),
			fmt.Sprintf("%d", r.Correct),
			string(r.Kind),
		})
	}
	return writeTable(w, headers, rows)
}

// RenderCurve prints a smoothed latency sparkline sized to totalWidth.
func RenderCurve(w io.Writer, samples []model.SolveSample, window, totalWidth int) error {
	if len(samples) == 0 {
		return nil
	}
	values := MovingAverage(Latencies(samples), window)
	width := max(totalWidth-2, minCurveWidth)
	values = Resample(values, width)
	lo, _ := Best(values)
	hi := values[0]
	for _, v := range values {
		hi = math.Max(hi, v)
	}
	lines := []string{
		fmt.Sprintf("Latency Trend (window %d)", max(window, 1)),
		"[" + Sparkline(values) + "]",
		fmt.Sprintf("min %.2fs  max %.2fs  samples %d", lo, hi, len(samples)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(w io.Writer, headers []string, rows [][]string) error {
	for _, line := range formatTable(headers, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func newestFirst[T any](items []T, last int) []T {
	n := len(items)
	if last > 0 && last < n {
		n = last
	}
	out := make([]T, 0, n)
	for i := len(items) - 1; i >= len(items)-n; i-- {
		out = append(out, items[i])
	}
	return out
}
