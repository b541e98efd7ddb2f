package stats

import (
	"context"

	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/store"
)

// ReportConfig filters and sizes a report.
type ReportConfig struct {
	// Mode restricts the report to one practice mode; empty means all.
	Mode        model.OperationKind
	CurveWindow int
}

// Report contains precomputed data for analytics rendering.
type Report struct {
	Mode         model.OperationKind
	Sessions     []model.SessionRecord
	Samples      []model.SolveSample
	WrongAnswers []model.WrongAnswer
	Overall      OverallStats
	Operations   []OperationStats
	Ao5          Metric
	Ao12         Metric
	CurveWindow  int
}

// BuildReport loads history and computes analytics.
func BuildReport(ctx context.Context, repo store.Repository, cfg ReportConfig) (Report, error) {
	sessions, err := repo.LoadSessions(ctx)
	if err != nil {
		return Report{}, err
	}
	samples, err := repo.LoadSolveSamples(ctx)
	if err != nil {
		return Report{}, err
	}
	wrong, err := repo.LoadWrongAnswers(ctx)
	if err != nil {
		return Report{}, err
	}
	return NewReport(sessions, samples, wrong, cfg), nil
}

// NewReport computes analytics over already loaded history.
func NewReport(sessions []model.SessionRecord, samples []model.SolveSample, wrong []model.WrongAnswer, cfg ReportConfig) Report {
	operations := AggregateByOperation(sessions, samples)
	sessions = FilterSessions(sessions, cfg.Mode)
	samples = FilterSamples(samples, cfg.Mode)
	latencies := Latencies(samples)
	return Report{
		Mode:         cfg.Mode,
		Sessions:     sessions,
		Samples:      samples,
		WrongAnswers: wrong,
		Overall:      Overall(sessions, samples),
		Operations:   operations,
		Ao5:          MetricOf(AverageOfN(latencies, 5)),
		Ao12:         MetricOf(AverageOfN(latencies, 12)),
		CurveWindow:  cfg.CurveWindow,
	}
}
