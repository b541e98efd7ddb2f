package stats

import (
	"math"
	"time"

	"github.com/verte-zerg/mathdrill/internal/model"
)

// OperationStats aggregates one practice mode across stored history.
type OperationStats struct {
	Kind           model.OperationKind
	Correct        int
	Total          int
	Accuracy       Metric
	Samples        int
	AverageLatency Metric
}

// OverallStats aggregates every stored session and solve sample.
type OverallStats struct {
	Sessions       int
	TotalProblems  int
	Correct        int
	Accuracy       Metric
	AverageLatency Metric
	BestLatency    Metric
}

// AggregateByOperation reports accuracy and sample counts for every kind.
// Kinds without problems report an invalid accuracy rather than 0%.
func AggregateByOperation(sessions []model.SessionRecord, samples []model.SolveSample) []OperationStats {
	byKind := make(map[model.OperationKind]*OperationStats, len(model.Kinds))
	out := make([]OperationStats, len(model.Kinds))
	for i, k := range model.Kinds {
		out[i].Kind = k
		byKind[k] = &out[i]
	}
	latencies := map[model.OperationKind][]float64{}
	for _, s := range sessions {
		if agg, ok := byKind[s.Mode]; ok {
			agg.Correct += s.Correct
			agg.Total += s.Total
		}
	}
	for _, s := range samples {
		if agg, ok := byKind[s.Mode]; ok {
			agg.Samples++
			latencies[s.Mode] = append(latencies[s.Mode], s.Latency)
		}
	}
	for i := range out {
		out[i].Accuracy = MetricOf(Percent(out[i].Correct, out[i].Total))
		out[i].AverageLatency = MetricOf(Mean(latencies[out[i].Kind]))
	}
	return out
}

// Overall sums sessions and samples into all-time totals.
func Overall(sessions []model.SessionRecord, samples []model.SolveSample) OverallStats {
	var o OverallStats
	o.Sessions = len(sessions)
	for _, s := range sessions {
		o.TotalProblems += s.Total
		o.Correct += s.Correct
	}
	o.Accuracy = MetricOf(Percent(o.Correct, o.TotalProblems))
	latencies := Latencies(samples)
	o.AverageLatency = MetricOf(Mean(latencies))
	o.BestLatency = MetricOf(Best(latencies))
	return o
}

// Latencies extracts sample latencies in stored order.
func Latencies(samples []model.SolveSample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Latency
	}
	return out
}

// FilterSamples keeps samples of the given mode. An empty mode keeps all.
func FilterSamples(samples []model.SolveSample, mode model.OperationKind) []model.SolveSample {
	if mode == "" {
		return samples
	}
	var out []model.SolveSample
	for _, s := range samples {
		if s.Mode == mode {
			out = append(out, s)
		}
	}
	return out
}

// FilterSessions keeps sessions of the given mode. An empty mode keeps all.
func FilterSessions(sessions []model.SessionRecord, mode model.OperationKind) []model.SessionRecord {
	if mode == "" {
		return sessions
	}
	var out []model.SessionRecord
	for _, s := range sessions {
		if s.Mode == mode {
			out = append(out, s)
		}
	}
	return out
}

// Summarize builds the record of a finished session. latencies holds the
// correct-answer latencies in solve order.
func Summarize(mode model.OperationKind, correct, total int, latencies []float64, bestStreak int, at time.Time) model.SessionRecord {
	rec := model.SessionRecord{
		Mode:       mode,
		Correct:    correct,
		Total:      total,
		Latencies:  append([]float64{}, latencies...),
		BestStreak: bestStreak,
		Timestamp:  at,
	}
	if total > 0 {
		rec.Accuracy = int(math.Round(float64(correct) / float64(total) * 100))
	}
	if avg, ok := Mean(latencies); ok {
		rec.AverageLatency = avg
	}
	if best, ok := Best(latencies); ok {
		rec.BestLatency = best
	}
	return rec
}
