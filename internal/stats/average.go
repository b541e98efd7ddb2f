package stats

import (
	"fmt"
	"math"
	"sort"
)

// Metric is an optional statistic. Valid is false when there is no data.
type Metric struct {
	Value float64
	Valid bool
}

// MetricOf builds a Metric from a value/ok pair.
func MetricOf(v float64, ok bool) Metric {
	if !ok {
		return Metric{}
	}
	return Metric{Value: v, Valid: true}
}

// String renders the metric as seconds or "no data".
func (m Metric) String() string {
	if !m.Valid {
		return noData
	}
	return fmt.Sprintf("%.2fs", m.Value)
}

// Percent renders the metric as a percentage with one decimal or "no data".
func (m Metric) Percent() string {
	if !m.Valid {
		return noData
	}
	return fmt.Sprintf("%.1f%%", m.Value)
}

// AverageOfN returns the trimmed mean of the most recent n latencies: the
// single fastest and slowest of those n are discarded. It reports false when
// fewer than n latencies exist or n < 3.
func AverageOfN(latencies []float64, n int) (float64, bool) {
	if n < 3 || len(latencies) < n {
		return 0, false
	}
	recent := make([]float64, n)
	copy(recent, latencies[len(latencies)-n:])
	sort.Float64s(recent)
	mean, _ := Mean(recent[1 : n-1])
	return mean, true
}

// Mean returns the arithmetic mean, false for an empty slice.
func Mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

// Best returns the minimum value, false for an empty slice.
func Best(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	best := values[0]
	for _, v := range values[1:] {
		if v < best {
			best = v
		}
	}
	return best, true
}

// Percent returns part/whole*100 rounded to one decimal, false when whole is 0.
func Percent(part, whole int) (float64, bool) {
	if whole <= 0 {
		return 0, false
	}
	return math.Round(float64(part)/float64(whole)*1000) / 10, true
}
