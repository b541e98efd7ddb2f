package statsui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/mathdrill/internal/app"
	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/sched"
	"github.com/verte-zerg/mathdrill/internal/stats"
	"github.com/verte-zerg/mathdrill/internal/store"
)

func newTestModel(t *testing.T) (*Model, *store.Memory) {
	t.Helper()
	ctx := context.Background()
	repo := store.NewMemory()
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.AppendSession(ctx, stats.Summarize(model.Addition, 3, 4, []float64{1, 2, 3}, 2, at)))
	for _, l := range []float64{1, 2, 3} {
		require.NoError(t, repo.AppendSolveSample(ctx, model.SolveSample{Latency: l, Mode: model.Addition, Timestamp: at}))
	}
	require.NoError(t, repo.AppendWrongAnswer(ctx, model.WrongAnswer{ProblemText: "4 + 5", Submitted: 8, Correct: 9, Kind: model.Addition, Timestamp: at}))

	a := app.New(repo, app.Options{
		ConfigPath: filepath.Join(t.TempDir(), "config.toml"),
		Scheduler:  sched.NewManual(at),
	})
	m := NewModel(a, stats.ReportConfig{CurveWindow: 5})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, repo
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestOverviewShowsCardsAndCurve(t *testing.T) {
	m, _ := newTestModel(t)
	view := m.View()
	for _, want := range []string{"Overview", "Sessions", "75.0%", "Ao5", "Latency Trend (window 5)", "mode=all"} {
		assert.Contains(t, view, want)
	}
}

func TestTabNavigationWraps(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, tabMistakes, m.activeTab)
	assert.Contains(t, m.View(), "4 + 5")

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, tabOperations, m.activeTab)
	assert.True(t, m.opsTable.Focused())
	assert.Contains(t, m.View(), "multiplication")
}

func TestFilterKeysRefreshReport(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(runeKey("="))
	assert.Equal(t, 10, m.cfg.CurveWindow)
	m.Update(runeKey("-"))
	m.Update(runeKey("-"))
	assert.Equal(t, 1, m.cfg.CurveWindow)
	assert.Equal(t, 1, m.report.CurveWindow)

	m.Update(runeKey("m"))
	assert.Equal(t, model.Addition, m.cfg.Mode)
	assert.Len(t, m.report.Samples, 3)
	m.Update(runeKey("m"))
	assert.Equal(t, model.Subtraction, m.cfg.Mode)
	assert.Empty(t, m.report.Samples)
	assert.Contains(t, m.View(), "mode=subtraction")
}

func TestClearAllNeedsConfirmation(t *testing.T) {
	ctx := context.Background()
	m, repo := newTestModel(t)

	m.Update(runeKey("x"))
	assert.Contains(t, m.View(), "Clear all history?")
	m.Update(runeKey("n"))
	sessions, err := repo.LoadSessions(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)

	m.Update(runeKey("x"))
	m.Update(runeKey("y"))
	assert.False(t, m.confirmClear)
	sessions, err = repo.LoadSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
	assert.Contains(t, m.View(), "History cleared")
	assert.Contains(t, m.View(), "No sessions found.")
}

func TestHistoryRowsNewestFirst(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local)
	sessions := []model.SessionRecord{
		stats.Summarize(model.Addition, 1, 1, []float64{1}, 1, at),
		stats.Summarize(model.Chain, 0, 2, nil, 0, at.Add(time.Hour)),
	}
	rows := historyRows(sessions)
	require.Len(t, rows, 2)
	assert.Equal(t, "chain", rows[0][1])
	assert.Equal(t, "0/2", rows[0][2])
	assert.Equal(t, "no data", rows[0][4])
	assert.Equal(t, "1.00s", rows[1][4])
}

func TestCurveWindowSteps(t *testing.T) {
	cases := []struct {
		in, next, prev int
	}{
		{1, 5, 1},
		{5, 10, 1},
		{7, 10, 5},
		{10, 15, 5},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.next, nextCurveWindow(tc.in), "next %d", tc.in)
		assert.Equal(t, tc.prev, prevCurveWindow(tc.in), "prev %d", tc.in)
	}
}

func TestFitLinesAndTruncate(t *testing.T) {
	out := fitLines("ab\ncd\nef", 4, 2)
	assert.Equal(t, "ab  \ncd  ", out)
	assert.Equal(t, "abc...", truncateLine("abcdefghij", 6))
	assert.Equal(t, "ab", truncateLine("ab", 6))
	assert.False(t, strings.Contains(fitLines("x", 3, 3), "\t"))
}
