package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/mathdrill/internal/config"
	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/sched"
	"github.com/verte-zerg/mathdrill/internal/session"
	"github.com/verte-zerg/mathdrill/internal/stats"
	"github.com/verte-zerg/mathdrill/internal/store"
)

type brokenRepo struct {
	*store.Memory
}

func (brokenRepo) LoadSessions(context.Context) ([]model.SessionRecord, error) {
	return nil, errors.New("corrupt")
}

func newTestApp(t *testing.T, repo store.Repository) (*App, *sched.Manual, string, *[]string) {
	t.Helper()
	clock := sched.NewManual(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	path := filepath.Join(t.TempDir(), "config.toml")
	logs := &[]string{}
	a := New(repo, Options{
		ConfigPath: path,
		Scheduler:  clock,
		Logf: func(format string, args ...any) {
			*logs = append(*logs, fmt.Sprintf(format, args...))
		},
	})
	return a, clock, path, logs
}

func TestNewUsesDefaultsWithoutConfig(t *testing.T) {
	a, _, _, logs := newTestApp(t, store.NewMemory())
	assert.Equal(t, model.DefaultSettings(), a.Settings())
	assert.Empty(t, *logs)
}

func TestNewWithCorruptConfigFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[practice\n"), 0o644))
	var logs []string
	a := New(store.NewMemory(), Options{
		ConfigPath: path,
		Scheduler:  sched.NewManual(time.Unix(0, 0)),
		Logf: func(format string, args ...any) {
			logs = append(logs, fmt.Sprintf(format, args...))
		},
	})
	assert.Equal(t, model.DefaultSettings(), a.Settings())
	assert.Len(t, logs, 1)
}

func TestSessionThroughFacade(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemory()
	a, clock, _, _ := newTestApp(t, repo)

	cfg := a.StartSession(ctx, model.Addition, false)
	assert.Equal(t, model.DefaultSettings(), cfg.Settings)
	answer := a.State().Problem.Answer

	clock.Advance(2 * time.Second)
	assert.InDelta(t, 2.0, a.Elapsed(), 1e-9)
	res, err := a.Submit(ctx, fmt.Sprint(answer))
	require.NoError(t, err)
	assert.True(t, res.Correct)

	clock.Advance(time.Second)
	_, err = a.Skip(ctx)
	require.NoError(t, err)

	rec, err := a.EndSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Total)
	assert.Equal(t, 50, rec.Accuracy)
	assert.NotEmpty(t, rec.ID)

	report := a.LoadAnalytics(ctx, stats.ReportConfig{})
	assert.Equal(t, 1, report.Overall.Sessions)
	require.Len(t, report.Samples, 1)
	assert.Equal(t, 2.0, report.Samples[0].Latency)
	assert.False(t, report.Ao5.Valid)

	h := a.LoadHistory(ctx)
	assert.Len(t, h.Sessions, 1)
	assert.Empty(t, h.WrongAnswers)
}

func TestListenReceivesEvents(t *testing.T) {
	ctx := context.Background()
	a, _, _, _ := newTestApp(t, store.NewMemory())
	l := &countingListener{}
	a.Listen(l)
	a.StartSession(ctx, model.Multiplication, false)
	_, err := a.Submit(ctx, "-1")
	require.NoError(t, err)
	assert.Equal(t, 1, l.problems)
	assert.Equal(t, 1, l.resolved)
}

type countingListener struct {
	session.NopListener
	problems int
	resolved int
}

func (l *countingListener) ProblemChanged(model.Problem, session.Phase) { l.problems++ }
func (l *countingListener) AnswerResolved(session.Resolution)           { l.resolved++ }

func TestLoadDegradesOnRepositoryError(t *testing.T) {
	ctx := context.Background()
	repo := brokenRepo{store.NewMemory()}
	require.NoError(t, repo.AppendWrongAnswer(ctx, model.WrongAnswer{ProblemText: "2 + 2", Submitted: 5, Correct: 4}))
	a, _, _, logs := newTestApp(t, repo)

	report := a.LoadAnalytics(ctx, stats.ReportConfig{Mode: model.Addition})
	assert.Zero(t, report.Overall.Sessions)
	assert.False(t, report.Overall.Accuracy.Valid)
	assert.Equal(t, model.Addition, report.Mode)

	h := a.LoadHistory(ctx)
	assert.Empty(t, h.Sessions)
	assert.Len(t, h.WrongAnswers, 1)
	assert.Len(t, *logs, 2)
}

func TestUpdateSettingsIsPartialAndPersisted(t *testing.T) {
	a, _, path, _ := newTestApp(t, store.NewMemory())
	digits := 3
	badLength := 0

	got, err := a.UpdateSettings(config.PracticeConfig{DigitRange: &digits, ChainLength: &badLength})
	require.NoError(t, err)
	want := model.DefaultSettings()
	want.DigitRange = 3
	assert.Equal(t, want, got)

	loaded, err := config.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, want, loaded)

	cfg := a.StartSession(context.Background(), model.Chain, false)
	assert.Equal(t, 3, cfg.Settings.DigitRange)
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemory()
	a, _, path, _ := newTestApp(t, repo)
	streak := 20
	_, err := a.UpdateSettings(config.PracticeConfig{TargetStreak: &streak})
	require.NoError(t, err)
	a.StartSession(ctx, model.Addition, false)
	_, err = a.EndSession(ctx)
	require.NoError(t, err)

	require.NoError(t, a.ClearAll(ctx))
	assert.Equal(t, model.DefaultSettings(), a.Settings())
	sessions, err := repo.LoadSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	loaded, err := config.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), loaded)
}
