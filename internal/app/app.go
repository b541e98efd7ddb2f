// Package app is the entry point used by the screens: it owns the settings,
// the repository and the session controller.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/verte-zerg/mathdrill/internal/config"
	"github.com/verte-zerg/mathdrill/internal/generator"
	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/sched"
	"github.com/verte-zerg/mathdrill/internal/session"
	"github.com/verte-zerg/mathdrill/internal/stats"
	"github.com/verte-zerg/mathdrill/internal/store"
)

// Options configures an App. Zero values select defaults.
type Options struct {
	ConfigPath     string
	Scheduler      sched.Scheduler
	Generator      *generator.Generator
	Listener       session.Listener
	FeedbackDelay  time.Duration
	RevealInterval time.Duration
	NewID          func() string
	Logf           func(format string, args ...any)
}

// History is the stored session and wrong-answer log.
type History struct {
	Sessions     []model.SessionRecord
	WrongAnswers []model.WrongAnswer
}

// App ties settings, persistence and the session controller together.
type App struct {
	repo       store.Repository
	configPath string
	logf       func(format string, args ...any)
	settings   model.Settings
	ctrl       *session.Controller
}

// New loads settings from opts.ConfigPath and returns a ready App. Settings
// that cannot be read fall back to the defaults.
func New(repo store.Repository, opts Options) *App {
	if opts.ConfigPath == "" {
		opts.ConfigPath = config.DefaultConfigPath()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = sched.NewLoop()
	}
	if opts.Generator == nil {
		opts.Generator = generator.New()
	}
	if opts.Logf == nil {
		opts.Logf = func(string, ...any) {}
	}
	settings, err := config.LoadSettings(opts.ConfigPath)
	if err != nil {
		opts.Logf("failed to load settings, using defaults: %v\n", err)
	}
	a := &App{
		repo:       repo,
		configPath: opts.ConfigPath,
		logf:       opts.Logf,
		settings:   settings,
	}
	a.ctrl = session.NewController(opts.Scheduler, opts.Generator, stats.NewRecorder(repo, opts.Scheduler.Now), session.Options{
		FeedbackDelay:  opts.FeedbackDelay,
		RevealInterval: opts.RevealInterval,
		Listener:       opts.Listener,
		NewID:          opts.NewID,
		Logf: func(format string, args ...any) {
			opts.Logf(format+"\n", args...)
		},
	})
	return a
}

// Listen routes session events to l.
func (a *App) Listen(l session.Listener) {
	a.ctrl.SetListener(l)
}

// Settings returns the current settings.
func (a *App) Settings() model.Settings {
	return a.settings
}

// StartSession begins a practice run in mode with the current settings.
func (a *App) StartSession(ctx context.Context, mode model.OperationKind, timed bool) model.Config {
	cfg := model.Config{Mode: mode, Settings: a.settings, Timed: timed}
	a.ctrl.Start(ctx, cfg)
	return cfg
}

// Submit forwards an answer to the running session.
func (a *App) Submit(ctx context.Context, raw string) (session.Resolution, error) {
	return a.ctrl.Submit(ctx, raw)
}

// Skip gives up on the current problem.
func (a *App) Skip(ctx context.Context) (session.Resolution, error) {
	return a.ctrl.Skip(ctx)
}

// EndSession stops the running session and returns its saved summary.
func (a *App) EndSession(ctx context.Context) (model.SessionRecord, error) {
	return a.ctrl.End(ctx)
}

// State returns a snapshot of the running session.
func (a *App) State() session.State {
	return a.ctrl.State()
}

// Elapsed returns the seconds spent on the current problem.
func (a *App) Elapsed() float64 {
	return a.ctrl.Elapsed()
}

// LoadAnalytics builds the analytics report. Unreadable history yields an
// empty report.
func (a *App) LoadAnalytics(ctx context.Context, cfg stats.ReportConfig) stats.Report {
	report, err := stats.BuildReport(ctx, a.repo, cfg)
	if err != nil {
		a.logf("failed to load analytics: %v\n", err)
		return stats.NewReport(nil, nil, nil, cfg)
	}
	return report
}

// LoadHistory returns the stored sessions and wrong answers, oldest first.
func (a *App) LoadHistory(ctx context.Context) History {
	var h History
	sessions, err := a.repo.LoadSessions(ctx)
	if err != nil {
		a.logf("failed to load sessions: %v\n", err)
	} else {
		h.Sessions = sessions
	}
	wrong, err := a.repo.LoadWrongAnswers(ctx)
	if err != nil {
		a.logf("failed to load wrong answers: %v\n", err)
	} else {
		h.WrongAnswers = wrong
	}
	return h
}

// UpdateSettings applies the set fields of p and persists the result.
// Invalid values are ignored. The new settings take effect on the next session.
func (a *App) UpdateSettings(p config.PracticeConfig) (model.Settings, error) {
	a.settings = config.Apply(a.settings, p)
	if err := config.SaveSettings(a.configPath, a.settings); err != nil {
		return a.settings, fmt.Errorf("failed to save settings: %w", err)
	}
	return a.settings, nil
}

// ClearAll deletes every stored record and resets the settings to defaults.
func (a *App) ClearAll(ctx context.Context) error {
	if err := a.repo.ClearAll(ctx); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	a.settings = model.DefaultSettings()
	if err := config.ResetSettings(a.configPath); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	return nil
}
