// Package main provides the CLI entrypoint for mathdrill.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/mathdrill/internal/app"
	"github.com/verte-zerg/mathdrill/internal/config"
	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/sched"
	"github.com/verte-zerg/mathdrill/internal/stats"
	"github.com/verte-zerg/mathdrill/internal/statsui"
	"github.com/verte-zerg/mathdrill/internal/store"
	"github.com/verte-zerg/mathdrill/internal/tui"
)

const (
	defaultMode        = string(model.Addition)
	defaultCurveWindow = 20
	defaultHistoryLast = 10
)

var (
	dbPath string

	practiceMode  string
	practiceTimed bool

	statsMode        string
	statsCurveWindow int
	statsPlain       bool

	historyLast int

	settingsDigits       int
	settingsChainLength  int
	settingsTargetTime   float64
	settingsTargetStreak int

	resetYes bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mathdrill",
		Short:         "TUI mental arithmetic trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: $"+config.DBEnvVar+" or XDG data dir)")
	rootCmd.Flags().StringVar(&practiceMode, "mode", defaultMode, "practice mode ("+kindList()+")")
	rootCmd.Flags().BoolVar(&practiceTimed, "timed", false, "limit each problem to the target time")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newResetCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg := loadFileConfig(config.DefaultConfigPath())
	applyStringConfig(cmd, "mode", &practiceMode, fileCfg.Practice.Mode)
	applyBoolConfig(cmd, "timed", &practiceTimed, fileCfg.Practice.Timed)

	mode, err := parseMode(practiceMode)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	loop := sched.NewLoop()
	defer loop.Close()

	a := app.New(st, app.Options{Scheduler: loop, Logf: logErrf})
	m := tui.NewModel(a, loop, mode, practiceTimed, recentLatencies(context.Background(), a))
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// loadFileConfig falls back to an empty config when the file is unreadable.
func loadFileConfig(path string) config.FileConfig {
	fileCfg, err := config.LoadConfig(path)
	if err != nil {
		logErrf("failed to load config, using defaults: %v\n", err)
		return config.FileConfig{}
	}
	return fileCfg
}

// recentLatencies seeds the practice footer. Ao5/Ao12 there cover every mode.
func recentLatencies(ctx context.Context, a *app.App) []float64 {
	return stats.Latencies(a.LoadAnalytics(ctx, stats.ReportConfig{}).Samples)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsMode, "mode", "", "mode filter")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg := stats.ReportConfig{CurveWindow: statsCurveWindow}
	if statsMode != "" {
		mode, err := parseMode(statsMode)
		if err != nil {
			return err
		}
		cfg.Mode = mode
	}
	if cfg.CurveWindow <= 0 {
		return fmt.Errorf("--curve-window must be > 0")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	a := app.New(st, app.Options{Logf: logErrf})
	if statsPlain {
		report := a.LoadAnalytics(context.Background(), cfg)
		return writePlainReport(cmd.OutOrStdout(), report, stats.TerminalWidth())
	}

	program := tea.NewProgram(statsui.NewModel(a, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func writePlainReport(w io.Writer, report stats.Report, width int) error {
	if err := stats.RenderSummary(w, report); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderOperationTable(w, report.Operations); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderCurve(w, report.Samples, report.CurveWindow, width); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent sessions and wrong answers",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", defaultHistoryLast, "limit to last N entries (0 for all)")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	a := app.New(st, app.Options{Logf: logErrf})
	h := a.LoadHistory(context.Background())
	w := cmd.OutOrStdout()
	if err := stats.RenderSessions(w, h.Sessions, historyLast); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderWrongAnswers(w, h.WrongAnswers, historyLast); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or update practice settings",
		Args:  cobra.NoArgs,
		RunE:  runSettingsCmd,
	}
	defaults := model.DefaultSettings()
	cmd.Flags().IntVar(&settingsDigits, "digits", defaults.DigitRange, "operand digits (1-3)")
	cmd.Flags().IntVar(&settingsChainLength, "chain-length", defaults.ChainLength, "chain steps")
	cmd.Flags().Float64Var(&settingsTargetTime, "target-time", defaults.TargetTime, "seconds per problem in timed mode")
	cmd.Flags().IntVar(&settingsTargetStreak, "target-streak", defaults.TargetStreak, "streak goal")
	return cmd
}

func runSettingsCmd(cmd *cobra.Command, _ []string) error {
	patch, err := settingsPatch(cmd)
	if err != nil {
		return err
	}
	a := app.New(store.NewMemory(), app.Options{Logf: logErrf})
	current := a.Settings()
	if patch != (config.PracticeConfig{}) {
		current, err = a.UpdateSettings(patch)
		if err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "digits = %d\nchain-length = %d\ntarget-time = %g\ntarget-streak = %d\n",
		current.DigitRange, current.ChainLength, current.TargetTime, current.TargetStreak)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// settingsPatch collects the flags the user set, rejecting out-of-range values.
func settingsPatch(cmd *cobra.Command) (config.PracticeConfig, error) {
	var p config.PracticeConfig
	if cmd.Flags().Changed("digits") {
		if settingsDigits < 1 || settingsDigits > 3 {
			return p, fmt.Errorf("--digits must be between 1 and 3")
		}
		p.DigitRange = &settingsDigits
	}
	if cmd.Flags().Changed("chain-length") {
		if settingsChainLength <= 0 {
			return p, fmt.Errorf("--chain-length must be > 0")
		}
		p.ChainLength = &settingsChainLength
	}
	if cmd.Flags().Changed("target-time") {
		if settingsTargetTime <= 0 {
			return p, fmt.Errorf("--target-time must be > 0")
		}
		p.TargetTime = &settingsTargetTime
	}
	if cmd.Flags().Changed("target-streak") {
		if settingsTargetStreak <= 0 {
			return p, fmt.Errorf("--target-streak must be > 0")
		}
		p.TargetStreak = &settingsTargetStreak
	}
	return p, nil
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all history and reset settings",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetYes, "yes", false, "confirm deletion")
	return cmd
}

func runResetCmd(_ *cobra.Command, _ []string) error {
	if !resetYes {
		return fmt.Errorf("refusing to delete history without --yes")
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	a := app.New(st, app.Options{Logf: logErrf})
	if err := a.ClearAll(context.Background()); err != nil {
		return err
	}
	logErrln("History cleared and settings reset.")
	return nil
}

func resolveDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return config.DefaultDBPath()
}

func openStore() (*store.SQLite, error) {
	st, err := store.Open(resolveDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.SQLite) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func parseMode(s string) (model.OperationKind, error) {
	mode, ok := model.ParseKind(strings.ToLower(strings.TrimSpace(s)))
	if !ok {
		return "", fmt.Errorf("unknown mode %q (available: %s)", s, kindList())
	}
	return mode, nil
}

func kindList() string {
	names := make([]string, len(model.Kinds))
	for i, k := range model.Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	defaults := model.DefaultSettings()
	return fmt.Sprintf(`# mathdrill configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# mode = %q       # One of: %s
# timed = false           # Limit each problem to target-time seconds
# digits = %d              # Operand digits (1-3)
# chain-length = %d        # Steps per chain problem
# target-time = %.1f       # Seconds per problem in timed mode
# target-streak = %d      # Streak goal shown in the session summary
`,
		defaultMode,
		kindList(),
		defaults.DigitRange,
		defaults.ChainLength,
		defaults.TargetTime,
		defaults.TargetStreak,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
