// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/mathdrill/internal/app"
	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/sched"
	"github.com/verte-zerg/mathdrill/internal/session"
	statsPkg "github.com/verte-zerg/mathdrill/internal/stats"
	"github.com/verte-zerg/mathdrill/internal/store"
	"github.com/verte-zerg/mathdrill/internal/timer"
)

const (
	chainPrompt = "What is the total?"
	barWidth    = 40
	cardWidth   = 28
)

// taskMsg carries a fired scheduler callback into Update.
type taskMsg func()

// Model implements the Bubble Tea practice UI. It is also the session
// listener: events arrive while Update runs, so they mutate the model directly.
type Model struct {
	app   *app.App
	loop  *sched.Loop
	mode  model.OperationKind
	timed bool

	input textinput.Model
	bar   progress.Model

	width  int
	height int

	phase    session.Phase
	problem  model.Problem
	step     session.StepReveal
	hasStep  bool
	tick     timer.Tick
	last     *session.Resolution
	notice   string
	summary  *model.SessionRecord
	recent   []float64
	targetHi bool
}

var (
	problemStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	stepStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	correctStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	wrongStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAAD14"))
	dangerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	summaryBorder = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 3)
)

// NewModel constructs a practice model and subscribes it to session events.
// recent holds the stored solve latencies, oldest first, for the Ao5/Ao12 footer.
func NewModel(a *app.App, loop *sched.Loop, mode model.OperationKind, timed bool, recent []float64) *Model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "answer"
	input.CharLimit = 9
	input.Width = 12

	m := &Model{
		app:    a,
		loop:   loop,
		mode:   mode,
		timed:  timed,
		input:  input,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth), progress.WithoutPercentage()),
		recent: recent,
	}
	a.Listen(m)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	m.start()
	return tea.Batch(textinput.Blink, m.waitTask())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case taskMsg:
		msg()
		return m, m.waitTask()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	if m.summary != nil {
		switch msg.Type {
		case tea.KeyEnter:
			m.start()
			return m, textinput.Blink
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyRunes:
			if string(msg.Runes) == "q" {
				return m, tea.Quit
			}
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		m.end(ctx)
		return m, tea.Quit
	case tea.KeyEsc:
		m.end(ctx)
		return m, nil
	case tea.KeyEnter:
		m.submit(ctx)
		return m, nil
	case tea.KeyTab:
		if _, err := m.app.Skip(ctx); err == nil {
			m.input.Reset()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) start() {
	m.summary = nil
	m.targetHi = false
	m.last = nil
	m.notice = ""
	m.hasStep = false
	m.input.Reset()
	m.input.Focus()
	m.app.StartSession(context.Background(), m.mode, m.timed)
}

func (m *Model) submit(ctx context.Context) {
	_, err := m.app.Submit(ctx, m.input.Value())
	switch {
	case err == nil:
		m.notice = ""
		m.input.Reset()
	case errors.Is(err, session.ErrInvalidAnswer):
		m.notice = "Enter a whole number."
	case errors.Is(err, session.ErrNotAccepting):
	default:
		logErrf("failed to submit answer: %v\n", err)
	}
}

func (m *Model) end(ctx context.Context) {
	if _, err := m.app.EndSession(ctx); err != nil && !errors.Is(err, session.ErrNoSession) {
		logErrf("failed to end session: %v\n", err)
	}
}

func (m *Model) waitTask() tea.Cmd {
	if m.loop == nil {
		return nil
	}
	tasks := m.loop.Tasks()
	done := m.loop.Done()
	return func() tea.Msg {
		select {
		case task := <-tasks:
			return taskMsg(task)
		case <-done:
			return nil
		}
	}
}

// ProblemChanged implements session.Listener.
func (m *Model) ProblemChanged(p model.Problem, phase session.Phase) {
	m.problem = p
	m.phase = phase
	m.tick = timer.Tick{}
	m.last = nil
	m.notice = ""
	if phase == session.PhaseDisplaying {
		m.step = session.StepReveal{}
		m.hasStep = false
		m.input.Blur()
		return
	}
	m.input.Focus()
}

// TimerTick implements session.Listener.
func (m *Model) TimerTick(t timer.Tick) {
	m.tick = t
}

// AnswerResolved implements session.Listener.
func (m *Model) AnswerResolved(r session.Resolution) {
	m.phase = session.PhaseResolved
	m.last = &r
	m.recordLatency(r)
	m.targetHi = m.app.State().TargetReached
}

// recordLatency mirrors the solve sample store so the footer stays current
// without reloading history.
func (m *Model) recordLatency(r session.Resolution) {
	if !r.Correct {
		return
	}
	m.recent = store.TrimFIFO(append(m.recent, r.Latency), model.MaxSolveSamples)
}

// StepRevealed implements session.Listener.
func (m *Model) StepRevealed(r session.StepReveal) {
	m.step = r
	m.hasStep = true
}

// SessionEnded implements session.Listener.
func (m *Model) SessionEnded(rec model.SessionRecord) {
	m.phase = session.PhaseEnded
	m.summary = &rec
	m.input.Blur()
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	if m.summary != nil {
		content = m.renderSummary()
	} else {
		content = m.renderPractice()
	}
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderPractice() string {
	st := m.app.State()
	header := headerStyle.Render(fmt.Sprintf("%s  ·  %d/%d  ·  streak %d", m.mode, st.Correct, st.Total, st.Streak))

	lines := []string{header, ""}
	switch {
	case m.phase == session.PhaseDisplaying:
		text := ""
		if m.hasStep {
			text = m.step.Text()
		}
		lines = append(lines, stepStyle.Render(center(text, cardWidth)), headerStyle.Render(center(stepDots(m.step, m.hasStep), cardWidth)))
	case m.problem.Kind == model.Chain:
		lines = append(lines, problemStyle.Render(center(chainPrompt, cardWidth)), "")
	default:
		lines = append(lines, problemStyle.Render(center(m.problem.Text, cardWidth)), "")
	}

	lines = append(lines, "", m.input.View(), "", m.renderTimer(), m.renderFeedback())
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderTimer() string {
	if m.phase != session.PhaseAwaitingAnswer {
		return ""
	}
	style := levelStyle(m.tick.Level)
	elapsed := style.Render(fmt.Sprintf("%.2fs", m.tick.Elapsed))
	if !m.timed {
		return elapsed
	}
	return m.bar.ViewAs(m.tick.Progress) + " " + elapsed
}

func (m *Model) renderFeedback() string {
	if m.notice != "" {
		return wrongStyle.Render(m.notice)
	}
	return feedbackText(m.last)
}

func (m *Model) renderSummary() string {
	rec := m.summary
	lines := []string{
		problemStyle.Render("Session complete"),
		"",
		fmt.Sprintf("Score      %d/%d", rec.Correct, rec.Total),
		fmt.Sprintf("Accuracy   %d%%", rec.Accuracy),
		fmt.Sprintf("Avg time   %s", statsPkg.MetricOf(rec.AverageLatency, rec.HasLatency())),
		fmt.Sprintf("Best time  %s", statsPkg.MetricOf(rec.BestLatency, rec.HasLatency())),
		fmt.Sprintf("Streak     %d", rec.BestStreak),
	}
	if m.targetHi {
		lines = append(lines, correctStyle.Render("Target streak reached!"))
	}
	lines = append(lines, "", headerStyle.Render("enter: again  ·  q: quit"))
	return summaryBorder.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderFooter() string {
	ao5 := statsPkg.MetricOf(statsPkg.AverageOfN(m.recent, 5))
	ao12 := statsPkg.MetricOf(statsPkg.AverageOfN(m.recent, 12))
	segments := []string{
		fmt.Sprintf("Ao5 %s", ao5),
		fmt.Sprintf("Ao12 %s", ao12),
	}
	if m.summary == nil {
		segments = append(segments, "enter: submit  tab: skip  esc: finish")
	}
	return footerStyle.Render(strings.Join(segments, "  ·  "))
}

func feedbackText(r *session.Resolution) string {
	if r == nil {
		return ""
	}
	switch {
	case r.Correct:
		return correctStyle.Render(fmt.Sprintf("Correct! %.2fs", r.Latency))
	case r.TimedOut:
		return wrongStyle.Render(fmt.Sprintf("Time's up. Answer: %d", r.Problem.Answer))
	case !r.Answered:
		return wrongStyle.Render(fmt.Sprintf("Skipped. Answer: %d", r.Problem.Answer))
	default:
		return wrongStyle.Render(fmt.Sprintf("Wrong. Answer: %d", r.Problem.Answer))
	}
}

func levelStyle(l timer.Level) lipgloss.Style {
	switch l {
	case timer.LevelDanger:
		return dangerStyle
	case timer.LevelWarning:
		return warningStyle
	default:
		return normalStyle
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
