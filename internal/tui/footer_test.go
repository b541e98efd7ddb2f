package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/mathdrill/internal/model"
	"github.com/verte-zerg/mathdrill/internal/session"
)

func TestRenderFooterFormats(t *testing.T) {
	m := &Model{recent: []float64{9, 1, 2, 3, 4, 5}}
	out := m.renderFooter()
	if out == "" {
		t.Fatalf("expected footer output")
	}
	if !containsAll(out, []string{"Ao5 3.00s", "Ao12 no data", "tab: skip"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}

	m.summary = &model.SessionRecord{}
	if strings.Contains(m.renderFooter(), "tab: skip") {
		t.Fatalf("summary footer should not list practice keys")
	}
}

func TestAnswerResolvedTracksRecentLatencies(t *testing.T) {
	m := &Model{}
	for i := 0; i < model.MaxSolveSamples+3; i++ {
		m.recent = append(m.recent, 1)
	}
	m.recordLatency(session.Resolution{Correct: true, Latency: 2})
	m.recordLatency(session.Resolution{Latency: 7})
	if len(m.recent) != model.MaxSolveSamples {
		t.Fatalf("expected %d recent latencies, got %d", model.MaxSolveSamples, len(m.recent))
	}
	if m.recent[len(m.recent)-1] != 2 {
		t.Fatalf("expected newest latency last, got %v", m.recent[len(m.recent)-1])
	}
}

func TestFeedbackText(t *testing.T) {
	p := model.Problem{Answer: 56, Text: "7 × 8"}
	cases := []struct {
		res  *session.Resolution
		want string
	}{
		{nil, ""},
		{&session.Resolution{Problem: p, Correct: true, Answered: true, Latency: 1.234}, "Correct! 1.23s"},
		{&session.Resolution{Problem: p, Answered: true, Submitted: 54}, "Wrong. Answer: 56"},
		{&session.Resolution{Problem: p, TimedOut: true}, "Time's up. Answer: 56"},
		{&session.Resolution{Problem: p}, "Skipped. Answer: 56"},
	}
	for _, tc := range cases {
		got := feedbackText(tc.res)
		if tc.want == "" {
			if got != "" {
				t.Fatalf("expected empty feedback, got %q", got)
			}
			continue
		}
		if !strings.Contains(got, tc.want) {
			t.Fatalf("expected %q in %q", tc.want, got)
		}
	}
}

func TestCenterUsesDisplayWidth(t *testing.T) {
	got := center("7 × 8", 9)
	if got != "  7 × 8  " {
		t.Fatalf("unexpected centering %q", got)
	}
	if center("123456", 3) != "123456" {
		t.Fatalf("wide text must be returned unchanged")
	}
}

func TestStepDots(t *testing.T) {
	r := session.StepReveal{Index: 1, Count: 4}
	if got := stepDots(r, true); got != "● ● ○ ○" {
		t.Fatalf("unexpected dots %q", got)
	}
	if got := stepDots(r, false); got != "○ ○ ○ ○" {
		t.Fatalf("unexpected dots %q", got)
	}
	if stepDots(session.StepReveal{}, true) != "" {
		t.Fatalf("expected no dots without steps")
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
