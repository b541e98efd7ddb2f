package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Problem", "Yours", "Correct"}
	rows := [][]string{
		{"7 × 8", "54", "56"},
		{"144 ÷ 12", "11", "12"},
	}

	lines := formatTable(headers, rows)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Problem  Yours Correct" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "7 × 8       54      56" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "144 ÷ 12    11      12" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableRightAlignsMetrics(t *testing.T) {
	headers := []string{"Mode", "Score", "Avg Time", "Accuracy"}
	rows := [][]string{
		{"chain", "3/4", "no data", "75.0%"},
		{"addition", "12/12", "1.25s", "100.0%"},
	}

	lines := formatTable(headers, rows)
	want := []string{
		"Mode     Score Avg Time Accuracy",
		"chain      3/4  no data    75.0%",
		"addition 12/12    1.25s   100.0%",
	}
	for i, line := range want {
		if lines[i] != line {
			t.Fatalf("line %d: expected %q, got %q", i, line, lines[i])
		}
	}
}

func TestNumericColumnIgnoresPlaceholders(t *testing.T) {
	rows := [][]string{{"no data"}, {"no data"}}
	if numericColumn(rows, 0) {
		t.Fatalf("placeholder-only column should stay left-aligned")
	}
	rows = append(rows, []string{"-3"})
	if !numericColumn(rows, 0) {
		t.Fatalf("negative numbers should right-align")
	}
	if numericCell("7 × 8") || numericCell("1/x") {
		t.Fatalf("expressions are not numeric cells")
	}
}
