package stats

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// noData is the placeholder metric cell; it never decides a column's alignment.
const noData = "no data"

// formatTable lays out rows under headers. Columns holding only numbers,
// scores ("3/4"), seconds ("1.25s") or percentages are right-aligned.
func formatTable(headers []string, rows [][]string) []string {
	cols := len(headers)
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return nil
	}

	widths := make([]int, cols)
	numeric := make([]bool, cols)
	for c := range cols {
		widths[c] = runewidth.StringWidth(cellAt(headers, c))
		numeric[c] = numericColumn(rows, c)
		for _, row := range rows {
			widths[c] = max(widths[c], runewidth.StringWidth(cellAt(row, c)))
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, numeric))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, numeric))
	}
	return lines
}

func formatRow(row []string, widths []int, numeric []bool) string {
	cells := make([]string, len(widths))
	for c, width := range widths {
		cell := cellAt(row, c)
		pad := strings.Repeat(" ", max(width-runewidth.StringWidth(cell), 0))
		if numeric[c] {
			cells[c] = pad + cell
		} else {
			cells[c] = cell + pad
		}
	}
	return strings.Join(cells, " ")
}

func cellAt(row []string, c int) string {
	if c < len(row) {
		return row[c]
	}
	return ""
}

func numericColumn(rows [][]string, c int) bool {
	seen := false
	for _, row := range rows {
		cell := cellAt(row, c)
		if cell == noData || cell == "" {
			continue
		}
		if !numericCell(cell) {
			return false
		}
		seen = true
	}
	return seen
}

func numericCell(cell string) bool {
	if correct, total, ok := strings.Cut(cell, "/"); ok {
		return isInt(correct) && isInt(total)
	}
	cell = strings.TrimSuffix(strings.TrimSuffix(cell, "%"), "s")
	_, err := strconv.ParseFloat(cell, 64)
	return err == nil
}

func isInt(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}
