package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// formatTable aligns rows under headers. Widths are measured in terminal
// cells so accented and wide labels line up.
func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	widths := columnWidths(headers, rows)
	if len(widths) == 0 {
		return nil
	}
	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func columnWidths(headers []string, rows [][]string) []int {
	var widths []int
	measure := func(row []string) {
		for i, value := range row {
			if i == len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], displayWidth(value))
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}
	return widths
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	cells := make([]string, len(widths))
	for i, width := range widths {
		var value string
		if i < len(row) {
			value = row[i]
		}
		if rightAlignCols[i] {
			cells[i] = runewidth.FillLeft(value, width)
		} else {
			cells[i] = runewidth.FillRight(value, width)
		}
	}
	return strings.Join(cells, " ")
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
