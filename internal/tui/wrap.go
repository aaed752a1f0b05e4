package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapText breaks text into lines no wider than width terminal cells.
// Words wider than a line are split across lines.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if width <= 0 || len(words) == 0 {
		return []string{strings.Join(words, " ")}
	}
	var (
		lines     []string
		line      strings.Builder
		lineWidth int
	)
	for _, word := range words {
		for _, part := range splitWide(word, width) {
			partWidth := runewidth.StringWidth(part)
			if lineWidth > 0 && lineWidth+1+partWidth > width {
				lines = append(lines, line.String())
				line.Reset()
				lineWidth = 0
			}
			if lineWidth > 0 {
				line.WriteByte(' ')
				lineWidth++
			}
			line.WriteString(part)
			lineWidth += partWidth
		}
	}
	return append(lines, line.String())
}

// hangingWrap wraps text after prefix and indents continuation lines to
// the prefix width.
func hangingWrap(prefix, text string, width int) []string {
	prefixWidth := runewidth.StringWidth(prefix)
	inner := width - prefixWidth
	if width <= 0 || inner < 1 {
		return []string{prefix + text}
	}
	lines := wrapText(text, inner)
	indent := strings.Repeat(" ", prefixWidth)
	for i := range lines {
		if i == 0 {
			lines[i] = prefix + lines[i]
			continue
		}
		lines[i] = indent + lines[i]
	}
	return lines
}

func splitWide(word string, width int) []string {
	if runewidth.StringWidth(word) <= width {
		return []string{word}
	}
	var (
		parts    []string
		cur      strings.Builder
		curWidth int
	)
	for _, r := range word {
		rw := runewidth.RuneWidth(r)
		if curWidth > 0 && curWidth+rw > width {
			parts = append(parts, cur.String())
			cur.Reset()
			curWidth = 0
		}
		cur.WriteRune(r)
		curWidth += rw
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}
