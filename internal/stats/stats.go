// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/verte-zerg/picverb/internal/model"
)

const (
	barChar             = '#'
	terminalWidthBackup = 80
	minBarWidth         = 5
)

// RenderSummary prints aggregate ledger figures.
func RenderSummary(w io.Writer, r Report) error {
	if r.Attempts == 0 {
		_, err := fmt.Fprintln(w, "No attempts recorded yet.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Attempts: %d\n", r.Attempts); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Correct: %d\n", r.Correct); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Accuracy: %d%%\n", r.Accuracy); err != nil {
		return err
	}
	if !r.UpdatedAt.IsZero() {
		if _, err := fmt.Fprintf(w, "Last updated: %s\n", r.UpdatedAt.Local().Format(time.DateTime)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderHardestTable prints the hardest items with a miss bar per row.
// totalWidth <= 0 sizes the bars to the terminal.
func RenderHardestTable(w io.Writer, r Report, totalWidth int) error {
	if len(r.Hardest) == 0 {
		_, err := fmt.Fprintln(w, "No missed verbs yet.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Hardest Verbs"); err != nil {
		return err
	}

	headers := []string{"Verb", "Spanish", "Misses", "Hits"}
	rows := make([][]string, 0, len(r.Hardest))
	for _, item := range r.Hardest {
		rows = append(rows, []string{
			item.Infinitive,
			item.Spanish,
			fmt.Sprintf("%d", item.Misses),
			fmt.Sprintf("%d", item.Hits),
		})
	}
	lines := formatTable(headers, rows, map[int]bool{2: true, 3: true})

	if totalWidth <= 0 {
		totalWidth = terminalWidth()
	}
	barWidth := totalWidth - displayWidth(lines[0]) - 1
	if barWidth < minBarWidth {
		barWidth = minBarWidth
	}
	maxMisses := r.Hardest[0].Misses
	for i, line := range lines {
		if i > 0 {
			line += " " + MissBar(r.Hardest[i-1].Misses, maxMisses, barWidth)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// MissBar renders count as a bar scaled against maxCount within width cells.
// Any positive count gets at least one cell.
func MissBar(count, maxCount, width int) string {
	if count <= 0 || maxCount <= 0 || width <= 0 {
		return ""
	}
	if count > maxCount {
		count = maxCount
	}
	n := count * width / maxCount
	if n < 1 {
		n = 1
	}
	return strings.Repeat(string(barChar), n)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// RenderCatalog lists catalog items as an aligned table.
func RenderCatalog(w io.Writer, items []model.Item) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "Catalog is empty.")
		return err
	}
	headers := []string{"ID", "Verb", "Past", "Past participle", "Gerund", "Spanish"}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.ID,
			item.Infinitive,
			item.Past,
			item.PastParticiple,
			item.Gerund,
			item.Spanish,
		})
	}
	for _, line := range formatTable(headers, rows, nil) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n%d verbs\n", len(items))
	return err
}
