package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Verb", "Spanish", "Misses"}
	rows := [][]string{
		{"eat", "comer", "12"},
		{"give up", "rendirse", "3"},
	}
	rightAlign := map[int]bool{2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Verb    Spanish  Misses" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "eat     comer        12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "give up rendirse      3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableCountsCells(t *testing.T) {
	lines := formatTable([]string{"Verb", "Spanish"}, [][]string{{"see", "ver"}, {"climb", "escaláu"}}, nil)
	if lines[0] != "Verb  Spanish" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[2] != "climb escaláu" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}
