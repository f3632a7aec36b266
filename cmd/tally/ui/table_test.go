package ui

import (
	"strings"
	"testing"
)

func TestSimpleTable_EmptyRendersNothing(t *testing.T) {
	table := NewSimpleTable("History", []string{"#", "Operation"})
	if got := table.View(DefaultStyles()); got != "" {
		t.Errorf("expected empty render, got %q", got)
	}
}

func TestSimpleTable_RendersHeadersAndRows(t *testing.T) {
	table := NewSimpleTable("History", []string{"#", "Operation", "Result"})
	table.AddRow("1", "add(10, 5)", "15")
	table.AddRow("2", "subtract(10, 5)", "5")

	out := table.View(DefaultStyles())

	for _, want := range []string{"History", "Operation", "add(10, 5)", "15", "subtract(10, 5)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q\n%s", want, out)
		}
	}

	if lines := strings.Count(out, "\n"); lines < 4 {
		t.Errorf("expected title, header, separator and two rows, got %d lines", lines)
	}
}
