package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tally/internal/calc"
	"tally/internal/export"
	"tally/internal/store"
)

// newTestCmd returns a command whose output is captured in the buffer.
func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	return cmd, &buf
}

func setupWorkspace(t *testing.T) string {
	t.Helper()
	logger = zap.NewNop()
	ws := t.TempDir()
	workspace = ws
	t.Cleanup(func() {
		workspace = ""
		configPath = ""
		noHistory = false
	})
	return ws
}

func TestInitCmd(t *testing.T) {
	ws := setupWorkspace(t)

	cmd, out := newTestCmd()
	if err := runInit(cmd, nil); err != nil {
		t.Fatalf("runInit failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(ws, ".tally", "config.yaml")); os.IsNotExist(err) {
		t.Error(".tally/config.yaml was not created")
	}
	if !strings.Contains(out.String(), "Initialized") {
		t.Errorf("unexpected output: %s", out.String())
	}

	// Idempotent: second run leaves the existing config alone.
	cmd2, out2 := newTestCmd()
	if err := runInit(cmd2, nil); err != nil {
		t.Errorf("runInit second run failed: %v", err)
	}
	if !strings.Contains(out2.String(), "already exists") {
		t.Errorf("expected already-exists notice, got: %s", out2.String())
	}
}

func TestOpCommand_Addition(t *testing.T) {
	ws := setupWorkspace(t)

	cmd, out := newTestCmd()
	if err := runOperation(cmd, calc.OpAdd, []string{"10", "5"}); err != nil {
		t.Fatalf("runOperation failed: %v", err)
	}

	if !strings.Contains(out.String(), "Result of addition: 15") {
		t.Errorf("unexpected output: %s", out.String())
	}

	// The operation is persisted.
	s, err := store.NewLocalStore(filepath.Join(ws, ".tally", "tally.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer s.Close()

	n, err := s.CountOperations()
	if err != nil {
		t.Fatalf("CountOperations failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 persisted operation, got %d", n)
	}
}

func TestOpCommand_DivisionByZero(t *testing.T) {
	ws := setupWorkspace(t)

	cmd, _ := newTestCmd()
	err := runOperation(cmd, calc.OpDivide, []string{"5", "0"})
	if !errors.Is(err, calc.ErrDivisionByZero) {
		t.Fatalf("expected ErrDivisionByZero, got %v", err)
	}

	// Nothing persisted on failure.
	s, err := store.NewLocalStore(filepath.Join(ws, ".tally", "tally.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer s.Close()

	n, err := s.CountOperations()
	if err != nil {
		t.Fatalf("CountOperations failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected empty history after failed divide, got %d", n)
	}
}

func TestOpCommand_InvalidNumber(t *testing.T) {
	setupWorkspace(t)

	cmd, _ := newTestCmd()
	if err := runOperation(cmd, calc.OpAdd, []string{"ten", "5"}); err == nil {
		t.Error("expected error for non-numeric operand")
	}
}

func TestOpCommand_NoHistoryFlag(t *testing.T) {
	ws := setupWorkspace(t)
	noHistory = true

	cmd, _ := newTestCmd()
	if err := runOperation(cmd, calc.OpMultiply, []string{"3", "4"}); err != nil {
		t.Fatalf("runOperation failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(ws, ".tally", "tally.db")); !os.IsNotExist(err) {
		t.Error("expected no database with --no-history")
	}
}

func TestRunSequence(t *testing.T) {
	ws := setupWorkspace(t)

	cmd, out := newTestCmd()
	if err := runSequence(cmd, nil); err != nil {
		t.Fatalf("runSequence failed: %v", err)
	}

	output := out.String()
	for _, want := range []string{
		"Starting Calculator Application...",
		"Results: 15, 12",
		"History: add(10, 5) = 15",
		"History: multiply(3, 4) = 12",
		"Application completed successfully!",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q\n%s", want, output)
		}
	}

	// The results file contains the two positive sample items.
	results, err := export.ReadResults(filepath.Join(ws, "output.json"))
	if err != nil {
		t.Fatalf("results file missing: %v", err)
	}
	if results.Count != 2 {
		t.Errorf("expected 2 processed items, got %d", results.Count)
	}
}

func TestShowHistory(t *testing.T) {
	setupWorkspace(t)

	// Empty history first.
	cmd, out := newTestCmd()
	if err := showHistory(cmd, nil); err != nil {
		t.Fatalf("showHistory failed: %v", err)
	}
	if !strings.Contains(out.String(), "No operations recorded yet") {
		t.Errorf("unexpected output: %s", out.String())
	}

	// Record something, then list it.
	opCmd, _ := newTestCmd()
	if err := runOperation(opCmd, calc.OpAdd, []string{"10", "5"}); err != nil {
		t.Fatalf("runOperation failed: %v", err)
	}

	cmd2, out2 := newTestCmd()
	if err := showHistory(cmd2, nil); err != nil {
		t.Fatalf("showHistory failed: %v", err)
	}
	if !strings.Contains(out2.String(), "add(10, 5)") {
		t.Errorf("expected history row, got: %s", out2.String())
	}
}

func TestShowStatus(t *testing.T) {
	setupWorkspace(t)

	cmd, out := newTestCmd()
	if err := showStatus(cmd, nil); err != nil {
		t.Fatalf("showStatus failed: %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "tally") {
		t.Errorf("expected app name in status, got: %s", output)
	}
	if !strings.Contains(output, "Operations:") {
		t.Errorf("expected operation stats, got: %s", output)
	}
}
