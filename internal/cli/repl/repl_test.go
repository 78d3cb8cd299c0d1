package repl

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
)

// newTestREPL builds a REPL whose history lives under a temp dir.
func newTestREPL(t *testing.T, input string, execute func(string) error) (*REPL, *bytes.Buffer) {
	t.Helper()

	output := &bytes.Buffer{}
	r := &REPL{
		input:     strings.NewReader(input),
		output:    output,
		prompt:    "consolegate> ",
		completer: NewCompleter(),
		history: &History{
			entries: make([]string, 0),
			maxSize: 1000,
			file:    filepath.Join(t.TempDir(), "history"),
		},
		execute: execute,
	}
	return r, output
}

func TestNew(t *testing.T) {
	r := New(nil)
	if r == nil {
		t.Fatal("New returned nil")
	}
	if r.completer == nil {
		t.Error("completer should be initialized")
	}
	if r.history == nil {
		t.Error("history should be initialized")
	}
	if r.prompt != "consolegate> " {
		t.Errorf("prompt = %q", r.prompt)
	}
}

func TestREPL_Run_Exit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"exit command", "exit\n"},
		{"quit command", "quit\n"},
		{"EOF", ""}, // No newline, simulates Ctrl+D
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestREPL(t, tt.input, nil)
			if err := r.Run(); err != nil {
				t.Errorf("Run() returned error: %v", err)
			}
		})
	}
}

func TestREPL_Run_EmptyLines(t *testing.T) {
	// Empty lines should be skipped
	r, output := newTestREPL(t, "\n\n\nexit\n", nil)

	if err := r.Run(); err != nil {
		t.Errorf("Run() returned error: %v", err)
	}

	prompts := strings.Count(output.String(), "consolegate>")
	if prompts < 4 {
		t.Errorf("expected at least 4 prompts, got %d", prompts)
	}
}

func TestREPL_Run_Dispatch(t *testing.T) {
	var got []string
	execute := func(line string) error {
		got = append(got, line)
		return nil
	}

	r, _ := newTestREPL(t, "status\nconns\nexit\n", execute)
	if err := r.Run(); err != nil {
		t.Errorf("Run() returned error: %v", err)
	}

	if len(got) != 2 || got[0] != "status" || got[1] != "conns" {
		t.Errorf("dispatched = %v, want [status conns]", got)
	}
}

func TestREPL_Run_DispatchError(t *testing.T) {
	execute := func(line string) error {
		return fmt.Errorf("no gateway at socket")
	}

	r, output := newTestREPL(t, "status\nexit\n", execute)
	if err := r.Run(); err != nil {
		t.Errorf("Run() returned error: %v", err)
	}

	if !strings.Contains(output.String(), "Error: no gateway at socket") {
		t.Errorf("output %q missing dispatch error", output.String())
	}
}

func TestREPL_Run_Help(t *testing.T) {
	r, output := newTestREPL(t, "help\nexit\n", nil)
	if err := r.Run(); err != nil {
		t.Errorf("Run() returned error: %v", err)
	}

	for _, want := range []string{"status", "conns", "metrics"} {
		if !strings.Contains(output.String(), want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

func TestREPL_Run_HelpPrefix(t *testing.T) {
	r, output := newTestREPL(t, "help con\nexit\n", nil)
	if err := r.Run(); err != nil {
		t.Errorf("Run() returned error: %v", err)
	}

	out := output.String()
	if !strings.Contains(out, "conns") || !strings.Contains(out, "config show") {
		t.Errorf("help con output = %q", out)
	}
	if strings.Contains(out, "metrics") {
		t.Errorf("help con should not list metrics, got %q", out)
	}
}

func TestREPL_Run_HistoryAdded(t *testing.T) {
	r, _ := newTestREPL(t, "status\nconns\nexit\n", func(string) error { return nil })

	if err := r.Run(); err != nil {
		t.Errorf("Run() returned error: %v", err)
	}

	if r.history.Get(0) != "exit" {
		t.Errorf("most recent command = %q, want exit", r.history.Get(0))
	}
	if r.history.Get(1) != "conns" {
		t.Errorf("second most recent = %q, want conns", r.history.Get(1))
	}
	if r.history.Get(2) != "status" {
		t.Errorf("third most recent = %q, want status", r.history.Get(2))
	}
}

func TestREPL_Run_WhitespaceHandling(t *testing.T) {
	r, _ := newTestREPL(t, "  status  \n\texit\t\n", func(string) error { return nil })

	if err := r.Run(); err != nil {
		t.Errorf("Run() returned error: %v", err)
	}

	if r.history.Get(0) != "exit" {
		t.Errorf("command not trimmed properly: %q", r.history.Get(0))
	}
	if r.history.Get(1) != "status" {
		t.Errorf("command not trimmed properly: %q", r.history.Get(1))
	}
}

func TestREPL_Options(t *testing.T) {
	input := strings.NewReader("")
	output := &bytes.Buffer{}
	histFile := filepath.Join(t.TempDir(), "history")

	r := New(nil,
		WithInput(input),
		WithOutput(output),
		WithHistoryFile(histFile),
	)

	if r.input != input {
		t.Error("WithInput() option not applied")
	}
	if r.output != output {
		t.Error("WithOutput() option not applied")
	}
	if r.history.file != histFile {
		t.Error("WithHistoryFile() option not applied")
	}
}
