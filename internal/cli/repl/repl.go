// Package repl provides the interactive mode for consolegate-cli.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// REPL reads management commands line by line and dispatches them.
type REPL struct {
	input     io.Reader
	output    io.Writer
	prompt    string
	completer *Completer
	history   *History
	execute   func(line string) error
}

// Option configures a REPL.
type Option func(*REPL)

// WithInput sets the input reader. Defaults to stdin.
func WithInput(r io.Reader) Option {
	return func(repl *REPL) {
		repl.input = r
	}
}

// WithOutput sets the output writer. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(repl *REPL) {
		repl.output = w
	}
}

// WithHistoryFile overrides the history file location.
func WithHistoryFile(path string) Option {
	return func(repl *REPL) {
		repl.history.file = path
	}
}

// New creates a REPL dispatching input lines to execute.
func New(execute func(line string) error, opts ...Option) *REPL {
	r := &REPL{
		input:     os.Stdin,
		output:    os.Stdout,
		prompt:    "consolegate> ",
		completer: NewCompleter(),
		history:   NewHistory(),
		execute:   execute,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run starts the REPL loop. It returns when input ends or the user
// types exit or quit.
func (r *REPL) Run() error {
	_ = r.history.Load()
	defer func() { _ = r.history.Save() }()

	reader := bufio.NewReader(r.input)

	for {
		// Print prompt
		fmt.Fprint(r.output, r.prompt)

		// Read line
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			fmt.Fprintln(r.output)
			return nil
		}
		if err != nil {
			return err
		}

		// Trim and skip empty lines
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Add to history
		r.history.Add(line)

		// Handle loop-level commands
		switch {
		case line == "exit" || line == "quit":
			return nil
		case line == "help":
			r.printCommands("")
			continue
		case strings.HasPrefix(line, "help "):
			r.printCommands(strings.TrimSpace(strings.TrimPrefix(line, "help ")))
			continue
		}

		// Execute command
		if r.execute == nil {
			continue
		}
		if err := r.execute(line); err != nil {
			fmt.Fprintf(r.output, "Error: %v\n", err)
		}
	}
}

// printCommands lists the commands matching prefix, or all of them.
func (r *REPL) printCommands(prefix string) {
	matches := r.completer.Complete(prefix)
	if len(matches) == 0 {
		fmt.Fprintf(r.output, "No commands match %q\n", prefix)
		return
	}
	for _, cmd := range matches {
		fmt.Fprintf(r.output, "  %s\n", cmd)
	}
}
