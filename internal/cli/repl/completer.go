// Package repl provides the interactive mode for consolegate-cli.
package repl

import "strings"

// Completer provides command completion for the REPL.
type Completer struct {
	commands []string
}

// NewCompleter creates a new Completer.
func NewCompleter() *Completer {
	return &Completer{
		commands: []string{
			"status",
			"conns",
			"health",
			"metrics",
			"cert inspect",
			"config show",
			"config check",
			"help", "exit", "quit",
		},
	}
}

// Complete returns completion suggestions for the given prefix.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
