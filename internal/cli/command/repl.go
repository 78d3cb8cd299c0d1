// Package command provides CLI command definitions for consolegate-cli.
package command

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/consolegate/consolegate-go/internal/cli/repl"
)

// REPLCommand returns the interactive mode command.
func REPLCommand() *cli.Command {
	return &cli.Command{
		Name:   "repl",
		Usage:  "Interactive mode",
		Action: replAction,
	}
}

func replAction(c *cli.Context) error {
	flags := ParseGlobalFlags(c)
	socket := resolveSocket(c)

	fmt.Printf("ConsoleGate interactive shell (gateway %s)\n", socket)
	fmt.Println("Type 'help' for commands, 'exit' to quit.")

	r := repl.New(func(line string) error {
		return dispatchLine(socket, flags, line)
	})
	return r.Run()
}

// dispatchLine runs one interactive line through a fresh CLI app so
// every command, flag, and error path behaves exactly as it does on the
// shell command line.
func dispatchLine(socket string, flags *GlobalFlags, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	if fields[0] == "repl" {
		return fmt.Errorf("already in interactive mode")
	}

	app := App()
	// Exit coders must not terminate the shell.
	app.ExitErrHandler = func(*cli.Context, error) {}

	args := []string{"consolegate-cli", "--socket", socket, "--output", flags.Output}
	if flags.Wide {
		args = append(args, "--wide")
	}
	args = append(args, fields...)
	return app.Run(args)
}
