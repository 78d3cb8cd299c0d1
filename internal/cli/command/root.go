// Package command provides CLI command definitions for consolegate-cli.
//
// It uses urfave/cli/v2 for command parsing and supports both
// single-command mode and interactive REPL mode.
package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	cliconfig "github.com/consolegate/consolegate-go/internal/cli/config"
	"github.com/consolegate/consolegate-go/internal/cli/connection"
	"github.com/consolegate/consolegate-go/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	app := &cli.App{
		Name:    "consolegate-cli",
		Usage:   "ConsoleGate gateway management tool",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			StatusCommand(),
			ConnsCommand(),
			HealthCommand(),
			MetricsCommand(),
			CertCommand(),
			ConfigCommand(),
			ConnectCommand(),
			UseCommand(),
			REPLCommand(),
		},
		Before: func(c *cli.Context) error {
			// Load the CLI config and initialize the endpoint manager
			cfg, err := cliconfig.Load("")
			if err != nil {
				return err
			}
			c.App.Metadata["cliConfig"] = cfg
			c.App.Metadata["connMgr"] = connection.NewManager()
			return nil
		},
	}

	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "socket",
			Aliases: []string{"s"},
			Usage:   "Gateway management socket path",
			EnvVars: []string{"CONSOLEGATE_MGMT_SOCKET"},
			Value:   "/run/consolegate/mgmt.sock",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable verbose output",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	// Gateway endpoint
	Socket string

	// Output format
	Output string // table, json, yaml
	Wide   bool

	// Other
	Verbose bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Socket:  c.String("socket"),
		Output:  c.String("output"),
		Wide:    c.Bool("wide"),
		Verbose: c.Bool("verbose"),
	}
}

// getCLIConfig retrieves the loaded CLI configuration from context.
func getCLIConfig(c *cli.Context) *cliconfig.CLIConfig {
	if cfg, ok := c.App.Metadata["cliConfig"].(*cliconfig.CLIConfig); ok {
		return cfg
	}
	return nil
}

// GetManager retrieves the endpoint manager from context.
func GetManager(c *cli.Context) *connection.Manager {
	if mgr, ok := c.App.Metadata["connMgr"].(*connection.Manager); ok {
		return mgr
	}
	return nil
}

// resolveSocket picks the management socket for this invocation: the
// --socket flag or environment when set, then the CLI config.
func resolveSocket(c *cli.Context) string {
	if c.IsSet("socket") {
		return c.String("socket")
	}
	if cfg := getCLIConfig(c); cfg != nil {
		return cfg.ResolveSocket()
	}
	return c.String("socket")
}

// NewClient creates a management client for this invocation's socket.
func NewClient(c *cli.Context) *connection.Client {
	return connection.NewClient(resolveSocket(c))
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
