// Package command provides CLI command definitions for consolegate-cli.
package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	cliconfig "github.com/consolegate/consolegate-go/internal/cli/config"
	"github.com/consolegate/consolegate-go/internal/infra/confloader"
	"github.com/consolegate/consolegate-go/internal/server/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration tooling",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the CLI configuration",
				Action: configShowAction,
			},
			{
				Name:      "check",
				Usage:     "Validate a server configuration file",
				ArgsUsage: "FILE",
				Action:    configCheckAction,
			},
		},
	}
}

func configShowAction(c *cli.Context) error {
	path := cliconfig.DefaultConfigPath()

	fmt.Printf("CLI Configuration\n")
	fmt.Printf("=================\n\n")
	fmt.Printf("Config file: %s\n\n", path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := cliconfig.Default()
		fmt.Printf("(No configuration file found)\n\n")
		fmt.Printf("Default settings:\n")
		fmt.Printf("  Socket:  %s\n", cfg.DefaultSocket)
		fmt.Printf("  Output:  %s\n", cfg.DefaultOutput)
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	fmt.Printf("%s", string(content))
	return nil
}

func configCheckAction(c *cli.Context) error {
	file := c.Args().First()
	if file == "" {
		return fmt.Errorf("configuration file path required")
	}

	if _, err := os.Stat(file); err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	// Run the file through the same pipeline consolegate-server uses at
	// startup: defaults, file, environment overrides, then verification.
	cfg := config.Default()
	loader := confloader.NewLoader(confloader.WithConfigFile(file))
	if err := loader.Load(cfg); err != nil {
		fmt.Printf("✗ %v\n", err)
		return fmt.Errorf("validation failed")
	}
	if err := config.Verify(cfg); err != nil {
		fmt.Printf("✗ %v\n", err)
		return fmt.Errorf("validation failed")
	}

	fmt.Printf("✓ Configuration is valid: %s\n\n", file)
	fmt.Printf("Listen mode:   %s\n", cfg.Listen.Mode)
	if cfg.Listen.Mode == "bind" {
		fmt.Printf("Socket dir:    %s\n", cfg.Listen.Dir)
	}
	if cfg.Security.CertFile != "" {
		fmt.Printf("TLS:           on (client certs: %s)\n", cfg.Security.ClientCertMode)
	} else {
		fmt.Printf("TLS:           off\n")
	}
	if cfg.Process.Idle > 0 {
		fmt.Printf("Idle exit:     %ds\n", cfg.Process.Idle)
	} else {
		fmt.Printf("Idle exit:     disabled\n")
	}
	if cfg.Mgmt.Socket != "" {
		fmt.Printf("Mgmt socket:   %s\n", cfg.Mgmt.Socket)
	}
	return nil
}
