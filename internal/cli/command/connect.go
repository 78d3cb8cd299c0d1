// Package command provides CLI command definitions for consolegate-cli.
package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	cliconfig "github.com/consolegate/consolegate-go/internal/cli/config"
	"github.com/consolegate/consolegate-go/internal/cli/connection"
	"github.com/consolegate/consolegate-go/internal/cli/output"
)

// ConnectCommand returns the connect command.
func ConnectCommand() *cli.Command {
	return &cli.Command{
		Name:      "connect",
		Usage:     "Probe a gateway management socket",
		ArgsUsage: "[SOCKET]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Usage:   "Save the gateway under this name and make it current",
			},
		},
		Action: connectAction,
	}
}

func connectAction(c *cli.Context) error {
	socket := c.Args().First()
	if socket == "" {
		socket = resolveSocket(c)
	}

	mgr := GetManager(c)
	if mgr == nil {
		return fmt.Errorf("endpoint manager not initialized")
	}

	ep := &connection.Endpoint{
		Name:   c.String("name"),
		Socket: socket,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	spin := output.NewSpinner(os.Stderr, fmt.Sprintf("Probing %s", socket))
	spin.Start()
	if err := mgr.Connect(ctx, ep); err != nil {
		spin.Fail(fmt.Sprintf("No healthy gateway at %s", socket))
		return err
	}
	spin.Success(fmt.Sprintf("Gateway is healthy at %s", socket))

	if name := c.String("name"); name != "" {
		cfg := getCLIConfig(c)
		if cfg == nil {
			return fmt.Errorf("CLI config not initialized")
		}
		cfg.Gateways[name] = cliconfig.GatewayConfig{Socket: socket}
		cfg.CurrentGateway = name
		if err := cliconfig.Save(cfg, ""); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Printf("Saved gateway %q (current)\n", name)
	}

	return nil
}

// UseCommand returns the use command for switching saved gateways.
func UseCommand() *cli.Command {
	return &cli.Command{
		Name:      "use",
		Usage:     "Switch the current saved gateway",
		ArgsUsage: "NAME",
		Action:    useAction,
	}
}

func useAction(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return fmt.Errorf("gateway name required")
	}

	cfg := getCLIConfig(c)
	if cfg == nil {
		return fmt.Errorf("CLI config not initialized")
	}

	gw, ok := cfg.Gateways[name]
	if !ok {
		return fmt.Errorf("unknown gateway %q (save one with connect --name)", name)
	}

	cfg.CurrentGateway = name
	if err := cliconfig.Save(cfg, ""); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("Current gateway: %s (%s)\n", name, gw.Socket)
	return nil
}
