// Package command provides CLI command definitions for consolegate-cli.
package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/consolegate/consolegate-go/internal/cli/connection"
	"github.com/consolegate/consolegate-go/internal/cli/output"
)

// HealthCommand returns the health command.
func HealthCommand() *cli.Command {
	return &cli.Command{
		Name:   "health",
		Usage:  "Check gateway health",
		Action: healthAction,
	}
}

func healthAction(c *cli.Context) error {
	client := NewClient(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := client.Get(ctx, "/health")
	if err != nil {
		PrintError("health check failed: %v", err)
		return fmt.Errorf("gateway unreachable at %s", client.SocketPath())
	}

	var result struct {
		Status string `json:"status" yaml:"status"`
		Time   string `json:"time" yaml:"time"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	switch output.Format(flags.Output) {
	case output.FormatJSON, output.FormatYAML:
		formatter := output.NewFormatter(output.Format(flags.Output), flags.Wide)
		return formatter.Format(os.Stdout, result)
	default:
		if result.Status == "healthy" {
			fmt.Printf("✓ Gateway is healthy\n")
			fmt.Printf("  Socket: %s\n", client.SocketPath())
		} else {
			fmt.Printf("✗ Gateway is unhealthy: %s\n", result.Status)
		}
		return nil
	}
}
