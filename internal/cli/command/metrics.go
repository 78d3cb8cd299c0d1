// Package command provides CLI command definitions for consolegate-cli.
package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
)

// MetricsCommand returns the metrics command.
func MetricsCommand() *cli.Command {
	return &cli.Command{
		Name:  "metrics",
		Usage: "Dump the raw metrics exposition",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "match",
				Aliases: []string{"m"},
				Usage:   "Only lines containing this substring",
			},
		},
		Action: metricsAction,
	}
}

func metricsAction(c *cli.Context) error {
	client := NewClient(c)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	text, err := client.GetText(ctx, "/metrics")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	match := c.String("match")
	if match == "" {
		fmt.Print(text)
		return nil
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, match) {
			fmt.Println(line)
		}
	}
	return nil
}
