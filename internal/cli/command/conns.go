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

// connView mirrors one connection in the management API listing.
type connView struct {
	ID          string `json:"id" yaml:"id"`
	RemoteAddr  string `json:"remote_addr" yaml:"remote_addr"`
	Listener    string `json:"listener" yaml:"listener"`
	Protocol    string `json:"protocol" yaml:"protocol"`
	State       string `json:"state" yaml:"state"`
	PeerSubject string `json:"peer_subject,omitempty" yaml:"peer_subject,omitempty"`
	AcceptedAt  int64  `json:"accepted_at" yaml:"accepted_at"`
}

// connsView mirrors the management API connection listing.
type connsView struct {
	Count int        `json:"count" yaml:"count"`
	Items []connView `json:"items" yaml:"items"`
}

// ConnsCommand returns the conns command.
func ConnsCommand() *cli.Command {
	return &cli.Command{
		Name:    "conns",
		Aliases: []string{"connections"},
		Usage:   "List live connections",
		Action:  connsAction,
	}
}

func connsAction(c *cli.Context) error {
	client := NewClient(c)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Get(ctx, "/connections")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result connsView
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	switch output.Format(flags.Output) {
	case output.FormatJSON, output.FormatYAML:
		formatter := output.NewFormatter(output.Format(flags.Output), flags.Wide)
		return formatter.Format(os.Stdout, result)
	default:
		if result.Count == 0 {
			fmt.Println("No live connections.")
			return nil
		}
		return connsTable(&result, flags.Wide).Render(os.Stdout)
	}
}

// connsTable lays the listing out for terminal display.
func connsTable(list *connsView, wide bool) *output.Table {
	table := &output.Table{}
	if wide {
		table.SetHeaders("ID", "LISTENER", "PROTO", "STATE", "REMOTE", "AGE", "PEER")
	} else {
		table.SetHeaders("ID", "LISTENER", "PROTO", "STATE", "REMOTE", "AGE")
	}

	for _, item := range list.Items {
		id := item.ID
		if !wide {
			id = truncateID(id)
		}
		row := []string{
			id,
			item.Listener,
			orDash(item.Protocol),
			item.State,
			item.RemoteAddr,
			formatAge(item.AcceptedAt),
		}
		if wide {
			row = append(row, orDash(item.PeerSubject))
		}
		table.AddRow(row...)
	}

	return table
}

// truncateID shortens a connection ID for narrow table output.
func truncateID(id string) string {
	if len(id) <= 16 {
		return id
	}
	return id[:13] + "..."
}

// formatAge renders how long ago a Unix-milliseconds instant was.
func formatAge(acceptedAt int64) string {
	if acceptedAt <= 0 {
		return "-"
	}
	age := time.Since(time.UnixMilli(acceptedAt))
	if age < 0 {
		age = 0
	}
	return age.Truncate(time.Second).String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
