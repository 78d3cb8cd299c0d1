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

// statusView mirrors the management API status document.
type statusView struct {
	Version          string `json:"version" yaml:"version"`
	Commit           string `json:"commit" yaml:"commit"`
	GoVersion        string `json:"go_version" yaml:"go_version"`
	PID              int    `json:"pid" yaml:"pid"`
	StartedAt        int64  `json:"started_at" yaml:"started_at"`
	UptimeSeconds    int64  `json:"uptime_seconds" yaml:"uptime_seconds"`
	TLS              bool   `json:"tls" yaml:"tls"`
	ClientCertMode   string `json:"client_cert_mode" yaml:"client_cert_mode"`
	IdleGraceSeconds int64  `json:"idle_grace_seconds" yaml:"idle_grace_seconds"`
	ConnectionsOpen  int    `json:"connections_open" yaml:"connections_open"`
	ConnectionsTotal uint64 `json:"connections_total" yaml:"connections_total"`

	Certificate *certificateView `json:"certificate,omitempty" yaml:"certificate,omitempty"`
}

// certificateView mirrors the certificate section of the status document.
type certificateView struct {
	File        string   `json:"file" yaml:"file"`
	Subject     string   `json:"subject" yaml:"subject"`
	Issuer      string   `json:"issuer" yaml:"issuer"`
	DNSNames    []string `json:"dns_names,omitempty" yaml:"dns_names,omitempty"`
	NotBefore   int64    `json:"not_before" yaml:"not_before"`
	NotAfter    int64    `json:"not_after" yaml:"not_after"`
	Fingerprint string   `json:"fingerprint" yaml:"fingerprint"`
	LoadedAt    int64    `json:"loaded_at" yaml:"loaded_at"`
}

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show gateway status",
		Action: statusAction,
	}
}

func statusAction(c *cli.Context) error {
	client := NewClient(c)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Get(ctx, "/status")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result statusView
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	switch output.Format(flags.Output) {
	case output.FormatJSON, output.FormatYAML:
		formatter := output.NewFormatter(output.Format(flags.Output), flags.Wide)
		return formatter.Format(os.Stdout, result)
	default:
		printStatus(&result)
		return nil
	}
}

func printStatus(s *statusView) {
	fmt.Printf("Gateway Status\n")
	fmt.Printf("==============\n\n")

	fmt.Printf("Version:       %s (%s)\n", s.Version, s.Commit)
	fmt.Printf("Go:            %s\n", s.GoVersion)
	fmt.Printf("PID:           %d\n", s.PID)
	fmt.Printf("Uptime:        %s\n", (time.Duration(s.UptimeSeconds) * time.Second).String())

	if s.TLS {
		fmt.Printf("TLS:           on (client certs: %s)\n", s.ClientCertMode)
	} else {
		fmt.Printf("TLS:           off\n")
	}

	if s.IdleGraceSeconds > 0 {
		fmt.Printf("Idle exit:     after %s idle\n", (time.Duration(s.IdleGraceSeconds) * time.Second).String())
	} else {
		fmt.Printf("Idle exit:     disabled\n")
	}

	fmt.Printf("Connections:   %d open, %d total\n", s.ConnectionsOpen, s.ConnectionsTotal)

	if cert := s.Certificate; cert != nil {
		fmt.Printf("\nCertificate\n")
		fmt.Printf("-----------\n")
		fmt.Printf("File:         %s\n", cert.File)
		fmt.Printf("Subject:      %s\n", cert.Subject)
		fmt.Printf("Issuer:       %s\n", cert.Issuer)
		if len(cert.DNSNames) > 0 {
			fmt.Printf("DNS names:    %v\n", cert.DNSNames)
		}
		fmt.Printf("Expires:      %s\n", formatUnixMilli(cert.NotAfter))
		fmt.Printf("Fingerprint:  %s\n", cert.Fingerprint)
		fmt.Printf("Loaded:       %s\n", formatUnixMilli(cert.LoadedAt))
	}
}

// formatUnixMilli renders a Unix-milliseconds timestamp for humans.
func formatUnixMilli(ms int64) string {
	if ms <= 0 {
		return "-"
	}
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04:05")
}
