// Package command provides CLI command definitions for consolegate-cli.
package command

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/consolegate/consolegate-go/internal/cli/output"
	"github.com/consolegate/consolegate-go/internal/infra/certbundle"
)

// certInspectView is the machine-readable form of a local inspection.
type certInspectView struct {
	File        string    `json:"file" yaml:"file"`
	KeyFile     string    `json:"key_file,omitempty" yaml:"key_file,omitempty"`
	Subject     string    `json:"subject" yaml:"subject"`
	Issuer      string    `json:"issuer" yaml:"issuer"`
	DNSNames    []string  `json:"dns_names,omitempty" yaml:"dns_names,omitempty"`
	Serial      string    `json:"serial" yaml:"serial"`
	NotBefore   time.Time `json:"not_before" yaml:"not_before"`
	NotAfter    time.Time `json:"not_after" yaml:"not_after"`
	Fingerprint string    `json:"fingerprint" yaml:"fingerprint"`
	Chain       int       `json:"chain" yaml:"chain"`
}

// CertCommand returns the cert subcommand group.
func CertCommand() *cli.Command {
	return &cli.Command{
		Name:  "cert",
		Usage: "Certificate tooling",
		Subcommands: []*cli.Command{
			{
				Name:      "inspect",
				Usage:     "Inspect a certificate file as the gateway would load it",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "key",
						Aliases: []string{"k"},
						Usage:   "Private key file (when not combined with FILE)",
					},
				},
				Action: certInspectAction,
			},
		},
	}
}

func certInspectAction(c *cli.Context) error {
	certFile := c.Args().First()
	if certFile == "" {
		return fmt.Errorf("certificate file path required")
	}

	// Load exactly the way the server does at startup, so a file that
	// passes here starts there.
	bundle, err := certbundle.Load(certFile, c.String("key"))
	if err != nil {
		PrintError("%v", err)
		return fmt.Errorf("certificate rejected")
	}

	leaf := bundle.Leaf()
	result := certInspectView{
		File:        certFile,
		KeyFile:     c.String("key"),
		Subject:     leaf.Subject.String(),
		Issuer:      leaf.Issuer.String(),
		DNSNames:    leaf.DNSNames,
		Serial:      leaf.SerialNumber.String(),
		NotBefore:   leaf.NotBefore,
		NotAfter:    leaf.NotAfter,
		Fingerprint: bundle.Fingerprint(),
		Chain:       len(bundle.Chain()),
	}

	flags := ParseGlobalFlags(c)
	switch output.Format(flags.Output) {
	case output.FormatJSON, output.FormatYAML:
		formatter := output.NewFormatter(output.Format(flags.Output), flags.Wide)
		return formatter.Format(os.Stdout, result)
	default:
		printCertInspect(&result)
		return nil
	}
}

func printCertInspect(v *certInspectView) {
	fmt.Printf("Certificate: %s\n\n", v.File)

	fmt.Printf("Subject:      %s\n", v.Subject)
	fmt.Printf("Issuer:       %s\n", v.Issuer)
	if len(v.DNSNames) > 0 {
		fmt.Printf("DNS names:    %s\n", strings.Join(v.DNSNames, ", "))
	}
	fmt.Printf("Serial:       %s\n", v.Serial)
	fmt.Printf("Not before:   %s\n", v.NotBefore.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("Not after:    %s %s\n", v.NotAfter.Local().Format("2006-01-02 15:04:05"), expiryHint(v.NotAfter))
	fmt.Printf("Fingerprint:  %s\n", v.Fingerprint)
	if v.Chain > 1 {
		fmt.Printf("Chain:        %d certificates\n", v.Chain)
	}

	fmt.Printf("\n✓ Certificate and key pair is usable\n")
}

// expiryHint annotates a not-after instant with how far away it is.
func expiryHint(notAfter time.Time) string {
	remaining := time.Until(notAfter)
	if remaining <= 0 {
		return "(EXPIRED)"
	}
	days := int(remaining.Hours() / 24)
	if days < 1 {
		return fmt.Sprintf("(expires in %s)", remaining.Truncate(time.Minute))
	}
	return fmt.Sprintf("(expires in %dd)", days)
}
