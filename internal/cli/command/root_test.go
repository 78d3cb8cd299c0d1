package command

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v2"
)

func TestApp(t *testing.T) {
	app := App()
	if app == nil {
		t.Fatal("App() returned nil")
	}

	// Check app metadata
	if app.Name != "consolegate-cli" {
		t.Errorf("Name = %q, want %q", app.Name, "consolegate-cli")
	}
	if app.Usage == "" {
		t.Error("Usage should not be empty")
	}

	// Check commands exist
	commandNames := make(map[string]bool)
	for _, cmd := range app.Commands {
		commandNames[cmd.Name] = true
	}

	requiredCommands := []string{
		"status", "conns", "health", "metrics",
		"cert", "config", "connect", "use", "repl",
	}
	for _, name := range requiredCommands {
		if !commandNames[name] {
			t.Errorf("missing required command: %s", name)
		}
	}
}

func TestApp_GlobalFlags(t *testing.T) {
	app := App()

	flagNames := make(map[string]bool)
	for _, flag := range app.Flags {
		flagNames[flag.Names()[0]] = true
	}

	requiredFlags := []string{"socket", "output", "wide", "verbose"}
	for _, name := range requiredFlags {
		if !flagNames[name] {
			t.Errorf("missing required flag: %s", name)
		}
	}
}

func TestApp_Before(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	app := App()

	// Initialize metadata map (normally done by cli.App.Run)
	app.Metadata = make(map[string]interface{})

	// Run Before hook
	ctx := cli.NewContext(app, nil, nil)
	if err := app.Before(ctx); err != nil {
		t.Fatalf("Before hook failed: %v", err)
	}

	if getCLIConfig(ctx) == nil {
		t.Error("CLI config should be loaded by Before hook")
	}
	if GetManager(ctx) == nil {
		t.Error("endpoint manager should be created by Before hook")
	}
}

func TestGlobalFlags(t *testing.T) {
	flags := globalFlags()

	if len(flags) == 0 {
		t.Error("globalFlags should return flags")
	}

	for _, flag := range flags {
		if len(flag.Names()) == 0 {
			t.Error("flag should have at least one name")
		}
	}
}

func TestGlobalFlags_EnvVars(t *testing.T) {
	flags := globalFlags()

	envVarFlags := make(map[string][]string)
	for _, flag := range flags {
		if sf, ok := flag.(*cli.StringFlag); ok {
			envVarFlags[sf.Name] = sf.EnvVars
		}
	}

	if len(envVarFlags["socket"]) == 0 || envVarFlags["socket"][0] != "CONSOLEGATE_MGMT_SOCKET" {
		t.Error("socket flag should have CONSOLEGATE_MGMT_SOCKET env var")
	}
}

func TestParseGlobalFlags(t *testing.T) {
	app := &cli.App{
		Flags: globalFlags(),
		Action: func(c *cli.Context) error {
			flags := ParseGlobalFlags(c)

			if flags.Socket != "/tmp/test.sock" {
				t.Errorf("Socket = %q, want %q", flags.Socket, "/tmp/test.sock")
			}
			if flags.Output != "json" {
				t.Errorf("Output = %q, want %q", flags.Output, "json")
			}
			if !flags.Wide {
				t.Error("Wide should be true")
			}
			if !flags.Verbose {
				t.Error("Verbose should be true")
			}
			return nil
		},
	}

	args := []string{
		"test",
		"--socket", "/tmp/test.sock",
		"--output", "json",
		"--wide",
		"--verbose",
	}

	if err := app.Run(args); err != nil {
		t.Fatalf("app.Run failed: %v", err)
	}
}

func TestParseGlobalFlags_Defaults(t *testing.T) {
	app := &cli.App{
		Flags: globalFlags(),
		Action: func(c *cli.Context) error {
			flags := ParseGlobalFlags(c)

			if flags.Socket != "/run/consolegate/mgmt.sock" {
				t.Errorf("Socket default = %q, want %q", flags.Socket, "/run/consolegate/mgmt.sock")
			}
			if flags.Output != "table" {
				t.Errorf("Output default = %q, want %q", flags.Output, "table")
			}
			if flags.Wide {
				t.Error("Wide default should be false")
			}
			if flags.Verbose {
				t.Error("Verbose default should be false")
			}
			return nil
		},
	}

	if err := app.Run([]string{"test"}); err != nil {
		t.Fatalf("app.Run failed: %v", err)
	}
}

func TestGetManager(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	app := App()
	app.Metadata = make(map[string]interface{})

	// Without Before hook, should return nil
	ctx := cli.NewContext(app, nil, nil)
	if GetManager(ctx) != nil {
		t.Error("should return nil without Before hook")
	}

	// After Before hook, should return the manager
	app.Before(ctx)
	if GetManager(ctx) == nil {
		t.Error("should return manager after Before hook")
	}
}

func TestResolveSocket_FlagWins(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeCLIConfig(t, home, "/run/other/mgmt.sock")

	app := App()
	app.Action = func(c *cli.Context) error {
		if got := resolveSocket(c); got != "/tmp/flag.sock" {
			t.Errorf("resolveSocket() = %q, want %q", got, "/tmp/flag.sock")
		}
		return nil
	}

	args := []string{"consolegate-cli", "--socket", "/tmp/flag.sock"}
	if err := app.Run(args); err != nil {
		t.Fatalf("app.Run failed: %v", err)
	}
}

func TestResolveSocket_ConfigFallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeCLIConfig(t, home, "/run/other/mgmt.sock")

	app := App()
	app.Action = func(c *cli.Context) error {
		if got := resolveSocket(c); got != "/run/other/mgmt.sock" {
			t.Errorf("resolveSocket() = %q, want %q", got, "/run/other/mgmt.sock")
		}
		return nil
	}

	if err := app.Run([]string{"consolegate-cli"}); err != nil {
		t.Fatalf("app.Run failed: %v", err)
	}
}

// writeCLIConfig drops a CLI config with the given default socket under
// HOME.
func writeCLIConfig(t *testing.T, home, socket string) {
	t.Helper()

	dir := filepath.Join(home, ".consolegate")
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	content := "default_socket: " + socket + "\n"
	if err := os.WriteFile(filepath.Join(dir, "cli.yaml"), []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestPrintError(t *testing.T) {
	// Capture stderr
	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	PrintError("test error: %s", "details")

	w.Close()
	os.Stderr = oldStderr

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	if output != "error: test error: details\n" {
		t.Errorf("PrintError output = %q, want %q", output, "error: test error: details\n")
	}
}
