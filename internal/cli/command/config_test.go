package command

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigCommand(t *testing.T) {
	cmd := ConfigCommand()
	if cmd == nil {
		t.Fatal("ConfigCommand returned nil")
	}

	if cmd.Name != "config" {
		t.Errorf("Name = %q, want %q", cmd.Name, "config")
	}

	subNames := make(map[string]bool)
	for _, sub := range cmd.Subcommands {
		subNames[sub.Name] = true
	}

	requiredSubs := []string{"show", "check"}
	for _, name := range requiredSubs {
		if !subNames[name] {
			t.Errorf("missing subcommand: %s", name)
		}
	}
}

func TestConfigShow_NoFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	ctx := makeTestContext(nil, nil, nil)
	if err := configShowAction(ctx); err != nil {
		t.Errorf("configShowAction() error = %v", err)
	}
}

func TestConfigShow_File(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeCLIConfig(t, home, "/run/consolegate/mgmt.sock")

	ctx := makeTestContext(nil, nil, nil)
	if err := configShowAction(ctx); err != nil {
		t.Errorf("configShowAction() error = %v", err)
	}
}

func TestConfigCheck_Valid(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "server.yaml")
	content := `listen:
  mode: bind
  dir: /run/consolegate
process:
  idle: 90
mgmt:
  socket: /run/consolegate/mgmt.sock
`
	if err := os.WriteFile(file, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	ctx := makeTestContext(nil, nil, []string{file})
	if err := configCheckAction(ctx); err != nil {
		t.Errorf("configCheckAction() error = %v", err)
	}
}

func TestConfigCheck_BadValue(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "server.yaml")
	content := `security:
  client_cert_mode: bogus
`
	if err := os.WriteFile(file, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	ctx := makeTestContext(nil, nil, []string{file})
	if err := configCheckAction(ctx); err == nil {
		t.Error("configCheckAction() expected error for a bad client_cert_mode")
	}
}

func TestConfigCheck_Malformed(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "server.yaml")
	if err := os.WriteFile(file, []byte("{{{ not yaml"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	ctx := makeTestContext(nil, nil, []string{file})
	if err := configCheckAction(ctx); err == nil {
		t.Error("configCheckAction() expected error for malformed YAML")
	}
}

func TestConfigCheck_MissingFile(t *testing.T) {
	ctx := makeTestContext(nil, nil, []string{"/does/not/exist.yaml"})
	if err := configCheckAction(ctx); err == nil {
		t.Error("configCheckAction() expected error for a missing file")
	}
}

func TestConfigCheck_NoArg(t *testing.T) {
	ctx := makeTestContext(nil, nil, nil)
	if err := configCheckAction(ctx); err == nil {
		t.Error("configCheckAction() expected error without a file argument")
	}
}
