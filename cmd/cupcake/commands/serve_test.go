package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeConfig drops a cupcake.yaml into dir and returns its path.
func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "cupcake.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestParseServeArgsDefaults(t *testing.T) {
	opts := parseServeArgs(nil)

	if opts.dir != "." {
		t.Errorf("Expected default dir %q, got %q", ".", opts.dir)
	}
	if opts.configPath != "" || opts.host != "" || opts.port != "" {
		t.Errorf("Expected no overrides, got %+v", opts)
	}
	if opts.watch != nil {
		t.Error("Expected watch unset so the config file decides")
	}
	if opts.debug {
		t.Error("Expected debug off by default")
	}
}

func TestParseServeArgsFlags(t *testing.T) {
	opts := parseServeArgs([]string{
		"my-bakery",
		"--port", "9000",
		"--host", "0.0.0.0",
		"--config", "menu.yaml",
		"--debug",
	})

	if opts.dir != "my-bakery" {
		t.Errorf("Expected dir my-bakery, got %q", opts.dir)
	}
	if opts.port != "9000" {
		t.Errorf("Expected port 9000, got %q", opts.port)
	}
	if opts.host != "0.0.0.0" {
		t.Errorf("Expected host 0.0.0.0, got %q", opts.host)
	}
	if opts.configPath != "menu.yaml" {
		t.Errorf("Expected config menu.yaml, got %q", opts.configPath)
	}
	if !opts.debug {
		t.Error("Expected debug on")
	}
}

func TestParseServeArgsWatchToggles(t *testing.T) {
	on := parseServeArgs([]string{"-w"})
	if on.watch == nil || !*on.watch {
		t.Error("Expected -w to force watch on")
	}

	off := parseServeArgs([]string{"--no-watch"})
	if off.watch == nil || *off.watch {
		t.Error("Expected --no-watch to force watch off")
	}

	unset := parseServeArgs([]string{"some-dir"})
	if unset.watch != nil {
		t.Error("Expected watch unset without a flag")
	}
}

func TestParseServeArgsFlagsAfterDirectory(t *testing.T) {
	opts := parseServeArgs([]string{"bakery", "-p", "9000"})

	if opts.dir != "bakery" {
		t.Errorf("Expected dir bakery, got %q", opts.dir)
	}
	if opts.port != "9000" {
		t.Errorf("Expected port 9000, got %q", opts.port)
	}
}

func TestServeCommandMissingDirectory(t *testing.T) {
	err := ServeCommand([]string{"/nonexistent/bakery"})
	if err == nil {
		t.Fatal("Expected error for missing directory")
	}
	if !strings.Contains(err.Error(), "directory does not exist") {
		t.Errorf("Expected 'directory does not exist' error, got: %v", err)
	}
}

func TestServeCommandInvalidPort(t *testing.T) {
	err := ServeCommand([]string{t.TempDir(), "--port", "cherry"})
	if err == nil {
		t.Fatal("Expected error for invalid port")
	}
	if !strings.Contains(err.Error(), "invalid port") {
		t.Errorf("Expected 'invalid port' error, got: %v", err)
	}
}

func TestServeCommandBadPrice(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "menu:\n  unit_price: \"free\"\n")

	err := ServeCommand([]string{dir})
	if err == nil {
		t.Fatal("Expected error for unparseable price")
	}
	if !strings.Contains(err.Error(), "unit_price") {
		t.Errorf("Expected error to name unit_price, got: %v", err)
	}
	if !strings.Contains(err.Error(), "Tip") {
		t.Errorf("Expected a pricing tip for the operator, got: %v", err)
	}
}

func TestServeCommandBadYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "menu: [\n")

	err := ServeCommand([]string{dir})
	if err == nil {
		t.Fatal("Expected error for malformed YAML")
	}
	if !strings.Contains(err.Error(), "cupcake.yaml") {
		t.Errorf("Expected error to name the config file, got: %v", err)
	}
}
