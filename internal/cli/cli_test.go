package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/egmembers/internal/model"
	"gopkg.in/yaml.v3"
)

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("writeDefaultConfig failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}

	var cfg model.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("written config is not valid YAML: %v", err)
	}

	want := model.DefaultConfig()
	if cfg.Source.BaseURL != want.Source.BaseURL {
		t.Errorf("expected base_url %q, got %q", want.Source.BaseURL, cfg.Source.BaseURL)
	}
	if len(cfg.Source.Parliaments) != 1 || cfg.Source.Parliaments[0] != model.LatestParliament {
		t.Errorf("expected parliaments [%d], got %v", model.LatestParliament, cfg.Source.Parliaments)
	}
	if cfg.Output.Path != "data.sqlite" {
		t.Errorf("expected output path data.sqlite, got %q", cfg.Output.Path)
	}
	if !strings.Contains(string(data), "EGMEMBERS_") {
		t.Error("expected env prefix hint in header")
	}
}

func TestWriteDefaultConfigRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("keep: me\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := writeDefaultConfig(path); err == nil {
		t.Fatal("expected error for existing config")
	}

	data, _ := os.ReadFile(path)
	if string(data) != "keep: me\n" {
		t.Errorf("existing config was modified: %q", data)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"scrape", "member", "cache", "config", "version"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestSharedFlagsBoundPerCommand(t *testing.T) {
	for _, cmd := range []string{"scrape", "member"} {
		c, _, err := rootCmd.Find([]string{cmd})
		if err != nil {
			t.Fatalf("find %s: %v", cmd, err)
		}
		for name := range flagKeys {
			if name == "output" || name == "format" {
				continue
			}
			if c.Flags().Lookup(name) == nil {
				t.Errorf("%s: missing flag --%s", cmd, name)
			}
		}
	}
}
