package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/atikulmunna/piqlog/internal/model"
	"github.com/atikulmunna/piqlog/internal/parser"
	"github.com/atikulmunna/piqlog/internal/source"
)

func load(t *testing.T, yaml string) (*Config, error) {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	if yaml != "" {
		path := filepath.Join(t.TempDir(), ".piqlog.yaml")
		if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
			t.Fatal(err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			t.Fatal(err)
		}
	}
	return Load(v)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(t, "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Output != OutputText {
		t.Errorf("Output = %q, want %q", cfg.Output, OutputText)
	}
	if cfg.MaxLineBytes != source.DefaultMaxLineBytes {
		t.Errorf("MaxLineBytes = %d, want %d", cfg.MaxLineBytes, source.DefaultMaxLineBytes)
	}
	if cfg.Markers != parser.DefaultMarkers() {
		t.Errorf("Markers = %+v, want defaults", cfg.Markers)
	}
	if s := cfg.SessionIDs(); s != (model.Session{}) {
		t.Errorf("expected absent session identifiers, got %+v", s)
	}
}

func TestLoadFile(t *testing.T) {
	cfg, err := load(t, `
output: JSON
level: "E,F"
listen: "127.0.0.1:9400"
session:
  log_id: "log-17"
  ticket: "PIQ-1234"
markers:
  firmware: 'FW=\S+'
`)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Output != OutputJSON {
		t.Errorf("Output = %q, want %q", cfg.Output, OutputJSON)
	}
	if cfg.Level != "E,F" {
		t.Errorf("Level = %q, want %q", cfg.Level, "E,F")
	}
	if cfg.Listen != "127.0.0.1:9400" {
		t.Errorf("Listen = %q, want %q", cfg.Listen, "127.0.0.1:9400")
	}
	if cfg.Markers.Firmware != `FW=\S+` {
		t.Errorf("Markers.Firmware = %q, want override", cfg.Markers.Firmware)
	}
	if cfg.Markers.Software != parser.DefaultMarkers().Software {
		t.Errorf("Markers.Software = %q, want default", cfg.Markers.Software)
	}

	s := cfg.SessionIDs()
	if s.LogID != model.Some("log-17") {
		t.Errorf("LogID = %s, want log-17", s.LogID)
	}
	if s.Ticket != model.Some("PIQ-1234") {
		t.Errorf("Ticket = %s, want PIQ-1234", s.Ticket)
	}
	if s.Cycle.Present() {
		t.Errorf("Cycle = %s, want absent", s.Cycle)
	}
}

func TestLoadUnknownOutput(t *testing.T) {
	if _, err := load(t, "output: xml\n"); err == nil {
		t.Error("expected error for unknown output format")
	}
}
