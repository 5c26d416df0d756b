package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/atikulmunna/piqlog/internal/model"
	"github.com/atikulmunna/piqlog/internal/parser"
	"github.com/atikulmunna/piqlog/internal/source"
)

// Output formats accepted by the "output" key.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// SessionConfig holds the externally supplied identifiers for scanned logs.
type SessionConfig struct {
	LogID  string `mapstructure:"log_id"`
	Cycle  string `mapstructure:"cycle"`
	Ticket string `mapstructure:"ticket"`
}

// Config is the resolved piqlog configuration.
type Config struct {
	Session      SessionConfig  `mapstructure:"session"`
	Markers      parser.Markers `mapstructure:"markers"`
	Output       string         `mapstructure:"output"`
	Level        string         `mapstructure:"level"`
	MaxLineBytes int            `mapstructure:"max_line_bytes"`
	Listen       string         `mapstructure:"listen"`
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	def := parser.DefaultMarkers()
	v.SetDefault("markers.firmware", def.Firmware)
	v.SetDefault("markers.software", def.Software)
	v.SetDefault("markers.oem_flavor", def.OemFlavor)
	v.SetDefault("markers.device_flavor", def.DeviceFlavor)
	v.SetDefault("session.log_id", "")
	v.SetDefault("session.cycle", "")
	v.SetDefault("session.ticket", "")
	v.SetDefault("output", OutputText)
	v.SetDefault("level", "")
	v.SetDefault("max_line_bytes", source.DefaultMaxLineBytes)
	v.SetDefault("listen", "")
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.Output = strings.ToLower(strings.TrimSpace(cfg.Output))
	switch cfg.Output {
	case OutputText, OutputJSON, OutputYAML:
	case "":
		cfg.Output = OutputText
	default:
		return nil, fmt.Errorf("unknown output format %q (want text, json or yaml)", cfg.Output)
	}

	if cfg.MaxLineBytes <= 0 {
		cfg.MaxLineBytes = source.DefaultMaxLineBytes
	}

	return &cfg, nil
}

// SessionIDs converts the configured identifiers into tokens; empty means absent.
func (c *Config) SessionIDs() model.Session {
	return model.Session{
		LogID:  token(c.Session.LogID),
		Cycle:  token(c.Session.Cycle),
		Ticket: token(c.Session.Ticket),
	}
}

func token(s string) model.Token {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.None()
	}
	return model.Some(s)
}
