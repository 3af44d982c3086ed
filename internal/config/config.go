package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"armbuilder/internal/schema"
)

type Config struct {
	Server ServerConfig `yaml:"server" json:"server"`
	Log    LogConfig    `yaml:"log" json:"log"`
	Editor EditorConfig `yaml:"editor" json:"editor"`
	Export ExportConfig `yaml:"export" json:"export"`
}

type ServerConfig struct {
	Addr          string `yaml:"addr" json:"addr"`
	UseDiskStatic bool   `yaml:"use_disk_static" json:"use_disk_static"`
	StaticDir     string `yaml:"static_dir" json:"static_dir"`
}

type LogConfig struct {
	Level   string `yaml:"level" json:"level"`
	Format  string `yaml:"format" json:"format"`
	Journal bool   `yaml:"journal" json:"journal"`
}

type EditorConfig struct {
	// MoveDisplayUnit is cm or mm. Stored coordinates are always meters.
	MoveDisplayUnit string `yaml:"move_display_unit" json:"move_display_unit"`
	SeedDemo        bool   `yaml:"seed_demo" json:"seed_demo"`
	Title           string `yaml:"title" json:"title"`
}

type ExportConfig struct {
	FilenamePrefix string `yaml:"filename_prefix" json:"filename_prefix"`
}

func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

func (c *Config) ApplyDefaults() {
	if strings.TrimSpace(c.Server.Addr) == "" {
		c.Server.Addr = ":8080"
	}
	if strings.TrimSpace(c.Server.StaticDir) == "" {
		c.Server.StaticDir = "static"
	}
	if strings.TrimSpace(c.Log.Level) == "" {
		c.Log.Level = "info"
	}
	if strings.TrimSpace(c.Log.Format) == "" {
		c.Log.Format = "text"
	}
	if strings.TrimSpace(c.Editor.MoveDisplayUnit) == "" {
		c.Editor.MoveDisplayUnit = string(schema.Centimeters)
	}
	if strings.TrimSpace(c.Editor.Title) == "" {
		c.Editor.Title = "Robotic Arm Task Builder"
	}
	if strings.TrimSpace(c.Export.FilenamePrefix) == "" {
		c.Export.FilenamePrefix = "robotic-arm-tasks"
	}
}

func (c *Config) Validate() error {
	var errs []error
	if _, err := schema.ParseLengthUnit(c.Editor.MoveDisplayUnit); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unsupported log format %q (expected text or json)", c.Log.Format))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("unsupported log level %q", c.Log.Level))
	}
	return errors.Join(errs...)
}

// MoveUnit is the parsed editor.move_display_unit.
func (c *Config) MoveUnit() schema.LengthUnit {
	u, err := schema.ParseLengthUnit(c.Editor.MoveDisplayUnit)
	if err != nil {
		return schema.Centimeters
	}
	return u
}

// Load reads a YAML config. A missing file yields the defaults; environment
// overrides are applied either way.
func Load(path string) (*Config, error) {
	var r Config

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &r); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	r.ApplyEnv()
	r.ApplyDefaults()
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &r, nil
}
