package config

import (
	"os"
	"strconv"
	"strings"
)

const envPrefix = "ARMBUILDER_"

// ApplyEnv overrides file values with ARMBUILDER_* variables when set.
func (c *Config) ApplyEnv() {
	if val := getEnv("ADDR"); val != "" {
		c.Server.Addr = val
	}
	if val, ok := getEnvBool("DEV_STATIC"); ok {
		c.Server.UseDiskStatic = val
	}
	if val := getEnv("STATIC_DIR"); val != "" {
		c.Server.StaticDir = val
	}
	if val := getEnv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := getEnv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}
	if val, ok := getEnvBool("LOG_JOURNAL"); ok {
		c.Log.Journal = val
	}
	if val := getEnv("MOVE_UNIT"); val != "" {
		c.Editor.MoveDisplayUnit = val
	}
	if val, ok := getEnvBool("SEED_DEMO"); ok {
		c.Editor.SeedDemo = val
	}
	if val := getEnv("EXPORT_PREFIX"); val != "" {
		c.Export.FilenamePrefix = val
	}
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(envPrefix + key))
}

func getEnvBool(key string) (bool, bool) {
	val := getEnv(key)
	if val == "" {
		return false, false
	}
	switch strings.ToLower(val) {
	case "yes", "on":
		return true, true
	case "no", "off":
		return false, true
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, false
	}
	return b, true
}
