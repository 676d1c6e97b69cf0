package config

import (
	"encoding/json"
	"os"

	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	EngineProcessDefault = "warp-plus"
)

// Config holds the launch-time configuration of the shell.
// Every field is read once at startup and never re-read.
type Config struct {
	Env               string `json:"env" mapstructure:"env"`
	DebugProd         bool   `json:"debugProd" mapstructure:"debugProd"`
	StartMinimized    bool   `json:"startMinimized" mapstructure:"startMinimized"`
	UpgradeExtensions bool   `json:"upgradeExtensions" mapstructure:"upgradeExtensions"`
	CustomWindowXY    bool   `json:"customWindowXY" mapstructure:"customWindowXY"`
	OpenDevTools      bool   `json:"openDevTools" mapstructure:"openDevTools"`
	EngineProcess     string `json:"engineProcess" mapstructure:"engineProcess"`
	ConfigDir         string `json:"-"`
	LogDir            string `json:"-"`
}

// envBindings maps config keys to the environment variables that override them
var envBindings = map[string]string{
	"env":               "OBLIVION_ENV",
	"debugProd":         "OBLIVION_DEBUG_PROD",
	"startMinimized":    "OBLIVION_START_MINIMIZED",
	"upgradeExtensions": "OBLIVION_UPGRADE_EXTENSIONS",
	"customWindowXY":    "OBLIVION_CUSTOM_WINDOW_XY",
	"openDevTools":      "OBLIVION_OPEN_DEVTOOLS",
	"engineProcess":     "OBLIVION_ENGINE_PROCESS",
}

// Load reads configuration from file, environment variables, and defaults
func Load() (*Config, error) {
	// Ensure directories exist first
	if err := EnsureDirs(); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set defaults
	v.SetDefault("env", EnvProduction)
	v.SetDefault("debugProd", false)
	v.SetDefault("startMinimized", false)
	v.SetDefault("upgradeExtensions", false)
	v.SetDefault("customWindowXY", false)
	v.SetDefault("openDevTools", false)
	v.SetDefault("engineProcess", EngineProcessDefault)

	// Configure config file
	configFile := GetConfigFile()
	v.SetConfigFile(configFile)
	v.SetConfigType("json")

	// Read existing config (ignore error if file doesn't exist)
	_ = v.ReadInConfig()

	// Environment variables override (e.g., OBLIVION_START_MINIMIZED=1)
	v.SetEnvPrefix("OBLIVION")
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	// Unmarshal into struct
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	// Set runtime paths
	cfg.ConfigDir = GetConfigDir()
	cfg.LogDir = GetLogDir()

	// Create default config file if it doesn't exist
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := writeDefaultConfig(configFile); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// IsDev reports whether the shell runs in the development configuration.
// Inspector access and custom window placement are gated on it.
func (c *Config) IsDev() bool {
	return c.Env == EnvDevelopment
}

// IsDebug reports whether debug tooling should be installed
func (c *Config) IsDebug() bool {
	return c.IsDev() || c.DebugProd
}

// writeDefaultConfig creates a new config file with defaults
func writeDefaultConfig(path string) error {
	cfg := &Config{
		Env:           EnvProduction,
		EngineProcess: EngineProcessDefault,
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
