package config

import (
	"os"
	"path/filepath"
)

const (
	AppName = "Oblivion"
	AppID   = "oblivion-desktop"

	// HomeEnv overrides every per-user directory below. Used by portable builds and tests.
	HomeEnv = "OBLIVION_HOME"
)

// GetConfigDir returns the configuration directory
// Windows: %APPDATA%\Oblivion
// Others: ~/.config/oblivion-desktop
func GetConfigDir() string {
	if home := os.Getenv(HomeEnv); home != "" {
		return home
	}
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, AppName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", AppID)
}

// GetLogDir returns the log directory
// Windows: %LOCALAPPDATA%\Oblivion\logs
// Others: ~/.local/state/oblivion-desktop/logs
func GetLogDir() string {
	if home := os.Getenv(HomeEnv); home != "" {
		return filepath.Join(home, "logs")
	}
	if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
		return filepath.Join(localAppData, AppName, "logs")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", AppID, "logs")
}

// GetConfigFile returns the full path to the shell config file
func GetConfigFile() string {
	return filepath.Join(GetConfigDir(), "shell.json")
}

// GetSettingsFile returns the user settings file shared with the UI
func GetSettingsFile() string {
	return filepath.Join(GetConfigDir(), "settings.json")
}

// GetStaleLogFile returns the plain-text log left behind by the previous run
func GetStaleLogFile() string {
	return filepath.Join(GetConfigDir(), "log.txt")
}

// EnsureDirs creates config and log directories if they don't exist
func EnsureDirs() error {
	dirs := []string{GetConfigDir(), GetLogDir()}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
