// Package prefs reads user settings persisted by the UI.
//
// Settings are never cached: every lookup goes back to the settings file so a
// toggle made in the UI takes effect on the next event that consults it.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// KeySystemTray enables minimize-to-tray
const KeySystemTray = "systemTray"

// Gateway is the read side of the settings store
type Gateway interface {
	// Bool returns the boolean stored under key. Missing keys read as false.
	Bool(ctx context.Context, key string) (bool, error)
}

// FileStore is a Gateway over the JSON settings file shared with the UI
type FileStore struct {
	logger *zap.SugaredLogger
	path   string

	mu sync.Mutex // serializes Set read-modify-write
}

// NewFileStore creates a settings store backed by path
func NewFileStore(logger *zap.SugaredLogger, path string) *FileStore {
	return &FileStore{logger: logger, path: path}
}

// Path returns the settings file location
func (s *FileStore) Path() string {
	return s.path
}

// Bool reads key from a fresh parse of the settings file
func (s *FileStore) Bool(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read settings: %w", err)
	}

	if !v.IsSet(key) {
		return false, nil
	}
	return v.GetBool(key), nil
}

// set stores value under key, keeping every other setting intact. The UI
// owns the settings file; the shell only reads it.
func (s *FileStore) set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := map[string]any{}
	data, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		if len(data) > 0 {
			if err := json.Unmarshal(data, &settings); err != nil {
				return fmt.Errorf("decode settings: %w", err)
			}
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return fmt.Errorf("read settings: %w", err)
	}

	settings[key] = value

	data, err = json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

// Watch logs edits to the settings file until the process exits.
// onChange, if non-nil, runs after each write event.
func (s *FileStore) Watch(onChange func()) error {
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("watch settings: %w", err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		s.logger.Debugw("⚙️  Settings changed", "file", e.Name, "op", e.Op.String())
		if onChange != nil {
			onChange()
		}
	})
	v.WatchConfig()
	return nil
}
