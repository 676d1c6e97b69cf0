// Package devtools provisions the developer inspector profile used in debug
// builds. It only lays out directories; extension contents are dropped in by
// the developer.
package devtools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// DefaultExtensions get a directory in the inspector profile
var DefaultExtensions = []string{"react-developer-tools"}

// Provisioner lays out one directory per developer extension under a profile
// directory. An existing directory is kept unless a reset is forced.
type Provisioner struct {
	logger     *zap.SugaredLogger
	dir        string
	extensions []string
}

// NewProvisioner creates a provisioner rooted at dir
func NewProvisioner(logger *zap.SugaredLogger, dir string, extensions ...string) *Provisioner {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	return &Provisioner{logger: logger, dir: dir, extensions: extensions}
}

// Dir returns the profile directory
func (p *Provisioner) Dir() string {
	return p.dir
}

// Prepare creates every extension directory. With force, previous contents
// are removed first.
func (p *Provisioner) Prepare(ctx context.Context, force bool) error {
	for _, name := range p.extensions {
		if err := ctx.Err(); err != nil {
			return err
		}

		target := filepath.Join(p.dir, name)
		if force {
			if err := os.RemoveAll(target); err != nil {
				return fmt.Errorf("reset %s: %w", name, err)
			}
		} else if _, err := os.Stat(target); err == nil {
			p.logger.Debugw("Developer extension directory present", "name", name)
			continue
		}

		if err := os.MkdirAll(target, 0755); err != nil {
			return fmt.Errorf("prepare %s: %w", name, err)
		}
		p.logger.Infow("🧩 Developer extension directory prepared", "name", name, "path", target, "reset", force)
	}
	return nil
}
