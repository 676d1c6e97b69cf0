//go:build linux

package proxy

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// resetSystemProxy sets the GNOME proxy mode to none. Desktops without
// gsettings report ErrUnsupported.
func resetSystemProxy(ctx context.Context) error {
	if _, err := exec.LookPath("gsettings"); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return ErrUnsupported
		}
		return err
	}

	if err := exec.CommandContext(ctx, "gsettings", "set", "org.gnome.system.proxy", "mode", "none").Run(); err != nil {
		return fmt.Errorf("gsettings: %w", err)
	}
	return nil
}
