// Package proxy tears down the proxy connection managed by the desktop app.
package proxy

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrUnsupported is returned when the OS proxy settings cannot be managed on this platform
var ErrUnsupported = errors.New("system proxy: unsupported platform")

// Controller disables the proxy. Disable must be safe to call any number of
// times, including when the proxy was never enabled.
type Controller interface {
	Disable(ctx context.Context) error
}

// SystemController clears the OS-level proxy settings and stops any engine
// process still running from this session
type SystemController struct {
	logger  *zap.SugaredLogger
	engines *EngineReaper

	resetSystemProxy func(ctx context.Context) error
}

// NewSystemController creates a controller that reaps processes named engineName
func NewSystemController(logger *zap.SugaredLogger, engineName string) *SystemController {
	return &SystemController{
		logger:           logger,
		engines:          NewEngineReaper(logger, engineName),
		resetSystemProxy: resetSystemProxy,
	}
}

// Disable turns the system proxy off and terminates the engine.
// Both steps always run; their errors are joined.
func (c *SystemController) Disable(ctx context.Context) error {
	var errs []error

	if err := c.resetSystemProxy(ctx); err != nil {
		if errors.Is(err, ErrUnsupported) {
			c.logger.Debugw("System proxy reset skipped", "error", err)
		} else {
			errs = append(errs, fmt.Errorf("reset system proxy: %w", err))
		}
	}

	stopped, err := c.engines.Reap(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("stop engine: %w", err))
	}

	if len(errs) == 0 {
		c.logger.Infow("🔌 Proxy disabled", "enginesStopped", stopped)
	}
	return errors.Join(errs...)
}
