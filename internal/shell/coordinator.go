// Package shell coordinates the application lifecycle: it reacts to platform
// signals, drives the window and tray managers, and disables the proxy on
// every way out of the process.
package shell

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"sync"
	"sync/atomic"

	"github.com/jcdorr003/oblivion-desktop/internal/proxy"
	"go.uber.org/zap"
)

// Windows is the window manager as seen by the coordinator
type Windows interface {
	Create() error
	Exists() bool
	OpenDevTools()
	OnClosed(fn func())
}

// Tray is the tray manager as seen by the coordinator
type Tray interface {
	Arm() error
	OnQuit(fn func())
}

// Tooling prepares optional developer tooling
type Tooling interface {
	Prepare(ctx context.Context, force bool) error
}

// Platform ends the process. Quit returns before shutdown completes; the
// platform later calls WillQuit.
type Platform interface {
	Quit()
}

// Options are the launch signals the coordinator acts on
type Options struct {
	// Debug prepares developer tooling before the first window
	Debug bool
	// ForceTooling resets developer tooling even when present
	ForceTooling bool
	// OpenDevTools opens the inspector on the first window
	OpenDevTools bool
	// StaleLog is removed at startup if present
	StaleLog string
}

// Coordinator is the application lifecycle state machine
type Coordinator struct {
	logger   *zap.SugaredLogger
	loop     *Loop
	windows  Windows
	tray     Tray
	proxy    proxy.Controller
	platform Platform
	tooling  Tooling
	opts     Options

	state atomic.Int32

	// teardowns in flight; idle is signalled when it drops to zero
	mu        sync.Mutex
	idle      *sync.Cond
	teardowns int
}

// New creates a coordinator and registers it with the window and tray managers.
// tooling may be nil.
func New(logger *zap.SugaredLogger, loop *Loop, windows Windows, tray Tray, ctl proxy.Controller, platform Platform, tooling Tooling, opts Options) *Coordinator {
	c := &Coordinator{
		logger:   logger,
		loop:     loop,
		windows:  windows,
		tray:     tray,
		proxy:    ctl,
		platform: platform,
		tooling:  tooling,
		opts:     opts,
	}
	c.idle = sync.NewCond(&c.mu)
	windows.OnClosed(c.windowClosed)
	tray.OnQuit(c.RequestQuit)
	return c
}

// State returns the current lifecycle state
func (c *Coordinator) State() State {
	return State(c.state.Load())
}

// Start performs the work due before any window exists
func (c *Coordinator) Start() {
	c.removeStaleLog()
}

// Notify delivers a platform signal to the lifecycle goroutine
func (c *Coordinator) Notify(sig Signal) {
	c.loop.Post(func() { c.handle(sig) })
}

// WillQuit is the will-quit path: it issues the proxy teardown and marks the
// lifecycle terminated on the caller's goroutine. It never waits for the
// lifecycle goroutine, so the toolkit may call it from its main thread while
// a handler is blocked on that thread.
func (c *Coordinator) WillQuit() {
	c.teardown(SignalWillQuit.String())
	c.setState(StateTerminated)
}

// RequestQuit starts a full process shutdown
func (c *Coordinator) RequestQuit() {
	c.loop.Post(func() { c.quit("quit requested") })
}

// Wait blocks until every proxy teardown issued so far has returned.
// Teardowns issued while Wait blocks are waited for too.
func (c *Coordinator) Wait() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.teardowns > 0 {
		c.idle.Wait()
	}
}

func (c *Coordinator) handle(sig Signal) {
	c.logger.Debugw("Lifecycle signal", "signal", sig.String(), "state", c.State().String())

	switch sig {
	case SignalReady:
		c.ready()
	case SignalActivate:
		c.activate()
	case SignalAllClosed:
		c.quit(sig.String())
	case SignalWillQuit:
		c.WillQuit()
	default:
		c.logger.Warnw("Unknown lifecycle signal", "signal", int(sig))
	}
}

func (c *Coordinator) ready() {
	if c.State() != StateNotStarted {
		c.logger.Debugw("Ignoring repeated ready signal", "state", c.State().String())
		return
	}
	c.setState(StateReady)

	if c.opts.Debug && c.tooling != nil {
		if err := c.tooling.Prepare(context.Background(), c.opts.ForceTooling); err != nil {
			c.logger.Warnw("Developer tooling not prepared", "error", err)
		}
	}

	if err := c.windows.Create(); err != nil {
		c.logger.Errorw("Startup failed", "error", err)
		return
	}
	if c.opts.OpenDevTools {
		c.windows.OpenDevTools()
	}

	if err := c.tray.Arm(); err != nil {
		c.logger.Errorw("Failed to create tray icon", "error", err)
	}

	c.setState(StateRunning)
}

func (c *Coordinator) activate() {
	switch c.State() {
	case StateReady, StateRunning:
	default:
		c.logger.Debugw("Ignoring activate", "state", c.State().String())
		return
	}

	if c.windows.Exists() {
		return
	}
	if err := c.windows.Create(); err != nil {
		c.logger.Errorw("Failed to recreate window", "error", err)
		return
	}
	c.setState(StateRunning)
}

func (c *Coordinator) quit(reason string) {
	switch c.State() {
	case StateQuitting, StateTerminated:
		c.logger.Debugw("Quit already in progress", "reason", reason)
		return
	}

	c.logger.Infow("👋 Quitting", "reason", reason)
	c.setState(StateQuitting)
	c.platform.Quit()
}

func (c *Coordinator) windowClosed() {
	c.teardown("window-closed")
}

// teardown issues a proxy disable without waiting for it. Failures and
// panics are logged and never reach the caller. Safe from any goroutine.
func (c *Coordinator) teardown(path string) {
	c.logger.Infow("🔌 Disabling proxy", "path", path)

	c.mu.Lock()
	c.teardowns++
	c.mu.Unlock()

	go func() {
		defer c.teardownDone()
		defer func() {
			if r := recover(); r != nil {
				c.logger.Errorw("Proxy teardown panicked", "path", path, "panic", r)
			}
		}()

		if err := c.proxy.Disable(context.Background()); err != nil {
			c.logger.Warnw("Proxy teardown failed", "path", path, "error", err)
		}
	}()
}

func (c *Coordinator) teardownDone() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teardowns--
	if c.teardowns == 0 {
		c.idle.Broadcast()
	}
}

func (c *Coordinator) removeStaleLog() {
	if c.opts.StaleLog == "" {
		return
	}
	if err := os.Remove(c.opts.StaleLog); err != nil && !errors.Is(err, fs.ErrNotExist) {
		c.logger.Debugw("Stale log not removed", "file", c.opts.StaleLog, "error", err)
	}
}

// setState moves to s. Terminated is final: the will-quit path may set it
// from another goroutine while a handler is still running.
func (c *Coordinator) setState(s State) {
	for {
		prev := State(c.state.Load())
		if prev == StateTerminated && s != StateTerminated {
			c.logger.Debugw("Lifecycle already terminated", "ignored", s.String())
			return
		}
		if !c.state.CompareAndSwap(int32(prev), int32(s)) {
			continue
		}
		if prev != s {
			c.logger.Debugw("Lifecycle state", "from", prev.String(), "to", s.String())
		}
		return
	}
}
