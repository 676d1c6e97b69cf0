// Package window owns the single primary window of the app.
//
// All Manager methods, and every event callback it registers, run on the
// lifecycle goroutine behind the Dispatcher. The only work done elsewhere is
// the settings read that decides how a minimize is handled.
package window

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/jcdorr003/oblivion-desktop/internal/prefs"
	"github.com/pkg/browser"
	"go.uber.org/zap"
)

// ErrNoWindow is returned, or raised from lifecycle callbacks, when an
// operation needs the window and none exists
var ErrNoWindow = errors.New("main window is not defined")

// externalSchemes are the link schemes handed to the OS default handler
var externalSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
}

// Config wires a Manager to its collaborators
type Config struct {
	Backend    Backend
	Screen     ScreenInfo
	Prefs      prefs.Gateway
	Menus      MenuBuilder
	Dispatcher Dispatcher
	Profile    Profile

	// StartMinimized minimizes the first window instead of showing it
	StartMinimized bool

	// OpenExternal defaults to the system browser
	OpenExternal func(url string) error
}

// instance is the content of the single window cell
type instance struct {
	id         int
	handle     Handle
	visibility Visibility
	devTools   bool
	// ready is set by the first ready-to-show; reloads fire it again
	ready bool
}

// Manager creates, shows, hides and destroys the primary window
type Manager struct {
	logger *zap.SugaredLogger
	cfg    Config

	onClosed func()

	current *instance
	created int
}

// NewManager creates a window manager
func NewManager(logger *zap.SugaredLogger, cfg Config) *Manager {
	if cfg.OpenExternal == nil {
		cfg.OpenExternal = browser.OpenURL
	}
	return &Manager{
		logger: logger,
		cfg:    cfg,
	}
}

// OnClosed registers the hook run synchronously when the window reports closed
func (m *Manager) OnClosed(fn func()) {
	m.onClosed = fn
}

// Exists reports whether a window is live
func (m *Manager) Exists() bool {
	return m.current != nil
}

// Visibility returns the window state, or false when there is no window
func (m *Manager) Visibility() (Visibility, bool) {
	if m.current == nil {
		return Hidden, false
	}
	return m.current.visibility, true
}

// Create builds a new window and loads the UI entry.
// It does not check for an existing window; callers use Exists or ShowOrCreate.
func (m *Manager) Create() error {
	opts := m.options()
	inst := &instance{
		id:         m.created + 1,
		visibility: Hidden,
		devTools:   opts.DevToolsEnabled,
	}

	handle, err := m.cfg.Backend.Create(opts, m.events(inst))
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	inst.handle = handle

	if m.current != nil {
		m.logger.Warnw("Replacing a live window", "old", m.current.id, "new", inst.id)
	}
	m.created = inst.id
	m.current = inst

	handle.Load(EntryURL)
	if m.cfg.Menus != nil {
		m.cfg.Menus.Build(handle)
	}

	m.logger.Infow("🪟 Window created",
		"id", inst.id,
		"centered", opts.Center,
		"x", opts.X,
		"y", opts.Y,
		"devTools", opts.DevToolsEnabled,
	)
	return nil
}

// Show brings the window to the foreground
func (m *Manager) Show() error {
	if m.current == nil {
		return ErrNoWindow
	}
	m.current.handle.Show()
	m.current.visibility = Shown
	return nil
}

// Hide hides the window, leaving the process and tray alive.
// Hiding a hidden window is a no-op.
func (m *Manager) Hide() error {
	if m.current == nil {
		return ErrNoWindow
	}
	m.hide(m.current)
	return nil
}

// Destroy closes the window. The cell is cleared when the close is reported.
func (m *Manager) Destroy() error {
	if m.current == nil {
		return ErrNoWindow
	}
	m.current.handle.Close()
	return nil
}

// ShowOrCreate shows the window, creating one first if none exists
func (m *Manager) ShowOrCreate() error {
	if m.current == nil {
		return m.Create()
	}
	return m.Show()
}

// OpenDevTools opens the inspector when the window allows it
func (m *Manager) OpenDevTools() {
	if m.current == nil || !m.current.devTools {
		m.logger.Debug("Inspector request ignored")
		return
	}
	m.current.handle.OpenDevTools()
}

func (m *Manager) options() Options {
	p := m.cfg.Profile
	opts := baseOptions(p)
	if !p.Development {
		return opts
	}

	opts.DevToolsEnabled = true
	opts.DevToolsShortcut = true

	if p.CustomPosition {
		if m.cfg.Screen == nil {
			m.logger.Warn("Custom window position requested without screen info")
			return opts
		}
		area, err := m.cfg.Screen.PrimaryWorkArea()
		if err != nil {
			m.logger.Warnw("Primary display unavailable, centering window", "error", err)
			return opts
		}
		opts.Center = false
		opts.X, opts.Y = CustomPosition(area)
	}
	return opts
}

func (m *Manager) events(inst *instance) Events {
	post := m.cfg.Dispatcher.Post
	return Events{
		ReadyToShow: func() { post(func() { m.readyToShow(inst) }) },
		Minimize:    func() { post(func() { m.minimize(inst) }) },
		Closed:      func() { post(func() { m.closed(inst) }) },
		WindowOpen:  m.windowOpen,
	}
}

func (m *Manager) readyToShow(inst *instance) {
	if m.current == nil {
		m.logger.Errorw("Ready-to-show without a window", "error", ErrNoWindow)
		panic(ErrNoWindow)
	}
	if inst != m.current || inst.ready {
		m.logger.Debugw("Ignoring repeated ready-to-show", "id", inst.id)
		return
	}
	inst.ready = true

	if m.cfg.StartMinimized {
		// Launch flag applies to the first window only
		m.cfg.StartMinimized = false
		m.minimize(m.current)
		return
	}
	m.current.handle.Show()
	m.current.visibility = Shown
}

// minimize reads the tray preference off the lifecycle goroutine and applies
// the result back on it. Overlapping minimizes each read independently, so
// the last read to resolve decides the final state.
func (m *Manager) minimize(inst *instance) {
	if inst != m.current {
		return
	}

	gateway := m.cfg.Prefs
	go func() {
		toTray := false
		if gateway != nil {
			enabled, err := gateway.Bool(context.Background(), prefs.KeySystemTray)
			if err != nil {
				m.logger.Warnw("Failed to read tray preference", "error", err)
			}
			toTray = err == nil && enabled
		}
		m.cfg.Dispatcher.Post(func() { m.applyMinimize(inst, toTray) })
	}()
}

func (m *Manager) applyMinimize(inst *instance, toTray bool) {
	if inst != m.current {
		m.logger.Debugw("Minimize resolved after window closed", "id", inst.id)
		return
	}

	if toTray {
		m.hide(inst)
		m.logger.Debugw("Window minimized to tray", "id", inst.id)
		return
	}
	inst.handle.Minimize()
	inst.visibility = Minimized
}

func (m *Manager) hide(inst *instance) {
	if inst.visibility == Hidden {
		return
	}
	inst.handle.Hide()
	inst.visibility = Hidden
}

func (m *Manager) closed(inst *instance) {
	if m.onClosed != nil {
		m.onClosed()
	}

	if inst != m.current {
		m.logger.Debugw("Stale window closed", "id", inst.id)
		return
	}
	m.current = nil
	m.logger.Infow("🪟 Window closed", "id", inst.id)
}

// windowOpen sends links to the OS default handler and never opens them in-app
func (m *Manager) windowOpen(raw string) OpenAction {
	u, err := url.Parse(raw)
	if err != nil || !externalSchemes[u.Scheme] {
		m.logger.Warnw("Blocked window open request", "url", raw)
		return Deny
	}

	if err := m.cfg.OpenExternal(raw); err != nil {
		m.logger.Warnw("Failed to open link externally", "url", raw, "error", err)
	}
	return Deny
}
