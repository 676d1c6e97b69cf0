// Package tray keeps the tray icon alive for the whole process.
package tray

import (
	"errors"

	"go.uber.org/zap"
)

const (
	Tooltip   = "Oblivion Desktop"
	LabelOpen = "Oblivion Desktop"
	LabelQuit = "Exit"
	tipOpen   = "Show the Oblivion window"
	tipQuit   = "Disconnect and quit Oblivion"
)

// EntryKind distinguishes clickable entries from separators
type EntryKind int

const (
	Action EntryKind = iota
	Separator
)

// Entry is one context menu row
type Entry struct {
	Kind    EntryKind
	Label   string
	Tooltip string
	OnClick func()
}

// Spec is everything a backend needs to render the tray. It never changes after Arm.
type Spec struct {
	Icon    []byte
	Tooltip string
	// OnClick handles a click on the icon itself, where the backend supports it
	OnClick func()
	Entries []Entry
}

// Backend renders a tray icon
type Backend interface {
	Install(spec Spec) error
}

// Windows is the part of the window manager the tray drives
type Windows interface {
	ShowOrCreate() error
}

// Dispatcher runs callbacks on the lifecycle goroutine
type Dispatcher interface {
	Post(fn func())
}

// Manager owns the single tray icon
type Manager struct {
	logger   *zap.SugaredLogger
	backend  Backend
	dispatch Dispatcher
	windows  Windows
	icon     []byte

	onQuit func()
	armed  bool
}

// NewManager creates a tray manager
func NewManager(logger *zap.SugaredLogger, backend Backend, dispatch Dispatcher, windows Windows, icon []byte) *Manager {
	return &Manager{
		logger:   logger,
		backend:  backend,
		dispatch: dispatch,
		windows:  windows,
		icon:     icon,
	}
}

// OnQuit registers the handler for the Exit entry
func (m *Manager) OnQuit(fn func()) {
	m.onQuit = fn
}

// Armed reports whether the tray icon was installed
func (m *Manager) Armed() bool {
	return m.armed
}

// Arm installs the tray icon. Only the first call has an effect.
func (m *Manager) Arm() error {
	if m.armed {
		m.logger.Debug("Tray already armed")
		return nil
	}
	if m.backend == nil {
		return errors.New("tray backend not configured")
	}

	if err := m.backend.Install(m.spec()); err != nil {
		return err
	}
	m.armed = true
	m.logger.Info("📌 Tray icon ready")
	return nil
}

func (m *Manager) spec() Spec {
	return Spec{
		Icon:    m.icon,
		Tooltip: Tooltip,
		OnClick: m.click,
		Entries: []Entry{
			{Kind: Action, Label: LabelOpen, Tooltip: tipOpen, OnClick: m.click},
			{Kind: Separator},
			{Kind: Action, Label: LabelQuit, Tooltip: tipQuit, OnClick: m.quit},
		},
	}
}

// click shows the window, re-creating it if it was destroyed
func (m *Manager) click() {
	m.dispatch.Post(func() {
		if err := m.windows.ShowOrCreate(); err != nil {
			m.logger.Warnw("Failed to show window from tray", "error", err)
		}
	})
}

func (m *Manager) quit() {
	m.logger.Info("Quit requested from tray")
	if m.onQuit != nil {
		m.onQuit()
	}
}
