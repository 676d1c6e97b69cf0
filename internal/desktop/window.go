package desktop

import (
	"errors"
	"sync/atomic"

	"github.com/jcdorr003/oblivion-desktop/internal/window"
	"github.com/wailsapp/wails/v3/pkg/application"
	"github.com/wailsapp/wails/v3/pkg/events"
)

const mainWindowName = "main"

// handle adapts a wails window to window.Handle
type handle struct {
	w        *application.WebviewWindow
	devTools bool

	// passthrough lets the next native minimize through the minimize hook
	passthrough atomic.Bool
}

func (h *handle) Load(url string) {
	h.w.SetURL(url)
}

func (h *handle) Show() {
	if h.w.IsMinimised() {
		h.w.UnMinimise()
	}
	h.w.Show()
	h.w.Focus()
}

func (h *handle) Hide() {
	h.w.Hide()
}

func (h *handle) Minimize() {
	if h.w.IsMinimised() {
		return
	}
	h.passthrough.Store(true)
	h.w.Minimise()
}

func (h *handle) Close() {
	h.w.Close()
}

func (h *handle) OpenDevTools() {
	h.w.OpenDevTools()
}

// Create opens a webview window configured from opts
func (a *App) Create(opts window.Options, ev window.Events) (window.Handle, error) {
	wopts := application.WebviewWindowOptions{
		Name:            mainWindowName,
		Title:           opts.Title,
		Width:           opts.Width,
		Height:          opts.Height,
		DisableResize:   !opts.Resizable,
		Hidden:          opts.Hidden,
		DevToolsEnabled: opts.DevToolsEnabled,
		InitialPosition: application.WindowCentered,
	}
	if !opts.Center {
		wopts.InitialPosition = application.WindowXY
		wopts.X = opts.X
		wopts.Y = opts.Y
	}
	if !opts.Fullscreenable {
		wopts.MaximiseButtonState = application.ButtonDisabled
	}

	w := a.app.Window.NewWithOptions(wopts)
	if w == nil {
		return nil, errors.New("webview window not created")
	}
	h := &handle{w: w, devTools: opts.DevToolsEnabled}

	a.open.Add(1)
	a.links.bind(ev.WindowOpen)

	w.OnWindowEvent(events.Common.WindowRuntimeReady, func(*application.WindowEvent) {
		ev.ReadyToShow()
	})
	w.RegisterHook(events.Common.WindowMinimise, func(e *application.WindowEvent) {
		if h.passthrough.CompareAndSwap(true, false) {
			return
		}
		e.Cancel()
		ev.Minimize()
	})
	w.OnWindowEvent(events.Common.WindowClosing, func(*application.WindowEvent) {
		ev.Closed()
		a.windowClosed()
	})

	return h, nil
}

// PrimaryWorkArea reports the usable area of the primary display
func (a *App) PrimaryWorkArea() (window.WorkArea, error) {
	screen := a.app.Screen.GetPrimary()
	if screen == nil {
		return window.WorkArea{}, ErrNoDisplay
	}
	return window.WorkArea{
		Width:  screen.WorkArea.Width,
		Height: screen.WorkArea.Height,
	}, nil
}
