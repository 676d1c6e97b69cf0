// Package desktop binds the lifecycle core to the wails webview toolkit.
//
// wails owns the native event loop. Its callbacks arrive on toolkit
// goroutines and are forwarded to the coordinator, which serializes them.
package desktop

import (
	"errors"
	"io/fs"
	"sync/atomic"

	"github.com/jcdorr003/oblivion-desktop/internal/shell"
	"github.com/wailsapp/wails/v3/pkg/application"
	"github.com/wailsapp/wails/v3/pkg/events"
	"go.uber.org/zap"
)

// ErrNoDisplay is returned when the toolkit reports no primary screen
var ErrNoDisplay = errors.New("no primary display")

// Signals receives platform lifecycle signals. WillQuit and Wait are called
// on the toolkit main thread and must not wait for lifecycle handlers.
type Signals interface {
	Notify(sig shell.Signal)
	WillQuit()
	Wait()
}

// App is the wails application. It implements window.Backend,
// window.ScreenInfo, window.MenuBuilder, tray.Backend and shell.Platform.
type App struct {
	logger  *zap.SugaredLogger
	app     *application.App
	links   *LinkService
	signals Signals

	open atomic.Int32
}

// New creates the wails application serving the UI from assets
func New(logger *zap.SugaredLogger, name string, assets fs.FS, icon []byte) *App {
	a := &App{
		logger: logger,
		links:  &LinkService{},
	}
	a.app = application.New(application.Options{
		Name:        name,
		Description: "Unofficial WARP client",
		Icon:        icon,
		Services: []application.Service{
			application.NewService(a.links),
		},
		Assets: application.AssetOptions{
			Handler: application.AssetFileServerFS(assets),
		},
		Mac: application.MacOptions{
			// Window-all-closed is reported to the coordinator instead
			ApplicationShouldTerminateAfterLastWindowClosed: false,
		},
		OnShutdown: a.shutdown,
	})
	return a
}

// Attach forwards toolkit lifecycle events to signals
func (a *App) Attach(signals Signals) {
	a.signals = signals

	a.app.Event.OnApplicationEvent(events.Common.ApplicationStarted, func(*application.ApplicationEvent) {
		signals.Notify(shell.SignalReady)
	})
	a.app.Event.OnApplicationEvent(events.Mac.ApplicationShouldHandleReopen, func(*application.ApplicationEvent) {
		signals.Notify(shell.SignalActivate)
	})
}

// Run blocks on the native event loop
func (a *App) Run() error {
	return a.app.Run()
}

// Quit asks the toolkit to exit. The shutdown hook re-enters the
// coordinator, so the toolkit call is made off the lifecycle goroutine.
func (a *App) Quit() {
	go a.app.Quit()
}

// shutdown is the will-quit point: every exit path passes here. It runs on
// the main thread, which lifecycle handlers may be blocked on.
func (a *App) shutdown() {
	if a.signals == nil {
		return
	}
	a.signals.WillQuit()
	a.signals.Wait()
	a.logger.Info("✅ Shutdown complete")
}

// windowClosed tracks open windows and reports when the last one is gone
func (a *App) windowClosed() {
	if a.open.Add(-1) == 0 && a.signals != nil {
		a.signals.Notify(shell.SignalAllClosed)
	}
}
