package desktop

import (
	"runtime"

	"github.com/jcdorr003/oblivion-desktop/internal/window"
	"github.com/wailsapp/wails/v3/pkg/application"
)

// Build attaches the application menu. Windows with inspector access get a
// View menu with reload and developer tools entries.
func (a *App) Build(h window.Handle) {
	menu := a.app.NewMenu()
	if runtime.GOOS == "darwin" {
		menu.AddRole(application.AppMenu)
	}
	menu.AddRole(application.EditMenu)

	if wh, ok := h.(*handle); ok && wh.devTools {
		view := menu.AddSubmenu("View")
		view.Add("Reload").
			SetAccelerator("CmdOrCtrl+R").
			OnClick(func(*application.Context) {
				wh.w.Reload()
			})
		view.Add("Toggle Developer Tools").
			SetAccelerator("Alt+CmdOrCtrl+I").
			OnClick(func(*application.Context) {
				wh.w.OpenDevTools()
			})
	}

	a.app.Menu.Set(menu)
}
