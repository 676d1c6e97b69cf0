package desktop

import (
	"github.com/jcdorr003/oblivion-desktop/internal/tray"
	"github.com/wailsapp/wails/v3/pkg/application"
)

// Install renders the tray icon with the toolkit's own system tray so it
// shares the native event loop with the window.
func (a *App) Install(spec tray.Spec) error {
	menu := a.app.NewMenu()
	for _, entry := range spec.Entries {
		if entry.Kind == tray.Separator {
			menu.AddSeparator()
			continue
		}
		onClick := entry.OnClick
		item := menu.Add(entry.Label).OnClick(func(*application.Context) {
			if onClick != nil {
				onClick()
			}
		})
		if entry.Tooltip != "" {
			item.SetTooltip(entry.Tooltip)
		}
	}

	icon := a.app.SystemTray.New()
	icon.SetMenu(menu)
	if len(spec.Icon) > 0 {
		icon.SetIcon(spec.Icon)
	}
	icon.SetTooltip(spec.Tooltip)
	if spec.OnClick != nil {
		icon.OnClick(spec.OnClick)
	}
	// Linux calls the right click handler unconditionally
	icon.OnRightClick(icon.OpenMenu)
	return nil
}
