package window

const (
	// Width and Height are fixed; the window is not resizable
	Width  = 400
	Height = 650

	// EntryURL is the single UI entry resource
	EntryURL = "/index.html"

	// Margins used by the developer window placement
	customRightMargin  = 60
	customBottomMargin = 160
)

// WorkArea is the usable area of a display, excluding task bars and docks
type WorkArea struct {
	Width  int
	Height int
}

// ScreenInfo reports the primary display geometry
type ScreenInfo interface {
	PrimaryWorkArea() (WorkArea, error)
}

// Profile selects the option set used for every window of the process
type Profile struct {
	Title string
	// Development enables inspector access and custom placement
	Development bool
	// CustomPosition pins the window to the bottom-right of the work area.
	// Only honoured in development.
	CustomPosition bool
}

// Options enumerates every option a window backend must honour
type Options struct {
	Title  string
	Width  int
	Height int

	// Center places the window with the OS default centering. X and Y are
	// only meaningful when Center is false.
	Center bool
	X      int
	Y      int

	Resizable       bool
	Fullscreenable  bool
	AutoHideMenuBar bool
	// Hidden keeps the window invisible until ready-to-show
	Hidden bool

	DevToolsEnabled  bool
	DevToolsShortcut bool
}

// baseOptions returns the production option set
func baseOptions(p Profile) Options {
	return Options{
		Title:           p.Title,
		Width:           Width,
		Height:          Height,
		Center:          true,
		Resizable:       false,
		Fullscreenable:  false,
		AutoHideMenuBar: true,
		Hidden:          true,
	}
}

// CustomPosition places a window in the bottom-right corner of area
func CustomPosition(area WorkArea) (x, y int) {
	return area.Width - Width - customRightMargin, area.Height - Height - customBottomMargin
}
