package window

// Visibility is the last state the manager put the window in
type Visibility int

const (
	Hidden Visibility = iota
	Shown
	Minimized
)

func (v Visibility) String() string {
	switch v {
	case Hidden:
		return "hidden"
	case Shown:
		return "shown"
	case Minimized:
		return "minimized"
	default:
		return "unknown"
	}
}

// OpenAction answers a request from window content to open a new window
type OpenAction int

const (
	Deny OpenAction = iota
	Allow
)

// Handle is a live native window
type Handle interface {
	// Load navigates the window to url
	Load(url string)
	// Show makes the window visible, restores it if minimized and focuses it
	Show()
	Hide()
	// Minimize performs a native minimize. It is not reported back through
	// Events.Minimize.
	Minimize()
	// Close destroys the window; the backend reports it through Events.Closed
	Close()
	OpenDevTools()
}

// Events are the native callbacks of one window.
// Backends may invoke them from any goroutine.
type Events struct {
	ReadyToShow func()
	// Minimize reports a user or OS minimize. The backend has already
	// prevented the native default.
	Minimize func()
	Closed   func()
	// WindowOpen is answered synchronously
	WindowOpen func(url string) OpenAction
}

// Backend creates native windows
type Backend interface {
	Create(opts Options, events Events) (Handle, error)
}

// MenuBuilder attaches the application menu to a window
type MenuBuilder interface {
	Build(h Handle)
}

// Dispatcher runs callbacks on the lifecycle goroutine
type Dispatcher interface {
	Post(fn func())
}
