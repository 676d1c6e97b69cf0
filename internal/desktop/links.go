package desktop

import (
	"sync/atomic"

	"github.com/jcdorr003/oblivion-desktop/internal/window"
)

// LinkService is bound to the UI. The entry page routes external links and
// window.open through Open instead of navigating.
type LinkService struct {
	handler atomic.Pointer[func(string) window.OpenAction]
}

func (s *LinkService) bind(fn func(string) window.OpenAction) {
	if fn == nil {
		return
	}
	s.handler.Store(&fn)
}

// Open reports whether the UI may navigate to url itself. It is always false:
// links are handed to the OS.
func (s *LinkService) Open(url string) bool {
	fn := s.handler.Load()
	if fn == nil {
		return false
	}
	return (*fn)(url) == window.Allow
}
