package window

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// queue is a Dispatcher the test drives by hand
type queue struct {
	ch chan func()
}

func newQueue() *queue {
	return &queue{ch: make(chan func(), 64)}
}

func (q *queue) Post(fn func()) {
	q.ch <- fn
}

// run executes the next n callbacks, waiting for async posts
func (q *queue) run(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case fn := <-q.ch:
			fn()
		case <-time.After(2 * time.Second):
			t.Fatalf("callback %d of %d never posted", i+1, n)
		}
	}
}

// idle fails if anything is posted within a short window
func (q *queue) idle(t *testing.T) {
	t.Helper()
	select {
	case <-q.ch:
		t.Fatalf("unexpected callback posted")
	case <-time.After(50 * time.Millisecond):
	}
}

type fakeHandle struct {
	events Events

	loaded    []string
	shows     int
	hides     int
	minimizes int
	closes    int
	devTools  int
}

func (h *fakeHandle) Load(url string) { h.loaded = append(h.loaded, url) }
func (h *fakeHandle) Show()           { h.shows++ }
func (h *fakeHandle) Hide()           { h.hides++ }
func (h *fakeHandle) Minimize()       { h.minimizes++ }
func (h *fakeHandle) Close()          { h.closes++ }
func (h *fakeHandle) OpenDevTools()   { h.devTools++ }

type fakeBackend struct {
	err     error
	opts    []Options
	handles []*fakeHandle
}

func (b *fakeBackend) Create(opts Options, events Events) (Handle, error) {
	if b.err != nil {
		return nil, b.err
	}
	h := &fakeHandle{events: events}
	b.opts = append(b.opts, opts)
	b.handles = append(b.handles, h)
	return h, nil
}

func (b *fakeBackend) last() *fakeHandle {
	return b.handles[len(b.handles)-1]
}

type fakeScreen struct {
	area WorkArea
	err  error
}

func (s fakeScreen) PrimaryWorkArea() (WorkArea, error) {
	return s.area, s.err
}

// fakePrefs answers reads from a channel when gated, otherwise from value
type fakePrefs struct {
	mu    sync.Mutex
	value bool
	err   error
	reads int
	gate  chan bool
}

func (p *fakePrefs) Bool(ctx context.Context, key string) (bool, error) {
	p.mu.Lock()
	p.reads++
	gate, value, err := p.gate, p.value, p.err
	p.mu.Unlock()

	if gate != nil {
		return <-gate, nil
	}
	return value, err
}

func (p *fakePrefs) set(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = v
}

func (p *fakePrefs) readCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reads
}

type fakeMenus struct {
	built []Handle
}

func (m *fakeMenus) Build(h Handle) { m.built = append(m.built, h) }

var errBackend = errors.New("webview unavailable")
