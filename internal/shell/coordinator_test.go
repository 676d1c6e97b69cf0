package shell

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

type fakeWindows struct {
	exists    bool
	createErr error
	creates   int
	devTools  int
	onClosed  func()
}

func (w *fakeWindows) Create() error {
	w.creates++
	if w.createErr != nil {
		return w.createErr
	}
	w.exists = true
	return nil
}

func (w *fakeWindows) Exists() bool       { return w.exists }
func (w *fakeWindows) OpenDevTools()      { w.devTools++ }
func (w *fakeWindows) OnClosed(fn func()) { w.onClosed = fn }

// close simulates the window reporting closed on the lifecycle goroutine
func (w *fakeWindows) close() {
	w.exists = false
	w.onClosed()
}

type fakeTray struct {
	arms   int
	err    error
	onQuit func()
}

func (t *fakeTray) Arm() error       { t.arms++; return t.err }
func (t *fakeTray) OnQuit(fn func()) { t.onQuit = fn }

type fakeProxy struct {
	calls atomic.Int32
	err   error
	panic bool
}

func (p *fakeProxy) Disable(context.Context) error {
	p.calls.Add(1)
	if p.panic {
		panic("engine gone")
	}
	return p.err
}

type fakePlatform struct {
	quits int
}

func (p *fakePlatform) Quit() { p.quits++ }

type fakeTooling struct {
	err    error
	calls  int
	forced bool
}

func (f *fakeTooling) Prepare(_ context.Context, force bool) error {
	f.calls++
	f.forced = force
	return f.err
}

type fixture struct {
	c        *Coordinator
	loop     *Loop
	windows  *fakeWindows
	tray     *fakeTray
	proxy    *fakeProxy
	platform *fakePlatform
	tooling  *fakeTooling
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	f := &fixture{
		loop:     startLoop(t),
		windows:  &fakeWindows{},
		tray:     &fakeTray{},
		proxy:    &fakeProxy{},
		platform: &fakePlatform{},
		tooling:  &fakeTooling{},
	}
	f.c = New(zaptest.NewLogger(t).Sugar(), f.loop, f.windows, f.tray, f.proxy, f.platform, f.tooling, opts)
	t.Cleanup(f.c.Wait)
	return f
}

// notifySync delivers sig and waits until it has been handled
func notifySync(c *Coordinator, sig Signal) {
	c.loop.Call(func() { c.handle(sig) })
}

// sync waits for everything posted so far
func (f *fixture) sync() {
	f.loop.Call(func() {})
}

func TestReadyCreatesWindowThenArmsTray(t *testing.T) {
	f := newFixture(t, Options{})

	notifySync(f.c, SignalReady)

	if f.windows.creates != 1 {
		t.Errorf("windows created = %d, want 1", f.windows.creates)
	}
	if f.tray.arms != 1 {
		t.Errorf("tray armed %d times, want 1", f.tray.arms)
	}
	if got := f.c.State(); got != StateRunning {
		t.Errorf("State() = %v, want %v", got, StateRunning)
	}
	if f.tooling.calls != 0 {
		t.Errorf("tooling prepared outside debug")
	}

	notifySync(f.c, SignalReady)
	if f.windows.creates != 1 || f.tray.arms != 1 {
		t.Errorf("repeated ready re-ran startup")
	}
}

func TestReadyPreparesToolingInDebug(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "success"},
		{name: "failure does not block window", err: errors.New("offline")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Options{Debug: true, ForceTooling: true, OpenDevTools: true})
			f.tooling.err = tt.err

			notifySync(f.c, SignalReady)

			if f.tooling.calls != 1 || !f.tooling.forced {
				t.Errorf("tooling calls=%d forced=%v, want 1/true", f.tooling.calls, f.tooling.forced)
			}
			if f.windows.creates != 1 {
				t.Errorf("windows created = %d, want 1", f.windows.creates)
			}
			if f.windows.devTools != 1 {
				t.Errorf("inspector opened %d times, want 1", f.windows.devTools)
			}
		})
	}
}

func TestReadyWindowFailureIsLogged(t *testing.T) {
	f := newFixture(t, Options{})
	f.windows.createErr = errors.New("no webview")

	notifySync(f.c, SignalReady)

	if f.tray.arms != 0 {
		t.Errorf("tray armed after failed startup")
	}
	if got := f.c.State(); got != StateReady {
		t.Errorf("State() = %v, want %v", got, StateReady)
	}
}

func TestActivate(t *testing.T) {
	f := newFixture(t, Options{})

	notifySync(f.c, SignalActivate)
	if f.windows.creates != 0 {
		t.Errorf("activate before ready created a window")
	}

	notifySync(f.c, SignalReady)
	notifySync(f.c, SignalActivate)
	if f.windows.creates != 1 {
		t.Errorf("activate with live window created another: %d", f.windows.creates)
	}

	f.windows.exists = false
	notifySync(f.c, SignalActivate)
	if f.windows.creates != 2 {
		t.Errorf("activate without window: creates = %d, want 2", f.windows.creates)
	}
}

func TestWindowClosedTearsDownProxy(t *testing.T) {
	f := newFixture(t, Options{})
	notifySync(f.c, SignalReady)

	f.loop.Call(f.windows.close)
	f.c.Wait()

	if got := f.proxy.calls.Load(); got != 1 {
		t.Errorf("proxy disabled %d times, want 1", got)
	}
}

func TestAllClosedQuitsThenWillQuitTearsDown(t *testing.T) {
	f := newFixture(t, Options{})
	notifySync(f.c, SignalReady)

	f.loop.Call(f.windows.close)
	notifySync(f.c, SignalAllClosed)

	if f.platform.quits != 1 {
		t.Errorf("platform quits = %d, want 1", f.platform.quits)
	}
	if got := f.c.State(); got != StateQuitting {
		t.Errorf("State() = %v, want %v", got, StateQuitting)
	}

	notifySync(f.c, SignalWillQuit)
	f.c.Wait()

	if got := f.proxy.calls.Load(); got != 2 {
		t.Errorf("proxy disabled %d times, want 2 (window-closed and will-quit)", got)
	}
	if got := f.c.State(); got != StateTerminated {
		t.Errorf("State() = %v, want %v", got, StateTerminated)
	}
}

func TestTrayQuitConvergesOnPlatformQuit(t *testing.T) {
	f := newFixture(t, Options{})
	notifySync(f.c, SignalReady)

	f.tray.onQuit()
	f.tray.onQuit()
	f.sync()

	if f.platform.quits != 1 {
		t.Errorf("platform quits = %d, want 1", f.platform.quits)
	}

	notifySync(f.c, SignalWillQuit)
	f.c.Wait()
	if got := f.proxy.calls.Load(); got != 1 {
		t.Errorf("proxy disabled %d times, want 1", got)
	}
}

func TestWillQuitWithoutQuitRequest(t *testing.T) {
	f := newFixture(t, Options{})
	notifySync(f.c, SignalReady)

	notifySync(f.c, SignalWillQuit)
	f.c.Wait()

	if got := f.proxy.calls.Load(); got != 1 {
		t.Errorf("proxy disabled %d times, want 1", got)
	}
}

func TestTeardownFailuresNeverEscape(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		panic bool
	}{
		{name: "error", err: errors.New("access denied")},
		{name: "panic", panic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Options{})
			f.proxy.err, f.proxy.panic = tt.err, tt.panic

			notifySync(f.c, SignalWillQuit)
			f.c.Wait()

			if got := f.c.State(); got != StateTerminated {
				t.Errorf("State() = %v, want %v", got, StateTerminated)
			}
		})
	}
}

func TestStartRemovesStaleLog(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "log.txt")
	if err := os.WriteFile(stale, []byte("previous run"), 0644); err != nil {
		t.Fatal(err)
	}

	f := newFixture(t, Options{StaleLog: stale})
	f.c.Start()

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale log still present: %v", err)
	}

	// Missing file is not an error
	f.c.Start()
}

func TestStartIgnoresUnremovableLog(t *testing.T) {
	dir := t.TempDir()
	// A non-empty directory cannot be removed with os.Remove
	stale := filepath.Join(dir, "log.txt")
	if err := os.MkdirAll(filepath.Join(stale, "child"), 0755); err != nil {
		t.Fatal(err)
	}

	f := newFixture(t, Options{StaleLog: stale})
	f.c.Start()

	if got := f.c.State(); got != StateNotStarted {
		t.Errorf("State() = %v, want %v", got, StateNotStarted)
	}
}

// mainThread runs toolkit calls one at a time, like a native UI thread
type mainThread struct {
	tasks chan func()
}

func newMainThread(t *testing.T) *mainThread {
	t.Helper()
	m := &mainThread{tasks: make(chan func())}
	go func() {
		for fn := range m.tasks {
			fn()
		}
	}()
	t.Cleanup(func() { close(m.tasks) })
	return m
}

func (m *mainThread) invokeSync(fn func()) {
	done := make(chan struct{})
	m.tasks <- func() {
		defer close(done)
		fn()
	}
	<-done
}

// mainThreadWindows creates windows through the main thread
type mainThreadWindows struct {
	*fakeWindows
	main    *mainThread
	entered chan struct{}
}

func (w *mainThreadWindows) Create() error {
	close(w.entered)
	var err error
	w.main.invokeSync(func() { err = w.fakeWindows.Create() })
	return err
}

func TestWillQuitOnMainThreadWhileHandlerWaitsForIt(t *testing.T) {
	ui := newMainThread(t)
	windows := &mainThreadWindows{fakeWindows: &fakeWindows{}, main: ui, entered: make(chan struct{})}
	proxy := &fakeProxy{}
	loop := startLoop(t)
	c := New(zaptest.NewLogger(t).Sugar(), loop, windows, &fakeTray{}, proxy, &fakePlatform{}, nil, Options{})
	c.setState(StateRunning)

	// The shutdown hook holds the main thread while a reopen is handled
	shutdown := make(chan struct{})
	ui.tasks <- func() {
		<-windows.entered
		c.WillQuit()
		c.Wait()
		close(shutdown)
	}
	c.Notify(SignalActivate)

	select {
	case <-shutdown:
	case <-time.After(2 * time.Second):
		t.Fatal("will-quit blocked behind the lifecycle goroutine")
	}
	if got := proxy.calls.Load(); got != 1 {
		t.Errorf("proxy disabled %d times, want 1", got)
	}

	loop.Call(func() {})
	if got := c.State(); got != StateTerminated {
		t.Errorf("State() = %v after late handler, want %v", got, StateTerminated)
	}
}

// gatedProxy blocks Disable until released
type gatedProxy struct {
	fakeProxy
	release chan struct{}
}

func (p *gatedProxy) Disable(ctx context.Context) error {
	<-p.release
	return p.fakeProxy.Disable(ctx)
}

func TestWaitCoversTeardownIssuedWhileWaiting(t *testing.T) {
	proxy := &gatedProxy{release: make(chan struct{})}
	windows := &fakeWindows{}
	loop := startLoop(t)
	c := New(zaptest.NewLogger(t).Sugar(), loop, windows, &fakeTray{}, proxy, &fakePlatform{}, nil, Options{})

	c.WillQuit()

	waited := make(chan struct{})
	go func() {
		c.Wait()
		close(waited)
	}()

	// Window closed during toolkit cleanup, after will-quit
	loop.Call(windows.onClosed)
	close(proxy.release)

	select {
	case <-waited:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait never returned")
	}
	c.Wait()
	if got := proxy.calls.Load(); got != 2 {
		t.Errorf("proxy disabled %d times, want 2", got)
	}
}
