package template

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vst3go/template/internal/testutil"
	"github.com/vst3go/template/pkg/framework/config"
	fwplugin "github.com/vst3go/template/pkg/framework/plugin"
	"github.com/vst3go/template/pkg/host"
	"github.com/vst3go/template/pkg/ui/editor"
	"github.com/vst3go/template/pkg/ui/relay"
	"github.com/vst3go/template/pkg/ui/window"
)

const (
	testTimeout = 5 * time.Second
	ownHandle   = window.Handle(0xabc)
)

// recordingHost collects DebugLog notices.
type recordingHost struct {
	mu    sync.Mutex
	lines []string
}

func (h *recordingHost) OnMessage(_ host.Tag, n host.Notice) {
	if d, ok := n.(host.DebugLog); ok {
		h.mu.Lock()
		h.lines = append(h.lines, d.Text)
		h.mu.Unlock()
	}
}

func (h *recordingHost) contains(s string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, l := range h.lines {
		if strings.Contains(l, s) {
			return true
		}
	}
	return false
}

type headlessWindow struct {
	mu        sync.Mutex
	parent    window.Handle
	parentErr error
	visible   bool
	shows     int
	closed    chan struct{}
	once      sync.Once
}

func (w *headlessWindow) SetParent(parent window.Handle) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.parentErr != nil {
		return w.parentErr
	}
	w.parent = parent
	return nil
}

func (w *headlessWindow) SetVisible(visible bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visible = visible
	w.shows++
	return nil
}

// applied reports how many show or hide requests reached the window.
func (w *headlessWindow) applied() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.shows
}

func (w *headlessWindow) Close() {
	w.once.Do(func() { close(w.closed) })
}

func (w *headlessWindow) snapshot() (window.Handle, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.parent, w.visible
}

type headlessToolkit struct {
	win    *headlessWindow
	opened editor.Options
}

func newHeadlessToolkit() *headlessToolkit {
	return &headlessToolkit{win: &headlessWindow{closed: make(chan struct{})}}
}

func (tk *headlessToolkit) Open(opts editor.Options, onHandle func(window.Handle)) (editor.Window, error) {
	tk.opened = opts
	onHandle(ownHandle)
	return tk.win, nil
}

func (tk *headlessToolkit) Run() error {
	<-tk.win.closed
	return nil
}

func newTestPlugin(t *testing.T, h host.Host, opts ...Option) *Plugin {
	t.Helper()
	opts = append([]Option{WithConfig(config.Default())}, opts...)
	p, err := New(h, 1, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestInfo(t *testing.T) {
	info := Info()
	if info.ID != "com.vst3go.template" || info.Name != "template" {
		t.Errorf("unexpected info: %+v", info)
	}
	if info.Kind != fwplugin.KindEffect {
		t.Errorf("Kind = %s, want effect", info.Kind)
	}
	if !info.Has(fwplugin.FlagWantNewTick) {
		t.Error("template should want ticks")
	}
}

func TestNewRequiresHost(t *testing.T) {
	if _, err := New(nil, 0, WithConfig(config.Default())); err == nil {
		t.Error("New(nil host) should fail")
	}
}

func TestEditorLifecycle(t *testing.T) {
	h := &recordingHost{}
	tk := newHeadlessToolkit()
	p := newTestPlugin(t, h, WithToolkit(tk))

	var (
		mu      sync.Mutex
		handles []window.Handle
	)
	p.SetProxy(host.ProxyFunc(func(w window.Handle) {
		mu.Lock()
		handles = append(handles, w)
		mu.Unlock()
	}))

	testutil.Eventually(t, testTimeout, func() bool {
		p.OnMessage(host.Generic{})
		return h.contains("UI initialised")
	}, "UI never reported initialisation")

	if tk.opened.Width != 200 || tk.opened.Height != 200 || tk.opened.Title != "template" {
		t.Errorf("editor opened with %+v", tk.opened)
	}

	if got := p.OnMessage(host.ShowEditor{Parent: window.FromRaw(0x1000)}); got != 0 {
		t.Errorf("OnMessage(ShowEditor) = %d, want 0", got)
	}
	testutil.Eventually(t, testTimeout, func() bool {
		p.OnMessage(host.Generic{})
		mu.Lock()
		defer mu.Unlock()
		return len(handles) == 1
	}, "editor handle never reached the proxy")

	mu.Lock()
	if handles[0] != ownHandle {
		t.Errorf("proxy got %s, want %s", handles[0], ownHandle)
	}
	mu.Unlock()

	parent, visible := tk.win.snapshot()
	if parent != window.FromRaw(0x1000) || !visible {
		t.Errorf("window parent=%s visible=%v", parent, visible)
	}

	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	testutil.RequireClosed(t, tk.win.closed, testTimeout, "window not closed on shutdown")
}

func TestHideDoesNotNotifyProxy(t *testing.T) {
	h := &recordingHost{}
	tk := newHeadlessToolkit()
	p := newTestPlugin(t, h, WithToolkit(tk))
	defer p.Close()

	calls := 0
	p.SetProxy(host.ProxyFunc(func(window.Handle) { calls++ }))

	p.OnMessage(host.ShowEditor{Parent: window.Null()})
	testutil.Eventually(t, testTimeout, func() bool {
		p.OnMessage(host.Generic{})
		return h.contains("UI initialised")
	})

	testutil.Eventually(t, testTimeout, func() bool {
		return tk.win.applied() == 1
	}, "hide never reached the window")
	p.OnMessage(host.Generic{})
	if calls != 0 {
		t.Errorf("proxy called %d times for a hide", calls)
	}
	if _, visible := tk.win.snapshot(); visible {
		t.Error("window visible after hide")
	}
}

// callbackHost fails the test if it receives a notice while the plugin is
// not inside a host callback.
type callbackHost struct {
	recordingHost
	inCall   atomic.Bool
	outsider atomic.Int32
}

func (h *callbackHost) OnMessage(tag host.Tag, n host.Notice) {
	if !h.inCall.Load() {
		h.outsider.Add(1)
	}
	h.recordingHost.OnMessage(tag, n)
}

func (h *callbackHost) call(fn func()) {
	h.inCall.Store(true)
	defer h.inCall.Store(false)
	fn()
}

func TestUILogDeliveredOnHostCallback(t *testing.T) {
	h := &callbackHost{}
	tk := newHeadlessToolkit()
	tk.win.parentErr = errors.New("no such window")

	var p *Plugin
	h.call(func() { p = newTestPlugin(t, h, WithToolkit(tk)) })

	h.call(func() { p.OnMessage(host.ShowEditor{Parent: window.FromRaw(0x1000)}) })
	testutil.Eventually(t, testTimeout, func() bool {
		_, visible := tk.win.snapshot()
		return visible
	}, "editor never shown")

	testutil.Eventually(t, testTimeout, func() bool {
		h.call(func() { p.OnMessage(host.Generic{}) })
		return h.contains("no such window")
	}, "set parent warning never reached the host")

	h.call(func() {
		if err := p.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	if n := h.outsider.Load(); n != 0 {
		t.Errorf("host notified %d times outside its callbacks", n)
	}
}

func TestLogQueueDropsWhenFull(t *testing.T) {
	q := newLogQueue(2)
	for _, line := range []string{"a", "b", "c", "d"} {
		q.push(line)
	}

	var got []string
	q.flush(func(line string) { got = append(got, line) })
	want := []string{"a", "b", "dropped 2 UI log lines"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("flush() = %q, want %q", got, want)
	}

	got = nil
	q.flush(func(line string) { got = append(got, line) })
	if len(got) != 0 {
		t.Errorf("second flush() = %q, want nothing", got)
	}
}

// The default toolkit runs on the relay's UI thread, never the main
// goroutine.
func TestDefaultToolkit(t *testing.T) {
	h := &recordingHost{}
	p := newTestPlugin(t, h)

	testutil.Eventually(t, testTimeout, func() bool {
		p.OnMessage(host.Generic{})
		return h.contains("UI initialised")
	}, "UI never reported initialisation")

	p.OnMessage(host.ShowEditor{Parent: window.Null()})
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if h.contains("UI thread exited with error") {
		t.Error("default toolkit failed off the main goroutine")
	}
}

func TestPassThroughCallbacks(t *testing.T) {
	p := newTestPlugin(t, &recordingHost{}, WithToolkit(newHeadlessToolkit()))
	defer p.Close()

	if got := p.NameOf(host.NameParam); got != "No names" {
		t.Errorf("NameOf() = %q", got)
	}
	if got := p.ProcessParam(0, 1234, host.ParamUpdateValue); got != 0 {
		t.Errorf("ProcessParam() = %d, want 0", got)
	}
	p.Tick()

	in := []host.Sample{{0.5, -0.5}, {1, 0}, {0, 1}}
	out := make([]host.Sample, len(in))
	p.Render(in, out)
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("frame %d = %v, want %v", i, out[i], in[i])
		}
	}
}

func TestSaveLoadState(t *testing.T) {
	h := &recordingHost{}
	p := newTestPlugin(t, h, WithToolkit(newHeadlessToolkit()))
	defer p.Close()

	var buf bytes.Buffer
	if err := p.SaveState(&buf); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	p.LoadState(&buf)
	if h.contains("error reading state") {
		t.Error("valid state reported as unreadable")
	}

	p.LoadState(strings.NewReader("definitely not a state"))
	if !h.contains("error reading state") {
		t.Error("corrupt state not logged")
	}
}

func TestUIPanicReportedAtClose(t *testing.T) {
	h := &recordingHost{}
	p := newTestPlugin(t, h, WithRunFunc(func(*relay.Endpoint) error {
		panic("toolkit exploded")
	}))

	err := p.Close()
	var pe *relay.PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("Close() = %v, want *relay.PanicError", err)
	}
	if !h.contains("UI thread exited with error") {
		t.Error("UI failure not logged to host")
	}
}

func TestShowEditorAfterUIExit(t *testing.T) {
	h := &recordingHost{}
	exited := make(chan struct{})
	p := newTestPlugin(t, h, WithRunFunc(func(*relay.Endpoint) error {
		close(exited)
		return nil
	}))
	defer p.Close()

	testutil.RequireClosed(t, exited, testTimeout)
	testutil.Eventually(t, testTimeout, func() bool {
		p.OnMessage(host.ShowEditor{Parent: window.FromRaw(0x1)})
		return h.contains("failed to forward ShowEditor")
	})
}

func TestLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "template.log")
	cfg := config.Default()
	cfg.Log.File = path

	h := &recordingHost{}
	p, err := New(h, 1, WithConfig(cfg), WithToolkit(newHeadlessToolkit()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.LoadState(strings.NewReader("junk"))
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "error reading state") {
		t.Errorf("log file missing entry: %q", data)
	}
}

func TestFactory(t *testing.T) {
	f := Factory(WithConfig(config.Default()), WithToolkit(newHeadlessToolkit()))
	p, err := f(&recordingHost{}, 3)
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	if p.Info().ID != ID {
		t.Errorf("factory built %s", p.Info().ID)
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
