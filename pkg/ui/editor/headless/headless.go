// Package headless implements editor.Toolkit without a display. The window
// only records what it was asked to do and the event loop waits for Close,
// so it can run on any goroutine.
package headless

import (
	"errors"
	"sync"

	"github.com/vst3go/template/pkg/ui/editor"
	"github.com/vst3go/template/pkg/ui/window"
)

// Toolkit creates headless windows.
type Toolkit struct {
	mu  sync.Mutex
	win *Window
}

// New returns a headless toolkit.
func New() *Toolkit {
	return &Toolkit{}
}

// Open creates the window. It has no native handle, so onHandle is never
// called.
func (tk *Toolkit) Open(opts editor.Options, onHandle func(window.Handle)) (editor.Window, error) {
	tk.mu.Lock()
	defer tk.mu.Unlock()

	tk.win = &Window{opts: opts, closed: make(chan struct{})}
	return tk.win, nil
}

// Run blocks until the window is closed.
func (tk *Toolkit) Run() error {
	tk.mu.Lock()
	w := tk.win
	tk.mu.Unlock()

	if w == nil {
		return errors.New("headless: Run called before Open")
	}
	<-w.closed
	return nil
}

// Window is the most recently opened window, or nil.
func (tk *Toolkit) Window() *Window {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	return tk.win
}

// Window records the editor's requested state.
type Window struct {
	opts editor.Options

	mu      sync.Mutex
	parent  window.Handle
	visible bool

	closed    chan struct{}
	closeOnce sync.Once
}

// Options returns the options the window was opened with.
func (w *Window) Options() editor.Options {
	return w.opts
}

func (w *Window) SetParent(parent window.Handle) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.parent = parent
	return nil
}

func (w *Window) SetVisible(visible bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visible = visible
	return nil
}

func (w *Window) Close() {
	w.closeOnce.Do(func() { close(w.closed) })
}

// Parent returns the last parent set.
func (w *Window) Parent() window.Handle {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.parent
}

// Visible reports whether the window was last shown.
func (w *Window) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

// Closed is closed once the window has been closed.
func (w *Window) Closed() <-chan struct{} {
	return w.closed
}
