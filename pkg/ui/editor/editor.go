// Package editor runs the plugin's editor window on the relay's UI thread.
//
// The Adapter is a small state machine (Hidden → Visible → Closed) driven by
// host messages. The windowing itself is delegated to a Toolkit so the state
// machine can be exercised without a display.
package editor

import (
	"errors"
	"fmt"
	rtdebug "runtime/debug"
	"sync"

	"github.com/vst3go/template/pkg/framework/debug"
	"github.com/vst3go/template/pkg/ui/relay"
	"github.com/vst3go/template/pkg/ui/window"
)

// State is the editor window's visibility state.
type State int

const (
	// Hidden is the initial state.
	Hidden State = iota
	// Visible means the window is parented into the host and shown.
	Visible
	// Closed is terminal.
	Closed
)

func (s State) String() string {
	switch s {
	case Hidden:
		return "Hidden"
	case Visible:
		return "Visible"
	case Closed:
		return "Closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options describe the editor window.
type Options struct {
	Title        string
	Width        int
	Height       int
	Resizable    bool
	Decorations  bool
	Theme        string
	Antialiasing bool
}

// DefaultOptions returns a fixed 200x200 undecorated dark window.
func DefaultOptions(title string) Options {
	return Options{
		Title:        title,
		Width:        200,
		Height:       200,
		Resizable:    false,
		Decorations:  false,
		Theme:        "dark",
		Antialiasing: true,
	}
}

// Window is a toolkit window as seen by the adapter.
type Window interface {
	// SetParent reparents the native window; a null parent detaches it.
	SetParent(parent window.Handle) error
	// SetVisible switches between windowed and hidden mode.
	SetVisible(visible bool) error
	// Close closes the window and ends the toolkit's event loop. It must be
	// safe to call more than once.
	Close()
}

// Toolkit creates the editor window and runs its event loop.
type Toolkit interface {
	// Open creates the window, initially hidden. onHandle is called
	// whenever the window's native handle is assigned.
	Open(opts Options, onHandle func(window.Handle)) (Window, error)
	// Run drives the event loop until the window is closed.
	Run() error
}

// Sender delivers UI messages to the host side.
type Sender interface {
	Send(msg relay.UIMessage) error
}

// Adapter applies host messages to the editor window.
type Adapter struct {
	win Window
	out Sender
	log *debug.Logger

	// mu guards hwnd and state. Both are written on the UI thread; the lock
	// lets tests and the toolkit callback read them safely.
	mu    sync.Mutex
	hwnd  window.Handle
	state State
}

// NewAdapter creates an adapter in the Hidden state.
func NewAdapter(win Window, out Sender, log *debug.Logger) *Adapter {
	if log == nil {
		log = debug.Default()
	}
	return &Adapter{win: win, out: out, log: log}
}

// SetHandle records the window's own native handle.
func (a *Adapter) SetHandle(h window.Handle) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hwnd = h
}

// Handle returns the window's own native handle.
func (a *Adapter) Handle() window.Handle {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hwnd
}

// State returns the current state.
func (a *Adapter) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Adapter) setState(s State) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = s
}

// Update applies one host message and returns the resulting state. Messages
// arriving after Terminate are ignored.
func (a *Adapter) Update(msg relay.HostMessage) State {
	if a.State() == Closed {
		return Closed
	}

	switch m := msg.(type) {
	case relay.ShowEditor:
		a.showEditor(m.Parent)
	case relay.StateChanged:
		a.log.Debug("state changed: %v", m.Change)
	case relay.Terminate:
		a.win.Close()
		a.setState(Closed)
	default:
		a.log.Warn("editor: unexpected message %T", msg)
	}
	return a.State()
}

func (a *Adapter) showEditor(parent window.Handle) {
	visible := parent.IsValid()

	if err := a.win.SetParent(parent); err != nil {
		a.log.Warn("editor: set parent %v: %v", parent, err)
	}
	if err := a.win.SetVisible(visible); err != nil {
		a.log.Warn("editor: set visible %v: %v", visible, err)
	}

	if !visible {
		a.setState(Hidden)
		return
	}
	a.setState(Visible)
	a.emit(relay.EditorHandleReady{Handle: a.Handle()})
}

func (a *Adapter) emit(msg relay.UIMessage) {
	if err := a.out.Send(msg); err != nil {
		a.log.Warn("editor: dropping %T: %v", msg, err)
	}
}

// pump announces the UI and then processes host messages in order until
// Terminate or until quit is closed. A panic closes the window so the
// toolkit loop can return.
func (a *Adapter) pump(in <-chan relay.HostMessage, quit <-chan struct{}) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &relay.PanicError{Value: v, Stack: rtdebug.Stack()}
			a.win.Close()
		}
	}()

	a.emit(relay.Initialized{})
	for {
		select {
		case msg := <-in:
			if a.Update(msg) == Closed {
				return nil
			}
		case <-quit:
			return nil
		}
	}
}

// runLoop runs the toolkit's event loop, turning a panic into an error.
func runLoop(tk Toolkit) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &relay.PanicError{Value: v, Stack: rtdebug.Stack()}
		}
	}()
	return tk.Run()
}

// Run opens the editor window with tk and serves ep until Terminate. It is
// meant to be the body of the relay's UI thread. If the toolkit loop fails
// or panics, the window is closed and the pump stopped before Run returns.
func Run(ep *relay.Endpoint, tk Toolkit, opts Options, log *debug.Logger) error {
	if opts.Title == "" {
		opts.Title = ep.Title()
	}

	a := NewAdapter(nil, ep, log)
	win, err := tk.Open(opts, a.SetHandle)
	if err != nil {
		return fmt.Errorf("editor: open window: %w", err)
	}
	a.win = win

	quit := make(chan struct{})
	pumped := make(chan error, 1)
	go func() {
		pumped <- a.pump(ep.Recv(), quit)
	}()

	if err := runLoop(tk); err != nil {
		win.Close()
		close(quit)
		<-pumped

		var pe *relay.PanicError
		if errors.As(err, &pe) {
			return pe
		}
		return fmt.Errorf("editor: event loop: %w", err)
	}
	return <-pumped
}

// Runner returns a relay.RunFunc that runs the editor with tk.
func Runner(tk Toolkit, opts Options, log *debug.Logger) relay.RunFunc {
	return func(ep *relay.Endpoint) error {
		return Run(ep, tk, opts, log)
	}
}
