// Package fyneui implements editor.Toolkit with Fyne.
//
// Fyne's event loop only runs on the process's main goroutine, so this
// backend suits programs that own main, such as the preview. The caller
// creates the toolkit on main and hands main over with Main; Open and Run
// may then be called from any goroutine, including the relay's UI thread.
// Reparenting into the host window goes through the native package once
// Fyne has realised the platform window.
package fyneui

import (
	"errors"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/vst3go/template/pkg/ui/editor"
	"github.com/vst3go/template/pkg/ui/native"
	"github.com/vst3go/template/pkg/ui/window"
)

var errNoNativeHandle = errors.New("fyneui: window has no native handle yet")

// Toolkit creates Fyne editor windows.
type Toolkit struct {
	app fyne.App

	mu  sync.Mutex
	win *fyneWindow
}

// New creates the Fyne application for appID. Call it on the main goroutine.
func New(appID string) *Toolkit {
	return NewWithApp(app.NewWithID(appID))
}

// NewWithApp wraps an existing application.
func NewWithApp(a fyne.App) *Toolkit {
	return &Toolkit{app: a}
}

// Main runs Fyne's event loop until Quit or until the last window closes.
// It must be called on the main goroutine. Open blocks until Main starts.
func (tk *Toolkit) Main() {
	tk.app.Run()
}

// Quit stops Main.
func (tk *Toolkit) Quit() {
	tk.do(tk.app.Quit, false)
}

func (tk *Toolkit) do(fn func(), wait bool) {
	tk.app.Driver().DoFromGoroutine(fn, wait)
}

// Open creates the hidden editor window on Fyne's loop.
func (tk *Toolkit) Open(opts editor.Options, onHandle func(window.Handle)) (editor.Window, error) {
	fw := &fyneWindow{tk: tk, onHandle: onHandle, closed: make(chan struct{})}

	tk.do(func() {
		if opts.Theme == "dark" {
			tk.app.Settings().SetTheme(theme.DarkTheme())
		}

		var w fyne.Window
		if drv, ok := tk.app.Driver().(desktop.Driver); ok && !opts.Decorations {
			w = drv.CreateSplashWindow()
			w.SetTitle(opts.Title)
		} else {
			w = tk.app.NewWindow(opts.Title)
		}
		w.SetFixedSize(!opts.Resizable)
		w.Resize(fyne.NewSize(float32(opts.Width), float32(opts.Height)))
		w.SetContent(content(opts.Title))
		w.SetOnClosed(fw.markClosed)
		fw.w = w
	}, true)

	tk.mu.Lock()
	tk.win = fw
	tk.mu.Unlock()
	return fw, nil
}

// Run blocks until the window opened last is closed. Fyne's own loop keeps
// running in Main.
func (tk *Toolkit) Run() error {
	tk.mu.Lock()
	fw := tk.win
	tk.mu.Unlock()

	if fw == nil {
		return errors.New("fyneui: Run called before Open")
	}
	<-fw.closed
	return nil
}

func content(title string) fyne.CanvasObject {
	label := widget.NewLabelWithStyle(title, fyne.TextAlignCenter, fyne.TextStyle{})
	button := widget.NewButton("template", func() {})
	return container.NewPadded(container.NewVBox(label, button))
}

type fyneWindow struct {
	tk       *Toolkit
	w        fyne.Window
	onHandle func(window.Handle)

	mu     sync.Mutex
	handle window.Handle

	closeOnce  sync.Once
	closedOnce sync.Once
	closed     chan struct{}
}

func (fw *fyneWindow) markClosed() {
	fw.closedOnce.Do(func() { close(fw.closed) })
}

// nativeHandle asks Fyne for the platform window and reports it through
// onHandle when it changes.
func (fw *fyneWindow) nativeHandle() window.Handle {
	var h window.Handle
	fw.tk.do(func() {
		nw, ok := fw.w.(driver.NativeWindow)
		if !ok {
			return
		}
		nw.RunNative(func(ctx any) {
			h = handleFromContext(ctx)
		})
	}, true)

	fw.mu.Lock()
	changed := h.IsValid() && h != fw.handle
	if changed {
		fw.handle = h
	}
	fw.mu.Unlock()

	if changed {
		fw.onHandle(h)
	}
	return h
}

func handleFromContext(ctx any) window.Handle {
	switch c := ctx.(type) {
	case driver.WindowsWindowContext:
		return window.FromRaw(c.HWND)
	case *driver.WindowsWindowContext:
		return window.FromRaw(c.HWND)
	case driver.X11WindowContext:
		return window.FromRaw(c.WindowHandle)
	case *driver.X11WindowContext:
		return window.FromRaw(c.WindowHandle)
	case driver.MacWindowContext:
		return window.FromRaw(c.NSWindow)
	case *driver.MacWindowContext:
		return window.FromRaw(c.NSWindow)
	default:
		return window.Null()
	}
}

func (fw *fyneWindow) current() window.Handle {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.handle
}

func (fw *fyneWindow) SetParent(parent window.Handle) error {
	if !parent.IsValid() && !fw.current().IsValid() {
		// Never realised, so never parented.
		return nil
	}
	if parent.IsValid() {
		// The platform window only exists once shown.
		fw.tk.do(fw.w.Show, true)
	}

	h := fw.nativeHandle()
	if !h.IsValid() {
		return errNoNativeHandle
	}
	return native.SetParent(h, parent)
}

func (fw *fyneWindow) SetVisible(visible bool) error {
	fw.tk.do(func() {
		if visible {
			fw.w.Show()
		} else {
			fw.w.Hide()
		}
	}, true)

	if h := fw.current(); h.IsValid() {
		return native.Show(h, visible)
	}
	return nil
}

// Close closes the window without quitting the application; Run returns
// straight away.
func (fw *fyneWindow) Close() {
	fw.closeOnce.Do(func() {
		fw.tk.do(fw.w.Close, false)
		fw.markClosed()
	})
}
