//go:build windows

// Package win32ui implements editor.Toolkit directly on Win32. Unlike
// toolkits that insist on the process's main goroutine, its message loop
// runs on whichever locked OS thread opened the window, which is what the
// relay's UI thread provides inside a plugin.
package win32ui

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/vst3go/template/pkg/ui/editor"
	"github.com/vst3go/template/pkg/ui/native"
	"github.com/vst3go/template/pkg/ui/window"
)

const className = "VST3GoTemplateEditor"

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	gdi32    = windows.NewLazySystemDLL("gdi32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procRegisterClassExW = user32.NewProc("RegisterClassExW")
	procCreateWindowExW  = user32.NewProc("CreateWindowExW")
	procDefWindowProcW   = user32.NewProc("DefWindowProcW")
	procPostQuitMessage  = user32.NewProc("PostQuitMessage")
	procPostMessageW     = user32.NewProc("PostMessageW")
	procSendMessageW     = user32.NewProc("SendMessageW")
	procGetMessageW      = user32.NewProc("GetMessageW")
	procTranslateMessage = user32.NewProc("TranslateMessage")
	procDispatchMessageW = user32.NewProc("DispatchMessageW")
	procLoadCursorW      = user32.NewProc("LoadCursorW")
	procGetClientRect    = user32.NewProc("GetClientRect")
	procFillRect         = user32.NewProc("FillRect")

	procCreateSolidBrush = gdi32.NewProc("CreateSolidBrush")
	procDeleteObject     = gdi32.NewProc("DeleteObject")
	procGetStockObject   = gdi32.NewProc("GetStockObject")
	procSetTextColor     = gdi32.NewProc("SetTextColor")
	procSetBkMode        = gdi32.NewProc("SetBkMode")

	procGetModuleHandleW = kernel32.NewProc("GetModuleHandleW")
)

const (
	wsPopup       = 0x80000000
	wsChild       = 0x40000000
	wsVisible     = 0x10000000
	wsCaption     = 0x00C00000
	wsSysMenu     = 0x00080000
	wsThickFrame  = 0x00040000
	wsMinimizeBox = 0x00020000
	wsMaximizeBox = 0x00010000

	ssCenter     = 0x0001
	bsPushButton = 0x0000

	cwUseDefault = 0x80000000

	wmDestroy        = 0x0002
	wmClose          = 0x0010
	wmEraseBkgnd     = 0x0014
	wmSetFont        = 0x0030
	wmCtlColorStatic = 0x0138

	colorWindow    = 5
	idcArrow       = 32512
	defaultGUIFont = 17
	bkTransparent  = 1
)

type wndClassExW struct {
	CbSize        uint32
	Style         uint32
	LpfnWndProc   uintptr
	CbClsExtra    int32
	CbWndExtra    int32
	HInstance     uintptr
	HIcon         uintptr
	HCursor       uintptr
	HbrBackground uintptr
	LpszMenuName  *uint16
	LpszClassName *uint16
	HIconSm       uintptr
}

type point struct {
	X, Y int32
}

type msg struct {
	HWnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      point
}

type rect struct {
	Left, Top, Right, Bottom int32
}

func rgb(r, g, b byte) uintptr {
	return uintptr(r) | uintptr(g)<<8 | uintptr(b)<<16
}

var (
	registerOnce sync.Once
	registerErr  error
	hInstance    uintptr

	// brushes holds the background brush of each themed editor window.
	brushesMu sync.Mutex
	brushes   = make(map[uintptr]uintptr)
)

func registerClass() error {
	registerOnce.Do(func() {
		hInstance, _, _ = procGetModuleHandleW.Call(0)
		cursor, _, _ := procLoadCursorW.Call(0, idcArrow)

		name, err := windows.UTF16PtrFromString(className)
		if err != nil {
			registerErr = err
			return
		}
		wc := wndClassExW{
			LpfnWndProc:   windows.NewCallback(wndProc),
			HInstance:     hInstance,
			HCursor:       cursor,
			HbrBackground: colorWindow + 1,
			LpszClassName: name,
		}
		wc.CbSize = uint32(unsafe.Sizeof(wc))

		if r, _, err := procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc))); r == 0 {
			registerErr = fmt.Errorf("win32ui: RegisterClassExW: %w", err)
		}
	})
	return registerErr
}

func brushFor(hwnd uintptr) uintptr {
	brushesMu.Lock()
	defer brushesMu.Unlock()
	return brushes[hwnd]
}

func wndProc(hwnd, umsg, wParam, lParam uintptr) uintptr {
	switch umsg {
	case wmEraseBkgnd:
		if brush := brushFor(hwnd); brush != 0 {
			var rc rect
			procGetClientRect.Call(hwnd, uintptr(unsafe.Pointer(&rc)))
			procFillRect.Call(wParam, uintptr(unsafe.Pointer(&rc)), brush)
			return 1
		}
	case wmCtlColorStatic:
		if brush := brushFor(hwnd); brush != 0 {
			procSetTextColor.Call(wParam, rgb(0xe6, 0xe6, 0xe6))
			procSetBkMode.Call(wParam, bkTransparent)
			return brush
		}
	case wmDestroy:
		brushesMu.Lock()
		if brush, ok := brushes[hwnd]; ok {
			procDeleteObject.Call(brush)
			delete(brushes, hwnd)
		}
		brushesMu.Unlock()
		procPostQuitMessage.Call(0)
		return 0
	}
	r, _, _ := procDefWindowProcW.Call(hwnd, umsg, wParam, lParam)
	return r
}

// Toolkit creates Win32 editor windows. Open and Run must be called on the
// same locked OS thread.
type Toolkit struct {
	mu       sync.Mutex
	win      *win32Window
	threadID uint32
}

// New returns a Win32 toolkit.
func New() *Toolkit {
	return &Toolkit{}
}

func windowStyle(opts editor.Options) uintptr {
	if !opts.Decorations {
		return wsPopup
	}
	style := uintptr(wsCaption | wsSysMenu | wsMinimizeBox)
	if opts.Resizable {
		style |= wsThickFrame | wsMaximizeBox
	}
	return style
}

// Open creates the hidden editor window: a centred title label above a
// "template" button.
func (tk *Toolkit) Open(opts editor.Options, onHandle func(window.Handle)) (editor.Window, error) {
	if err := registerClass(); err != nil {
		return nil, err
	}

	class, _ := windows.UTF16PtrFromString(className)
	title, err := windows.UTF16PtrFromString(opts.Title)
	if err != nil {
		return nil, fmt.Errorf("win32ui: title: %w", err)
	}

	hwnd, _, callErr := procCreateWindowExW.Call(
		0,
		uintptr(unsafe.Pointer(class)),
		uintptr(unsafe.Pointer(title)),
		windowStyle(opts),
		cwUseDefault, cwUseDefault,
		uintptr(opts.Width), uintptr(opts.Height),
		0, 0, hInstance, 0,
	)
	if hwnd == 0 {
		return nil, fmt.Errorf("win32ui: CreateWindowExW: %w", callErr)
	}

	if opts.Theme == "dark" {
		brush, _, _ := procCreateSolidBrush.Call(rgb(0x20, 0x20, 0x20))
		brushesMu.Lock()
		brushes[hwnd] = brush
		brushesMu.Unlock()
	}

	font, _, _ := procGetStockObject.Call(defaultGUIFont)
	label := createChild(hwnd, "STATIC", opts.Title, ssCenter, 0, opts.Height/2-40, opts.Width, 24)
	button := createChild(hwnd, "BUTTON", "template", bsPushButton, (opts.Width-100)/2, opts.Height/2, 100, 28)
	for _, child := range []uintptr{label, button} {
		if child != 0 {
			procSendMessageW.Call(child, wmSetFont, font, 1)
		}
	}

	w := &win32Window{hwnd: window.FromRaw(hwnd)}

	tk.mu.Lock()
	tk.win = w
	tk.threadID = windows.GetCurrentThreadId()
	tk.mu.Unlock()

	onHandle(w.hwnd)
	return w, nil
}

func createChild(parent uintptr, class, text string, style uintptr, x, y, width, height int) uintptr {
	classPtr, _ := windows.UTF16PtrFromString(class)
	textPtr, _ := windows.UTF16PtrFromString(text)
	hwnd, _, _ := procCreateWindowExW.Call(
		0,
		uintptr(unsafe.Pointer(classPtr)),
		uintptr(unsafe.Pointer(textPtr)),
		wsChild|wsVisible|style,
		uintptr(x), uintptr(y), uintptr(width), uintptr(height),
		parent, 0, hInstance, 0,
	)
	return hwnd
}

// Run pumps the thread's message queue until the window is destroyed.
func (tk *Toolkit) Run() error {
	tk.mu.Lock()
	w, owner := tk.win, tk.threadID
	tk.mu.Unlock()

	if w == nil {
		return errors.New("win32ui: Run called before Open")
	}
	if windows.GetCurrentThreadId() != owner {
		return errors.New("win32ui: Run must be called on the thread that called Open")
	}

	var m msg
	for {
		r, _, err := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		switch int32(r) {
		case 0:
			return nil
		case -1:
			return fmt.Errorf("win32ui: GetMessageW: %w", err)
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
	}
}

type win32Window struct {
	hwnd      window.Handle
	closeOnce sync.Once
}

func (w *win32Window) SetParent(parent window.Handle) error {
	return native.SetParent(w.hwnd, parent)
}

func (w *win32Window) SetVisible(visible bool) error {
	return native.Show(w.hwnd, visible)
}

// Close asks the owning thread to destroy the window; DestroyWindow only
// works there.
func (w *win32Window) Close() {
	w.closeOnce.Do(func() {
		procPostMessageW.Call(w.hwnd.Raw(), wmClose, 0, 0)
	})
}
