//go:build windows

package native

import (
	"fmt"

	"golang.org/x/sys/windows"

	"github.com/vst3go/template/pkg/ui/window"
)

var (
	user32         = windows.NewLazySystemDLL("user32.dll")
	procSetParent  = user32.NewProc("SetParent")
	procShowWindow = user32.NewProc("ShowWindow")
)

const (
	swHide = 0
	swShow = 5
)

// SetParent makes parent the parent window of child. A null parent detaches
// child back to the desktop.
func SetParent(child, parent window.Handle) error {
	if !child.IsValid() {
		return ErrNoWindow
	}
	r, _, err := procSetParent.Call(child.Raw(), parent.Raw())
	// SetParent returns the previous parent, which is legitimately null the
	// first time, so only a set last-error means failure.
	if r == 0 {
		if errno, ok := err.(windows.Errno); ok && errno != 0 {
			return fmt.Errorf("SetParent(%v, %v): %w", child, parent, errno)
		}
	}
	return nil
}

// Show shows or hides w.
func Show(w window.Handle, visible bool) error {
	if !w.IsValid() {
		return ErrNoWindow
	}
	cmd := uintptr(swHide)
	if visible {
		cmd = swShow
	}
	// The return value is the previous visibility, not an error.
	procShowWindow.Call(w.Raw(), cmd)
	return nil
}
