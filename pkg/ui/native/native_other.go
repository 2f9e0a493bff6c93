//go:build !windows

package native

import (
	"errors"

	"github.com/vst3go/template/pkg/ui/window"
)

// SetParent is only implemented on Windows. Detaching (a null parent) is a
// no-op elsewhere.
func SetParent(child, parent window.Handle) error {
	if !child.IsValid() {
		return ErrNoWindow
	}
	if parent.IsValid() {
		return errors.ErrUnsupported
	}
	return nil
}

// Show is a no-op off Windows; the toolkit's own show/hide is used instead.
func Show(w window.Handle, visible bool) error {
	if !w.IsValid() {
		return ErrNoWindow
	}
	return nil
}
