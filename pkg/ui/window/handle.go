// Package window provides an opaque identity for native windows.
package window

import (
	"fmt"
	"unsafe"
)

// Handle identifies a native window (an HWND on Windows). The zero value is
// the null handle and means "no window". Handles are never dereferenced here.
type Handle uintptr

// Null returns the handle that means "no window".
func Null() Handle {
	return 0
}

// FromRaw converts a pointer-sized value to a Handle.
func FromRaw(raw uintptr) Handle {
	return Handle(raw)
}

// FromPointer converts a raw native pointer to a Handle. A nil pointer maps to
// the null handle.
func FromPointer(p unsafe.Pointer) Handle {
	return Handle(uintptr(p))
}

// IsValid reports whether h refers to a window.
func (h Handle) IsValid() bool {
	return h != 0
}

// Raw returns the pointer-sized value of the handle.
func (h Handle) Raw() uintptr {
	return uintptr(h)
}

// Pointer returns the handle as a native pointer, or false for the null handle.
func (h Handle) Pointer() (unsafe.Pointer, bool) {
	if !h.IsValid() {
		return nil, false
	}
	// Opaque OS identifier, not Go memory.
	return *(*unsafe.Pointer)(unsafe.Pointer(&h)), true
}

func (h Handle) String() string {
	return fmt.Sprintf("0x%x", uintptr(h))
}
