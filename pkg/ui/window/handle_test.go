package window

import (
	"testing"
	"unsafe"
)

func TestNullHandle(t *testing.T) {
	h := Null()
	if h.IsValid() {
		t.Error("Null handle should not be valid")
	}
	if h.Raw() != 0 {
		t.Errorf("Null().Raw() = %d, want 0", h.Raw())
	}
	if p, ok := h.Pointer(); ok || p != nil {
		t.Errorf("Null().Pointer() = %v, %v; want nil, false", p, ok)
	}
	var zero Handle
	if zero != Null() {
		t.Error("zero value should equal Null()")
	}
}

func TestRawRoundTrip(t *testing.T) {
	values := []uintptr{1, 0x1000, 0xdeadbeef, ^uintptr(0)}

	for _, v := range values {
		h := FromRaw(v)
		if !h.IsValid() {
			t.Errorf("FromRaw(0x%x).IsValid() = false", v)
		}
		if got := h.Raw(); got != v {
			t.Errorf("FromRaw(0x%x).Raw() = 0x%x", v, got)
		}
	}
}

func TestPointerRoundTrip(t *testing.T) {
	h := FromRaw(0x1000)
	p, ok := h.Pointer()
	if !ok {
		t.Fatal("Pointer() on valid handle returned false")
	}
	if got := FromPointer(p); got != h {
		t.Errorf("FromPointer(Pointer()) = %v, want %v", got, h)
	}
	if FromPointer(unsafe.Pointer(nil)).IsValid() {
		t.Error("FromPointer(nil) should be the null handle")
	}
}

func TestString(t *testing.T) {
	if got := FromRaw(0x1000).String(); got != "0x1000" {
		t.Errorf("String() = %q, want %q", got, "0x1000")
	}
}
