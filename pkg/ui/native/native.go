// Package native wraps the platform windowing calls the editor needs:
// reparenting a window into a host-owned parent and showing or hiding it.
package native

import "errors"

// ErrNoWindow is returned when an operation needs a window and got the null
// handle.
var ErrNoWindow = errors.New("native: null window handle")
