// Package plugin defines the contract between a host and a Go plugin, and
// the instance registry the host-facing exports dispatch through.
package plugin

import (
	"io"

	"github.com/vst3go/template/pkg/framework/plugin"
	"github.com/vst3go/template/pkg/host"
)

// Plugin is the main interface that users implement.
//
// Every method except Close is called on the host callback thread.
type Plugin interface {
	// Info returns plugin metadata.
	Info() plugin.Info

	// OnMessage handles a host event and returns the host's result code.
	OnMessage(msg host.Message) int64

	// NameOf answers a host name query.
	NameOf(q host.GetName) string

	// Render fills out from in, one stereo frame per element.
	Render(in, out []host.Sample)

	// Tick is called once per block when the plugin asks for it.
	Tick()

	// ProcessParam handles a parameter event.
	ProcessParam(index int, value int64, flags host.ProcessParamFlags) int64

	// SaveState writes the persisted state.
	SaveState(w io.Writer) error

	// LoadState restores persisted state. Failures are the plugin's to log.
	LoadState(r io.Reader)

	// SetProxy hands over the host's plugin-side proxy.
	SetProxy(p host.Proxy)

	// Close releases the plugin, joining any threads it owns.
	Close() error
}

// Factory creates a plugin instance for a host.
type Factory func(h host.Host, tag host.Tag) (Plugin, error)
