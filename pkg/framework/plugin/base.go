package plugin

import (
	"io"

	"github.com/vst3go/template/pkg/framework/debug"
	"github.com/vst3go/template/pkg/framework/state"
)

// Base provides the parts every plugin shares: metadata, save state and a
// logger. Embed it and override what the plugin needs.
type Base struct {
	info  Info
	state *state.Manager
	log   *debug.Logger
}

// NewBase creates a new plugin base. A nil logger uses debug.Default().
func NewBase(info Info, log *debug.Logger) *Base {
	if log == nil {
		log = debug.Default()
	}
	return &Base{
		info:  info,
		state: state.NewManager(),
		log:   log,
	}
}

// Info returns the plugin metadata.
func (b *Base) Info() Info {
	return b.info
}

// Logger returns the plugin logger.
func (b *Base) Logger() *debug.Logger {
	return b.log
}

// State returns the save-state manager.
func (b *Base) State() *state.Manager {
	return b.state
}

// SaveState writes the current save state.
func (b *Base) SaveState(w io.Writer) error {
	return b.state.Save(w)
}

// LoadState restores a save state. Failures are logged and leave the
// current state in place.
func (b *Base) LoadState(r io.Reader) {
	if err := b.state.Load(r); err != nil {
		b.log.Error("error reading state: %v", err)
	}
}
