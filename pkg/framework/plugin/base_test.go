package plugin

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vst3go/template/pkg/framework/debug"
	"github.com/vst3go/template/pkg/framework/state"
)

func TestBaseStateRoundTrip(t *testing.T) {
	b := NewBase(NewEffect("com.example.base", "base"), nil)
	if b.Logger() != debug.Default() {
		t.Error("nil logger should fall back to the default logger")
	}

	var buf bytes.Buffer
	if err := b.SaveState(&buf); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	other := NewBase(b.Info(), nil)
	other.LoadState(&buf)
	if other.State().Current() != (state.V0{}) {
		t.Errorf("state = %#v, want V0{}", other.State().Current())
	}
}

func TestBaseLoadStateLogsError(t *testing.T) {
	var out bytes.Buffer
	log := debug.New(&out, "base", debug.FlagLevel|debug.FlagPrefix)
	b := NewBase(NewEffect("com.example.base", "base"), log)

	b.LoadState(strings.NewReader("garbage"))

	if !strings.Contains(out.String(), "error reading state") {
		t.Errorf("expected error log, got %q", out.String())
	}
	if b.State().Current() != (state.V0{}) {
		t.Error("failed load changed the state")
	}
}
