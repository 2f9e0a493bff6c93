//go:build !windows

package template

import (
	"github.com/vst3go/template/pkg/ui/editor"
	"github.com/vst3go/template/pkg/ui/editor/headless"
)

// Hosts outside Windows get no visible editor; the relay and state machine
// still run.
func defaultToolkit() editor.Toolkit {
	return headless.New()
}
