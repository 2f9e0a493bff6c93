//go:build windows

package template

import (
	"github.com/vst3go/template/pkg/ui/editor"
	"github.com/vst3go/template/pkg/ui/editor/win32ui"
)

func defaultToolkit() editor.Toolkit {
	return win32ui.New()
}
