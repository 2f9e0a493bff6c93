// Package cabi exports the plugin registry to a C host wrapper. Importing it
// into a c-shared build adds the GoCreateInstance family of symbols; every
// call forwards to plugin.Default().
//
// Instance ids are the registry's uintptr ids. Values travel as int64 and
// buffers as pointer plus length; the host owns all memory.
package cabi

import (
	"bytes"
	"errors"

	"github.com/vst3go/template/pkg/host"
	"github.com/vst3go/template/pkg/plugin"
	"github.com/vst3go/template/pkg/ui/window"
)

// Message ids understood by GoOnMessage. Any other id is delivered as
// host.Generic.
const (
	MsgShowEditor int32 = 1
)

// Result codes of GoReleaseInstance.
const (
	resultOK      int32 = 0
	resultFailed  int32 = 1
	resultUnknown int32 = 2
)

func createInstance(reg *plugin.Registry, logFn func(tag host.Tag, text string), tag host.Tag) uintptr {
	h := host.HostFunc(func(tag host.Tag, n host.Notice) {
		if d, ok := n.(host.DebugLog); ok && logFn != nil {
			logFn(tag, d.Text)
		}
	})
	id, err := reg.CreateInstance(h, tag)
	if err != nil {
		return 0
	}
	return id
}

func releaseInstance(reg *plugin.Registry, id uintptr) int32 {
	err := reg.Release(id)
	switch {
	case err == nil:
		return resultOK
	case errors.Is(err, plugin.ErrUnknownInstance):
		return resultUnknown
	default:
		return resultFailed
	}
}

func setProxy(reg *plugin.Registry, id uintptr, setHandle func(window.Handle)) {
	reg.SetProxy(id, host.ProxyFunc(setHandle))
}

func message(msgID, index int32, value int64) host.Message {
	if msgID == MsgShowEditor {
		return host.ShowEditor{Parent: window.FromRaw(uintptr(value))}
	}
	return host.Generic{ID: int(msgID), Index: int(index), Value: value}
}

func onMessage(reg *plugin.Registry, id uintptr, msgID, index int32, value int64) int64 {
	return reg.OnMessage(id, message(msgID, index, value))
}

// nameOf writes the NUL-terminated name into buf, truncating if needed, and
// returns the name's full length.
func nameOf(reg *plugin.Registry, id uintptr, q host.GetName, buf []byte) int32 {
	name := reg.NameOf(id, q)
	if len(buf) > 0 {
		n := copy(buf[:len(buf)-1], name)
		buf[n] = 0
	}
	return int32(len(name))
}

// saveState writes the state into buf when it fits and returns its size, or
// -1 on failure. A size larger than len(buf) means nothing was written.
func saveState(reg *plugin.Registry, id uintptr, buf []byte) int64 {
	var b bytes.Buffer
	if err := reg.SaveState(id, &b); err != nil {
		return -1
	}
	if b.Len() <= len(buf) {
		copy(buf, b.Bytes())
	}
	return int64(b.Len())
}

func loadState(reg *plugin.Registry, id uintptr, data []byte) {
	reg.LoadState(id, bytes.NewReader(data))
}
