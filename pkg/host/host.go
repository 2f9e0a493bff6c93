// Package host describes the host side of the plugin ABI as Go types: the
// events a host delivers to a plugin and the calls a plugin may make back.
package host

import (
	"github.com/vst3go/template/pkg/ui/window"
)

// Tag identifies a plugin instance to the host.
type Tag int32

// Sample is one interleaved stereo frame.
type Sample = [2]float32

// Message is an event delivered by the host on its callback thread.
type Message interface {
	hostEvent()
}

// ShowEditor asks the plugin to show its editor inside Parent, or to hide it
// when Parent is null.
type ShowEditor struct {
	Parent window.Handle
}

// Generic carries any host event the plugin does not interpret.
type Generic struct {
	ID    int
	Index int
	Value int64
}

func (ShowEditor) hostEvent() {}
func (Generic) hostEvent()    {}

// Notice is sent from a plugin to its host.
type Notice interface {
	notice()
}

// DebugLog writes Text to the host's debug log.
type DebugLog struct {
	Text string
}

func (DebugLog) notice() {}

// Host is the host object a plugin instance is created with.
type Host interface {
	OnMessage(tag Tag, n Notice)
}

// Proxy lets a plugin call back into its host-side wrapper.
type Proxy interface {
	// SetEditorHandle registers w as the plugin's editor window.
	SetEditorHandle(w window.Handle)
}

// GetName selects what a NameOf request is asking for.
type GetName int

const (
	NameParam GetName = iota
	NameSemitone
	NamePatch
	NameVoice
	NameColor
	NameOutput
	NameInput
)

// ProcessParamFlags describe a ProcessParam request.
type ProcessParamFlags uint32

const (
	ParamUpdateValue ProcessParamFlags = 1 << iota
	ParamGetValue
	ParamShowHint
	ParamUpdateControl
	ParamFromMIDI
	ParamInternalCtrl
)

// Has reports whether all bits in f are set.
func (p ProcessParamFlags) Has(f ProcessParamFlags) bool {
	return p&f == f
}

// HostFunc adapts a function to the Host interface.
type HostFunc func(tag Tag, n Notice)

func (f HostFunc) OnMessage(tag Tag, n Notice) {
	f(tag, n)
}

// ProxyFunc adapts a function to the Proxy interface.
type ProxyFunc func(w window.Handle)

func (f ProxyFunc) SetEditorHandle(w window.Handle) {
	f(w)
}
