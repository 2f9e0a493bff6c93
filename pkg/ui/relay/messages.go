package relay

import (
	"fmt"

	"github.com/vst3go/template/pkg/ui/window"
)

// HostMessage is sent from the host callback thread to the UI thread.
type HostMessage interface {
	hostMessage()
}

// ShowEditor asks the UI to reparent into Parent and show itself, or to hide
// when Parent is null.
type ShowEditor struct {
	Parent window.Handle
}

// StateChanged notifies the UI that plugin state has changed.
type StateChanged struct {
	Change Change
}

// Terminate tells the UI to close its window and exit.
type Terminate struct{}

func (ShowEditor) hostMessage()   {}
func (StateChanged) hostMessage() {}
func (Terminate) hostMessage()    {}

// Change enumerates plugin state changes the UI can be told about.
type Change int

const (
	// ChangeParam1 is a placeholder until the plugin has real parameters.
	ChangeParam1 Change = iota
)

func (c Change) String() string {
	switch c {
	case ChangeParam1:
		return "Param1"
	default:
		return fmt.Sprintf("Change(%d)", int(c))
	}
}

// UIMessage is sent from the UI thread back to the host side.
type UIMessage interface {
	uiMessage()
}

// EditorHandleReady carries the UI's own window handle so the host can
// register it as the editor window.
type EditorHandleReady struct {
	Handle window.Handle
}

// Initialized is emitted once when the UI has started.
type Initialized struct{}

func (EditorHandleReady) uiMessage() {}
func (Initialized) uiMessage()       {}
