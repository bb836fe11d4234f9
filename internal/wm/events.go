package wm

import (
	"github.com/1broseidon/taskwm/internal/platform"
	"github.com/1broseidon/taskwm/internal/tiling"
)

// Event is the tagged union fed to the dispatcher. Protocol events, decoded
// key chords and control-socket commands all arrive on the same channel and
// are handled one at a time.
type Event interface {
	isEvent()
}

// MapRequest signals an unmanaged window asking to be shown.
type MapRequest struct {
	Win platform.WindowID
}

// UnmapNotify signals a window being withdrawn. Unmaps the dispatcher itself
// issued while hiding a workspace are counted and skipped.
type UnmapNotify struct {
	Win platform.WindowID
}

// DestroyNotify signals a window that no longer exists.
type DestroyNotify struct {
	Win platform.WindowID
}

// ConfigureRequest signals a client asking for its own geometry. Managed
// windows are re-asserted by the next layout commit; unmanaged ones get what
// they asked for.
type ConfigureRequest struct {
	Win         platform.WindowID
	Geom        tiling.Rect
	BorderWidth int
}

// KeyAction carries a decoded keybinding chord.
type KeyAction struct {
	Action Action
}

// RootName carries a new root window name, the task-switch signal written by
// the external selector.
type RootName struct {
	Name string
}

// SwitchTaskRequest is a task switch issued over the control socket.
type SwitchTaskRequest struct {
	Name string
}

// StatusRequest asks for a state snapshot; the reply is sent on Reply from
// the dispatcher goroutine.
type StatusRequest struct {
	Reply chan Status
}

func (MapRequest) isEvent()        {}
func (UnmapNotify) isEvent()       {}
func (DestroyNotify) isEvent()     {}
func (ConfigureRequest) isEvent()  {}
func (KeyAction) isEvent()         {}
func (RootName) isEvent()          {}
func (SwitchTaskRequest) isEvent() {}
func (StatusRequest) isEvent()     {}
