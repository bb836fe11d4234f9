package wm

import (
	"github.com/1broseidon/taskwm/internal/platform"
	"github.com/1broseidon/taskwm/internal/tiling"
)

// NumWorkspaces is the fixed number of workspaces every task owns.
const NumWorkspaces = 4

// Workspace holds an ordered client list under master-stack tiling. The head
// of the list is the master; the rest stack below it in order.
type Workspace struct {
	clients  []platform.WindowID
	fraction float64
	focus    int
}

// Clients returns the client list in stacking order, head first.
func (w *Workspace) Clients() []platform.WindowID {
	return w.clients
}

func (w *Workspace) Empty() bool {
	return len(w.clients) == 0
}

// Fraction returns the master-area fraction, always within clamp bounds.
func (w *Workspace) Fraction() float64 {
	return w.fraction
}

// AdjustFraction applies delta and clamps the result.
func (w *Workspace) AdjustFraction(delta float64) {
	w.fraction = tiling.ClampFraction(w.fraction + delta)
}

// Focused returns the currently focused client, if any.
func (w *Workspace) Focused() (platform.WindowID, bool) {
	if len(w.clients) == 0 {
		return 0, false
	}
	if w.focus < 0 || w.focus >= len(w.clients) {
		return w.clients[0], true
	}
	return w.clients[w.focus], true
}

func (w *Workspace) indexOf(win platform.WindowID) int {
	for i, c := range w.clients {
		if c == win {
			return i
		}
	}
	return -1
}

func (w *Workspace) insertHead(win platform.WindowID) {
	w.clients = append([]platform.WindowID{win}, w.clients...)
	w.focus = 0
}

func (w *Workspace) remove(win platform.WindowID) bool {
	i := w.indexOf(win)
	if i < 0 {
		return false
	}
	w.clients = append(w.clients[:i], w.clients[i+1:]...)
	switch {
	case len(w.clients) == 0:
		w.focus = 0
	case w.focus == i:
		w.focus = len(w.clients) - 1
	case w.focus > i:
		w.focus--
	}
	return true
}

func (w *Workspace) swapWithMaster(i int) {
	if i <= 0 || i >= len(w.clients) {
		return
	}
	w.clients[0], w.clients[i] = w.clients[i], w.clients[0]
	switch w.focus {
	case 0:
		w.focus = i
	case i:
		w.focus = 0
	}
}

func (w *Workspace) cycleFocus(dir int) {
	n := len(w.clients)
	if n == 0 {
		return
	}
	w.focus = ((w.focus+dir)%n + n) % n
}

// Task is a named group of exactly NumWorkspaces workspaces and the unit of
// context switching.
type Task struct {
	name       string
	workspaces [NumWorkspaces]Workspace
	active     int
}

func newTask(name string, fraction float64) *Task {
	t := &Task{name: name}
	for i := range t.workspaces {
		t.workspaces[i].fraction = tiling.ClampFraction(fraction)
	}
	return t
}

func (t *Task) Name() string {
	return t.name
}

// ActiveIndex returns the index of the task's active workspace.
func (t *Task) ActiveIndex() int {
	return t.active
}

// Workspace returns the workspace at index i, or nil when out of range.
func (t *Task) Workspace(i int) *Workspace {
	if i < 0 || i >= NumWorkspaces {
		return nil
	}
	return &t.workspaces[i]
}

func (t *Task) activeWorkspace() *Workspace {
	return &t.workspaces[t.active]
}

// Empty reports whether every workspace of the task holds no clients.
func (t *Task) Empty() bool {
	for i := range t.workspaces {
		if !t.workspaces[i].Empty() {
			return false
		}
	}
	return true
}

// ClientCount returns the number of clients across all workspaces.
func (t *Task) ClientCount() int {
	n := 0
	for i := range t.workspaces {
		n += len(t.workspaces[i].clients)
	}
	return n
}
