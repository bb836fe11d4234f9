package wm

import (
	"errors"
	"log"
	"strings"

	"github.com/1broseidon/taskwm/internal/platform"
	"github.com/1broseidon/taskwm/internal/taskswitch"
	"github.com/1broseidon/taskwm/internal/tiling"
)

// Spawner launches external collaborators: the terminal, the launcher and
// the task selector menu. Implementations must not block; the dispatcher
// calls them from the event loop.
type Spawner interface {
	Terminal(task string)
	Launcher(task string)
	// TaskMenu shows the selector over the given task list. When move is
	// true the selection moves the focused window instead of switching.
	TaskMenu(tasks []string, move bool)
}

// Decor carries the border rendering parameters resolved at startup.
type Decor struct {
	BorderWidth  int
	DefaultPixel uint32
	FocusedPixel uint32
}

// committed records what was last pushed to the server for one window, so a
// commit only touches windows whose target state changed.
type committed struct {
	geom   tiling.Rect
	border int
	pixel  uint32
}

// Dispatcher is the single control loop. It drains one event at a time from
// its channel, mutates the manager synchronously, then commits resulting
// geometry, visibility and focus changes to the server before reading the
// next event. Producer goroutines (the X pump, the control socket) only send
// on the channel; all state lives on this goroutine, so no locking.
type Dispatcher struct {
	conn    platform.Conn
	mgr     *Manager
	spawner Spawner
	decor   Decor

	events chan Event

	committed    map[platform.WindowID]committed
	focused      platform.WindowID
	hasFocused   bool
	ignoreUnmaps map[platform.WindowID]int
	quitting     bool
}

func NewDispatcher(conn platform.Conn, mgr *Manager, spawner Spawner, decor Decor) *Dispatcher {
	return &Dispatcher{
		conn:         conn,
		mgr:          mgr,
		spawner:      spawner,
		decor:        decor,
		events:       make(chan Event, 64),
		committed:    make(map[platform.WindowID]committed),
		ignoreUnmaps: make(map[platform.WindowID]int),
	}
}

// Events returns the channel event producers send on. The channel is closed
// by the X pump when the server connection drops.
func (d *Dispatcher) Events() chan<- Event {
	return d.events
}

// Run processes events until quit or until the event stream closes. A closed
// stream without a quit means the X connection is gone, which is fatal.
func (d *Dispatcher) Run() error {
	d.commit()
	for ev := range d.events {
		d.handle(ev)
		if d.quitting {
			d.shutdown()
			return nil
		}
		d.commit()
	}
	return errors.New("event stream closed: lost connection to the X server")
}

func (d *Dispatcher) handle(ev Event) {
	switch ev := ev.(type) {
	case MapRequest:
		if err := d.mgr.PlaceNewClient(ev.Win); err != nil {
			log.Printf("map request for window %d ignored: %v", ev.Win, err)
		}
	case UnmapNotify:
		if n := d.ignoreUnmaps[ev.Win]; n > 0 {
			// An unmap we issued ourselves while hiding a workspace.
			if n == 1 {
				delete(d.ignoreUnmaps, ev.Win)
			} else {
				d.ignoreUnmaps[ev.Win] = n - 1
			}
			return
		}
		d.removeClient(ev.Win)
	case DestroyNotify:
		delete(d.ignoreUnmaps, ev.Win)
		d.removeClient(ev.Win)
	case ConfigureRequest:
		if _, ok := d.mgr.Registry().Locate(ev.Win); ok {
			// Tiling is authoritative. Forget the committed geometry so the
			// next commit re-asserts ours over whatever the client wanted.
			delete(d.committed, ev.Win)
		} else if err := d.conn.Apply(ev.Win, ev.Geom, ev.BorderWidth); err != nil {
			log.Printf("configure of unmanaged window %d failed: %v", ev.Win, err)
		}
	case KeyAction:
		d.handleAction(ev.Action)
	case RootName:
		d.handleRootName(ev.Name)
	case SwitchTaskRequest:
		if name := strings.TrimSpace(ev.Name); name != "" {
			d.mgr.SwitchTask(name)
		}
	case StatusRequest:
		ev.Reply <- d.mgr.Snapshot()
	default:
		log.Printf("unhandled event %T", ev)
	}
}

func (d *Dispatcher) handleAction(a Action) {
	switch a.Op {
	case OpSwitchWorkspace:
		d.mgr.SwitchWorkspace(a.Arg)
	case OpMoveToWorkspace:
		if win, ok := d.mgr.Focused(); ok {
			if err := d.mgr.MoveClientToWorkspace(win, a.Arg); err != nil {
				log.Printf("move to workspace %d: %v", a.Arg+1, err)
			}
		}
	case OpCycleFocus:
		d.mgr.CycleFocus(a.Arg)
	case OpAdjustMaster:
		d.mgr.AdjustMasterFraction(a.Arg)
	case OpPromote:
		if win, ok := d.mgr.Focused(); ok {
			if err := d.mgr.PromoteOrDemote(win); err != nil {
				log.Printf("promote window %d: %v", win, err)
			}
		}
	case OpSpawnTerminal:
		d.spawner.Terminal(d.mgr.ActiveTask())
	case OpSpawnLauncher:
		d.spawner.Launcher(d.mgr.ActiveTask())
	case OpTaskMenu:
		d.spawner.TaskMenu(d.mgr.TaskNames(), false)
	case OpMoveToTaskMenu:
		d.spawner.TaskMenu(d.mgr.TaskNames(), true)
	case OpQuit:
		d.quitting = true
	}
}

func (d *Dispatcher) handleRootName(raw string) {
	cmd := taskswitch.Decode(raw)
	switch cmd.Kind {
	case taskswitch.Switch:
		d.mgr.SwitchTask(cmd.Task)
	case taskswitch.Move:
		if win, ok := d.mgr.Focused(); ok {
			if err := d.mgr.MoveClientToTask(win, cmd.Task); err != nil {
				log.Printf("move window %d to task %q: %v", win, cmd.Task, err)
			}
		}
	}
}

func (d *Dispatcher) removeClient(win platform.WindowID) {
	if err := d.mgr.RemoveClient(win); err != nil {
		// Events for already-cleaned-up handles are expected; drop them.
		return
	}
	delete(d.committed, win)
}

// commit pushes the difference between desired and last-committed window
// state to the server: hide what left the view, place and show what entered
// or moved, repaint borders, set input focus.
func (d *Dispatcher) commit() {
	vis := d.mgr.Visible()
	rects := tiling.Layout(len(vis), d.mgr.VisibleFraction(), d.conn.Screen())

	bw := d.decor.BorderWidth
	if len(vis) == 1 {
		// A lone client covers the full screen without a border.
		bw = 0
	}
	focusWin, hasFocus := d.mgr.Focused()

	desired := make(map[platform.WindowID]committed, len(vis))
	for i, win := range vis {
		r := rects[i]
		// The X border is drawn outside the window; shrink so the outer
		// edges still tile the screen exactly.
		r.Width -= 2 * bw
		r.Height -= 2 * bw
		if r.Width < 1 {
			r.Width = 1
		}
		if r.Height < 1 {
			r.Height = 1
		}
		pixel := d.decor.DefaultPixel
		if hasFocus && win == focusWin {
			pixel = d.decor.FocusedPixel
		}
		desired[win] = committed{geom: r, border: bw, pixel: pixel}
	}

	for win := range d.committed {
		if _, ok := desired[win]; ok {
			continue
		}
		d.ignoreUnmaps[win]++
		if err := d.conn.Hide(win); err != nil {
			log.Printf("hide window %d: %v", win, err)
		}
		delete(d.committed, win)
	}

	for _, win := range vis {
		want := desired[win]
		have, ok := d.committed[win]
		if !ok || have.geom != want.geom || have.border != want.border {
			if err := d.conn.Apply(win, want.geom, want.border); err != nil {
				log.Printf("apply geometry to window %d: %v", win, err)
			}
		}
		if !ok || have.pixel != want.pixel {
			if err := d.conn.SetBorderColor(win, want.pixel); err != nil {
				log.Printf("set border color on window %d: %v", win, err)
			}
		}
		if !ok {
			if err := d.conn.Show(win); err != nil {
				log.Printf("show window %d: %v", win, err)
			}
		}
		d.committed[win] = want
	}

	if hasFocus {
		if !d.hasFocused || d.focused != focusWin {
			if err := d.conn.Focus(focusWin); err != nil {
				log.Printf("focus window %d: %v", focusWin, err)
			}
			d.focused = focusWin
			d.hasFocused = true
		}
	} else if d.hasFocused {
		if err := d.conn.FocusRoot(); err != nil {
			log.Printf("focus root: %v", err)
		}
		d.hasFocused = false
	}
}

// shutdown unmaps every client across all tasks and resets focus. Window
// state on the server is left intact for the next manager.
func (d *Dispatcher) shutdown() {
	for _, win := range d.mgr.AllClients() {
		if err := d.conn.Hide(win); err != nil {
			log.Printf("hide window %d on shutdown: %v", win, err)
		}
	}
	if err := d.conn.FocusRoot(); err != nil {
		log.Printf("focus root on shutdown: %v", err)
	}
}
