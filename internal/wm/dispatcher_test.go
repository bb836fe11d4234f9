package wm

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/1broseidon/taskwm/internal/platform"
	"github.com/1broseidon/taskwm/internal/tiling"
)

// fakeConn records every protocol call so tests can assert on exactly what a
// commit pushed to the server.
type fakeConn struct {
	screen tiling.Rect
	ops    []string
	geom   map[platform.WindowID]tiling.Rect
	mapped map[platform.WindowID]bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		screen: tiling.Rect{X: 0, Y: 0, Width: 1000, Height: 800},
		geom:   make(map[platform.WindowID]tiling.Rect),
		mapped: make(map[platform.WindowID]bool),
	}
}

func (f *fakeConn) Screen() tiling.Rect { return f.screen }

func (f *fakeConn) Show(win platform.WindowID) error {
	f.ops = append(f.ops, fmt.Sprintf("show %d", win))
	f.mapped[win] = true
	return nil
}

func (f *fakeConn) Hide(win platform.WindowID) error {
	f.ops = append(f.ops, fmt.Sprintf("hide %d", win))
	f.mapped[win] = false
	return nil
}

func (f *fakeConn) Apply(win platform.WindowID, r tiling.Rect, borderWidth int) error {
	f.ops = append(f.ops, fmt.Sprintf("apply %d %dx%d+%d+%d bw=%d", win, r.Width, r.Height, r.X, r.Y, borderWidth))
	f.geom[win] = r
	return nil
}

func (f *fakeConn) Focus(win platform.WindowID) error {
	f.ops = append(f.ops, fmt.Sprintf("focus %d", win))
	return nil
}

func (f *fakeConn) FocusRoot() error {
	f.ops = append(f.ops, "focus root")
	return nil
}

func (f *fakeConn) SetBorderColor(win platform.WindowID, pixel uint32) error {
	f.ops = append(f.ops, fmt.Sprintf("border %d #%06x", win, pixel))
	return nil
}

func (f *fakeConn) reset() { f.ops = nil }

type fakeSpawner struct {
	terminals int
	launchers int
	menus     []bool
	taskLists [][]string
}

func (s *fakeSpawner) Terminal(string) { s.terminals++ }
func (s *fakeSpawner) Launcher(string) { s.launchers++ }
func (s *fakeSpawner) TaskMenu(tasks []string, move bool) {
	s.menus = append(s.menus, move)
	s.taskLists = append(s.taskLists, tasks)
}

func testDispatcher() (*Dispatcher, *fakeConn, *fakeSpawner) {
	conn := newFakeConn()
	spawner := &fakeSpawner{}
	mgr := NewManager(Params{DefaultTask: "default", MasterFraction: 0.6, MasterStep: 0.05})
	d := NewDispatcher(conn, mgr, spawner, Decor{
		BorderWidth:  2,
		DefaultPixel: 0x222222,
		FocusedPixel: 0xbbbbbb,
	})
	return d, conn, spawner
}

// step feeds one event through the loop body: handle, then commit.
func (d *Dispatcher) step(ev Event) {
	d.handle(ev)
	d.commit()
}

func TestDispatcher_MapRequestsTileMasterStack(t *testing.T) {
	d, conn, _ := testDispatcher()

	d.step(MapRequest{Win: 1})
	// A lone window fills the screen without a border.
	if got := conn.geom[1]; got != (tiling.Rect{X: 0, Y: 0, Width: 1000, Height: 800}) {
		t.Fatalf("lone window geometry %+v", got)
	}

	d.step(MapRequest{Win: 2})
	d.step(MapRequest{Win: 3})

	// Newest window is master on the left at the 0.6 split; the other two
	// split the right column. Outer edges shrink by twice the border width.
	wantGeom := map[platform.WindowID]tiling.Rect{
		3: {X: 0, Y: 0, Width: 596, Height: 796},
		2: {X: 600, Y: 0, Width: 396, Height: 396},
		1: {X: 600, Y: 400, Width: 396, Height: 396},
	}
	for win, want := range wantGeom {
		if got := conn.geom[win]; got != want {
			t.Fatalf("window %d geometry %+v, want %+v", win, got, want)
		}
	}
	for _, win := range []platform.WindowID{1, 2, 3} {
		if !conn.mapped[win] {
			t.Fatalf("window %d should be mapped", win)
		}
	}
}

func TestDispatcher_TaskSwitchHidesAndRestores(t *testing.T) {
	d, conn, _ := testDispatcher()
	d.step(MapRequest{Win: 1})
	d.step(MapRequest{Win: 2})
	d.step(MapRequest{Win: 3})
	before := make(map[platform.WindowID]tiling.Rect, len(conn.geom))
	for w, r := range conn.geom {
		before[w] = r
	}

	conn.reset()
	d.step(RootName{Name: "build"})
	for _, win := range []platform.WindowID{1, 2, 3} {
		if conn.mapped[win] {
			t.Fatalf("window %d should be hidden after switching away", win)
		}
	}
	// No client is visible, so input focus falls back to the root.
	if conn.ops[len(conn.ops)-1] != "focus root" {
		t.Fatalf("last op %q, want focus root", conn.ops[len(conn.ops)-1])
	}

	// The hides we issued come back as UnmapNotify; they must not unmanage.
	d.step(UnmapNotify{Win: 1})
	d.step(UnmapNotify{Win: 2})
	d.step(UnmapNotify{Win: 3})

	conn.reset()
	d.step(RootName{Name: "default"})
	for win, want := range before {
		if got := conn.geom[win]; got != want {
			t.Fatalf("window %d restored to %+v, want %+v", win, got, want)
		}
		if !conn.mapped[win] {
			t.Fatalf("window %d should be mapped again", win)
		}
	}
}

func TestDispatcher_IdempotentCommit(t *testing.T) {
	d, conn, _ := testDispatcher()
	d.step(MapRequest{Win: 1})
	d.step(MapRequest{Win: 2})

	conn.reset()
	d.commit()
	if len(conn.ops) != 0 {
		t.Fatalf("commit with unchanged state issued %v", conn.ops)
	}

	// Switching to the already-active task changes nothing.
	d.step(RootName{Name: "default"})
	if len(conn.ops) != 0 {
		t.Fatalf("re-switch issued %v", conn.ops)
	}
}

func TestDispatcher_RealUnmapUnmanages(t *testing.T) {
	d, conn, _ := testDispatcher()
	d.step(MapRequest{Win: 1})
	d.step(MapRequest{Win: 2})

	conn.reset()
	// No pending self-issued hide for 2, so this is the client going away.
	d.step(UnmapNotify{Win: 2})
	if got := d.mgr.Visible(); !reflect.DeepEqual(got, []platform.WindowID{1}) {
		t.Fatalf("visible %v after client unmap", got)
	}
	// The survivor is alone again: full screen, no border.
	if got := conn.geom[1]; got != (tiling.Rect{X: 0, Y: 0, Width: 1000, Height: 800}) {
		t.Fatalf("survivor geometry %+v", got)
	}
}

func TestDispatcher_DestroyNotifyUnmanages(t *testing.T) {
	d, _, _ := testDispatcher()
	d.step(MapRequest{Win: 1})
	d.step(DestroyNotify{Win: 1})
	if len(d.mgr.Visible()) != 0 {
		t.Fatal("destroyed window should be unmanaged")
	}
	// Stale events for the same handle are dropped quietly.
	d.step(DestroyNotify{Win: 1})
	d.step(UnmapNotify{Win: 1})
}

func TestDispatcher_ConfigureRequestReasserted(t *testing.T) {
	d, conn, _ := testDispatcher()
	d.step(MapRequest{Win: 1})
	d.step(MapRequest{Win: 2})
	masterGeom := conn.geom[2]

	conn.reset()
	d.step(ConfigureRequest{Win: 2, Geom: tiling.Rect{X: 5, Y: 5, Width: 50, Height: 50}, BorderWidth: 7})
	if got := conn.geom[2]; got != masterGeom {
		t.Fatalf("managed window geometry %+v, want tiling to win with %+v", got, masterGeom)
	}
}

func TestDispatcher_ConfigureRequestUnmanagedGranted(t *testing.T) {
	d, conn, _ := testDispatcher()
	want := tiling.Rect{X: 5, Y: 5, Width: 50, Height: 50}
	d.step(ConfigureRequest{Win: 42, Geom: want, BorderWidth: 7})
	if got := conn.geom[42]; got != want {
		t.Fatalf("unmanaged window geometry %+v, want %+v", got, want)
	}
	if conn.mapped[42] {
		t.Fatal("granting a configure must not map the window")
	}
}

func TestDispatcher_FocusFollowsCycle(t *testing.T) {
	d, conn, _ := testDispatcher()
	d.step(MapRequest{Win: 1})
	d.step(MapRequest{Win: 2})
	d.step(MapRequest{Win: 3}) // focus on 3

	conn.reset()
	d.step(KeyAction{Action: Action{Op: OpCycleFocus, Arg: 1}})
	found := false
	for _, op := range conn.ops {
		if op == "focus 2" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected focus to move to 2, ops %v", conn.ops)
	}
	// Border colors swap between the old and new focus.
	wantBorders := map[string]bool{"border 2 #bbbbbb": true, "border 3 #222222": true}
	for _, op := range conn.ops {
		delete(wantBorders, op)
	}
	if len(wantBorders) != 0 {
		t.Fatalf("missing border repaints %v in %v", wantBorders, conn.ops)
	}
}

func TestDispatcher_BorderWidthDropsForLoneWindow(t *testing.T) {
	d, conn, _ := testDispatcher()
	d.step(MapRequest{Win: 1})
	d.step(MapRequest{Win: 2})

	conn.reset()
	d.step(UnmapNotify{Win: 2})
	found := false
	for _, op := range conn.ops {
		if op == "apply 1 1000x800+0+0 bw=0" {
			found = true
		}
	}
	if !found {
		t.Fatalf("lone window should get full screen with bw=0, ops %v", conn.ops)
	}
}

func TestDispatcher_WorkspaceSwitch(t *testing.T) {
	d, conn, _ := testDispatcher()
	d.step(MapRequest{Win: 1})

	conn.reset()
	d.step(KeyAction{Action: Action{Op: OpSwitchWorkspace, Arg: 1}})
	if conn.mapped[1] {
		t.Fatal("window should be hidden when its workspace leaves the view")
	}

	d.step(KeyAction{Action: Action{Op: OpSwitchWorkspace, Arg: 0}})
	if !conn.mapped[1] {
		t.Fatal("window should be restored with its workspace")
	}
}

func TestDispatcher_MoveToWorkspace(t *testing.T) {
	d, conn, _ := testDispatcher()
	d.step(MapRequest{Win: 1})
	d.step(MapRequest{Win: 2}) // focus on 2

	d.step(KeyAction{Action: Action{Op: OpMoveToWorkspace, Arg: 3}})
	if conn.mapped[2] {
		t.Fatal("moved window should be hidden")
	}
	if got := d.mgr.Visible(); !reflect.DeepEqual(got, []platform.WindowID{1}) {
		t.Fatalf("visible %v", got)
	}

	d.step(KeyAction{Action: Action{Op: OpSwitchWorkspace, Arg: 3}})
	if got := d.mgr.Visible(); !reflect.DeepEqual(got, []platform.WindowID{2}) {
		t.Fatalf("destination workspace %v", got)
	}
}

func TestDispatcher_SpawnAndMenuActions(t *testing.T) {
	d, _, spawner := testDispatcher()
	d.step(KeyAction{Action: Action{Op: OpSpawnTerminal}})
	d.step(KeyAction{Action: Action{Op: OpSpawnLauncher}})
	d.step(KeyAction{Action: Action{Op: OpTaskMenu}})
	d.step(KeyAction{Action: Action{Op: OpMoveToTaskMenu}})

	if spawner.terminals != 1 || spawner.launchers != 1 {
		t.Fatalf("spawns terminal=%d launcher=%d", spawner.terminals, spawner.launchers)
	}
	if !reflect.DeepEqual(spawner.menus, []bool{false, true}) {
		t.Fatalf("menu modes %v", spawner.menus)
	}
	if !reflect.DeepEqual(spawner.taskLists[0], []string{"default"}) {
		t.Fatalf("menu task list %v", spawner.taskLists[0])
	}
}

func TestDispatcher_MoveFocusedToTaskViaRootName(t *testing.T) {
	d, conn, _ := testDispatcher()
	d.step(MapRequest{Win: 1})
	d.step(MapRequest{Win: 2}) // focus on 2

	d.step(RootName{Name: "TASKWM_MOVE_MARKERbuild"})
	if d.mgr.ActiveTask() != "default" {
		t.Fatal("moving a window must not switch tasks")
	}
	if conn.mapped[2] {
		t.Fatal("moved window should leave the view")
	}
	c, _ := d.mgr.Registry().Locate(2)
	if c.Task != "build" {
		t.Fatalf("client task %q", c.Task)
	}
}

func TestDispatcher_StatusRequest(t *testing.T) {
	d, _, _ := testDispatcher()
	d.step(MapRequest{Win: 1})

	reply := make(chan Status, 1)
	d.step(StatusRequest{Reply: reply})
	s := <-reply
	if s.ActiveTask != "default" || s.Clients != 1 {
		t.Fatalf("status %+v", s)
	}
}

func TestDispatcher_RunQuitUnmapsEverything(t *testing.T) {
	d, conn, _ := testDispatcher()
	d.step(MapRequest{Win: 1})
	d.step(RootName{Name: "build"})
	d.step(MapRequest{Win: 2})

	go func() {
		d.Events() <- KeyAction{Action: Action{Op: OpQuit}}
	}()
	if err := d.Run(); err != nil {
		t.Fatalf("quit should end the loop cleanly: %v", err)
	}
	for _, win := range []platform.WindowID{1, 2} {
		if conn.mapped[win] {
			t.Fatalf("window %d should be unmapped on shutdown", win)
		}
	}
	if conn.ops[len(conn.ops)-1] != "focus root" {
		t.Fatalf("last op %q, want focus root", conn.ops[len(conn.ops)-1])
	}
}

func TestDispatcher_ClosedStreamIsFatal(t *testing.T) {
	d, _, _ := testDispatcher()
	close(d.events)
	if err := d.Run(); err == nil {
		t.Fatal("closed event stream without quit must be an error")
	}
}
