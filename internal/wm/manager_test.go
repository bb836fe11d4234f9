package wm

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/1broseidon/taskwm/internal/platform"
)

func testManager() *Manager {
	return NewManager(Params{
		DefaultTask:    "default",
		MasterFraction: 0.6,
		MasterStep:     0.05,
	})
}

func wins(m *Manager) []platform.WindowID {
	return m.Visible()
}

func TestManager_PlaceNewClientBecomesMaster(t *testing.T) {
	m := testManager()
	for _, w := range []platform.WindowID{1, 2, 3} {
		if err := m.PlaceNewClient(w); err != nil {
			t.Fatalf("place %d: %v", w, err)
		}
	}

	got := wins(m)
	want := []platform.WindowID{3, 2, 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("visible order %v, want %v", got, want)
	}

	// Exactly one master, and it is the head.
	for i, w := range got {
		c, _ := m.Registry().Locate(w)
		wantRole := RoleStack
		if i == 0 {
			wantRole = RoleMaster
		}
		if c.Role != wantRole {
			t.Fatalf("window %d role %v, want %v", w, c.Role, wantRole)
		}
	}

	if focus, _ := m.Focused(); focus != 3 {
		t.Fatalf("newest client should be focused, got %d", focus)
	}
}

func TestManager_PlaceNewClientTwice(t *testing.T) {
	m := testManager()
	m.PlaceNewClient(1)
	if err := m.PlaceNewClient(1); !errors.Is(err, ErrAlreadyManaged) {
		t.Fatalf("expected ErrAlreadyManaged, got %v", err)
	}
	if len(wins(m)) != 1 {
		t.Fatalf("duplicate placement must not change the workspace")
	}
}

func TestManager_RemoveClientPromotesStackHead(t *testing.T) {
	m := testManager()
	m.PlaceNewClient(1)
	m.PlaceNewClient(2)
	m.PlaceNewClient(3) // order: 3 2 1

	if err := m.RemoveClient(3); err != nil {
		t.Fatalf("remove: %v", err)
	}
	got := wins(m)
	if !reflect.DeepEqual(got, []platform.WindowID{2, 1}) {
		t.Fatalf("visible order %v after removing master", got)
	}
	c, _ := m.Registry().Locate(2)
	if c.Role != RoleMaster {
		t.Fatal("stack head must be promoted when the master goes away")
	}

	if err := m.RemoveClient(99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestManager_SwitchTaskCreatesAndDestroys(t *testing.T) {
	m := testManager()
	m.PlaceNewClient(1)

	m.SwitchTask("build")
	if m.ActiveTask() != "build" {
		t.Fatalf("active task %q", m.ActiveTask())
	}
	if len(wins(m)) != 0 {
		t.Fatal("new task starts with empty workspaces")
	}
	if !reflect.DeepEqual(m.TaskNames(), []string{"default", "build"}) {
		t.Fatalf("task list %v", m.TaskNames())
	}

	// Leaving "build" empty destroys it.
	m.SwitchTask("default")
	if !reflect.DeepEqual(m.TaskNames(), []string{"default"}) {
		t.Fatalf("empty task should be destroyed on switch-away, have %v", m.TaskNames())
	}
	if got := wins(m); !reflect.DeepEqual(got, []platform.WindowID{1}) {
		t.Fatalf("clients of the returned-to task are intact, got %v", got)
	}
}

func TestManager_SwitchTaskSameNameNoOp(t *testing.T) {
	m := testManager()
	m.SwitchTask("default")
	if !reflect.DeepEqual(m.TaskNames(), []string{"default"}) {
		t.Fatalf("task list %v", m.TaskNames())
	}
}

func TestManager_ActiveTaskNeverAutoDestroyed(t *testing.T) {
	m := testManager()
	m.PlaceNewClient(1)
	m.RemoveClient(1)
	if !reflect.DeepEqual(m.TaskNames(), []string{"default"}) {
		t.Fatalf("active task must survive becoming empty, have %v", m.TaskNames())
	}
}

func TestManager_NonActiveTaskDestroyedWhenEmptied(t *testing.T) {
	m := testManager()
	m.PlaceNewClient(1)
	m.SwitchTask("build")
	// "default" still holds window 1; destroying its last client while
	// "build" is active must drop "default" from the list.
	m.RemoveClient(1)
	if !reflect.DeepEqual(m.TaskNames(), []string{"build"}) {
		t.Fatalf("emptied background task should be destroyed, have %v", m.TaskNames())
	}
	if m.ActiveTask() != "build" {
		t.Fatalf("active task moved to %q", m.ActiveTask())
	}
}

func TestManager_SwitchWorkspace(t *testing.T) {
	m := testManager()
	m.PlaceNewClient(1)

	m.SwitchWorkspace(2)
	if m.ActiveWorkspace() != 2 {
		t.Fatalf("active workspace %d", m.ActiveWorkspace())
	}
	if len(wins(m)) != 0 {
		t.Fatal("other workspaces start empty")
	}

	m.SwitchWorkspace(NumWorkspaces)
	m.SwitchWorkspace(-1)
	if m.ActiveWorkspace() != 2 {
		t.Fatal("out-of-range workspace switch must be ignored")
	}

	m.SwitchWorkspace(0)
	if got := wins(m); !reflect.DeepEqual(got, []platform.WindowID{1}) {
		t.Fatalf("workspace contents survive switching, got %v", got)
	}
}

func TestManager_MoveClientToWorkspace(t *testing.T) {
	m := testManager()
	m.PlaceNewClient(1)
	m.PlaceNewClient(2) // order: 2 1

	if err := m.MoveClientToWorkspace(2, 1); err != nil {
		t.Fatalf("move: %v", err)
	}
	if got := wins(m); !reflect.DeepEqual(got, []platform.WindowID{1}) {
		t.Fatalf("source workspace %v", got)
	}
	c, _ := m.Registry().Locate(2)
	if c.Workspace != 1 || c.Role != RoleMaster {
		t.Fatalf("moved client workspace=%d role=%v", c.Workspace, c.Role)
	}

	m.SwitchWorkspace(1)
	if got := wins(m); !reflect.DeepEqual(got, []platform.WindowID{2}) {
		t.Fatalf("destination workspace %v", got)
	}

	// Same-workspace and out-of-range moves are no-ops.
	if err := m.MoveClientToWorkspace(2, 1); err != nil {
		t.Fatalf("same-workspace move: %v", err)
	}
	if err := m.MoveClientToWorkspace(2, NumWorkspaces); err != nil {
		t.Fatalf("out-of-range move: %v", err)
	}
	if err := m.MoveClientToWorkspace(99, 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestManager_MoveClientToTask(t *testing.T) {
	m := testManager()
	m.PlaceNewClient(1)

	if err := m.MoveClientToTask(1, "build"); err != nil {
		t.Fatalf("move: %v", err)
	}
	if m.ActiveTask() != "default" {
		t.Fatal("moving a client must not switch tasks")
	}
	if len(wins(m)) != 0 {
		t.Fatal("moved client should leave the view")
	}
	c, _ := m.Registry().Locate(1)
	if c.Task != "build" {
		t.Fatalf("client task %q", c.Task)
	}

	m.SwitchTask("build")
	if got := wins(m); !reflect.DeepEqual(got, []platform.WindowID{1}) {
		t.Fatalf("destination task view %v", got)
	}
	// "default" was emptied by the move but stayed alive while active; it
	// was destroyed when we switched away.
	if !reflect.DeepEqual(m.TaskNames(), []string{"build"}) {
		t.Fatalf("task list %v", m.TaskNames())
	}

	// Moving to the owning task is a no-op.
	if err := m.MoveClientToTask(1, "build"); err != nil {
		t.Fatalf("same-task move: %v", err)
	}
	if err := m.MoveClientToTask(99, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestManager_MoveClientToTaskEmptiesBackgroundTask(t *testing.T) {
	m := testManager()
	m.PlaceNewClient(1)
	m.SwitchTask("build")
	if err := m.MoveClientToTask(1, "build"); err != nil {
		t.Fatalf("move: %v", err)
	}
	if !reflect.DeepEqual(m.TaskNames(), []string{"build"}) {
		t.Fatalf("emptied background task should be destroyed, have %v", m.TaskNames())
	}
	if got := wins(m); !reflect.DeepEqual(got, []platform.WindowID{1}) {
		t.Fatalf("view %v", got)
	}
}

func TestManager_PromoteOrDemote(t *testing.T) {
	m := testManager()
	m.PlaceNewClient(1)
	m.PlaceNewClient(2)
	m.PlaceNewClient(3) // order: 3 2 1

	// A stack client swaps into master.
	if err := m.PromoteOrDemote(1); err != nil {
		t.Fatalf("promote: %v", err)
	}
	if got := wins(m); !reflect.DeepEqual(got, []platform.WindowID{1, 2, 3}) {
		t.Fatalf("order after promote %v", got)
	}

	// The master swaps with the stack head.
	if err := m.PromoteOrDemote(1); err != nil {
		t.Fatalf("demote: %v", err)
	}
	if got := wins(m); !reflect.DeepEqual(got, []platform.WindowID{2, 1, 3}) {
		t.Fatalf("order after demote %v", got)
	}
	c, _ := m.Registry().Locate(2)
	if c.Role != RoleMaster {
		t.Fatal("roles must track the reordering")
	}
}

func TestManager_AdjustMasterFractionClamps(t *testing.T) {
	m := testManager()
	m.AdjustMasterFraction(2)
	if f := m.VisibleFraction(); math.Abs(f-0.7) > 1e-9 {
		t.Fatalf("fraction %v, want 0.7", f)
	}
	m.AdjustMasterFraction(100)
	if m.VisibleFraction() != 0.9 {
		t.Fatalf("fraction must clamp at 0.9, got %v", m.VisibleFraction())
	}
	m.AdjustMasterFraction(-100)
	if m.VisibleFraction() != 0.1 {
		t.Fatalf("fraction must clamp at 0.1, got %v", m.VisibleFraction())
	}

	// The fraction is per workspace.
	m.SwitchWorkspace(1)
	if m.VisibleFraction() != 0.6 {
		t.Fatalf("other workspaces keep their own fraction, got %v", m.VisibleFraction())
	}
}

func TestManager_Snapshot(t *testing.T) {
	m := testManager()
	m.PlaceNewClient(1)
	m.PlaceNewClient(2)
	m.SwitchTask("build")
	m.PlaceNewClient(3)
	m.SwitchWorkspace(1)

	s := m.Snapshot()
	if s.ActiveTask != "build" || s.ActiveWorkspace != 1 || s.Clients != 3 {
		t.Fatalf("snapshot %+v", s)
	}
	if len(s.Tasks) != 2 {
		t.Fatalf("task entries %v", s.Tasks)
	}
	if s.Tasks[0].Name != "default" || s.Tasks[0].Clients != 2 || s.Tasks[0].Active {
		t.Fatalf("default entry %+v", s.Tasks[0])
	}
	if s.Tasks[1].Name != "build" || s.Tasks[1].Clients != 1 || !s.Tasks[1].Active {
		t.Fatalf("build entry %+v", s.Tasks[1])
	}
}
