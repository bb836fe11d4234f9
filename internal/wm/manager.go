package wm

import (
	"github.com/1broseidon/taskwm/internal/platform"
)

// Params configures the task/workspace manager.
type Params struct {
	// DefaultTask is the name of the task created at startup.
	DefaultTask string
	// MasterFraction is the initial master-area fraction for new workspaces.
	MasterFraction float64
	// MasterStep is the fraction delta applied by grow/shrink operations.
	MasterStep float64
}

// Manager owns the task set, the active task/workspace pointers and the
// client registry. Every operation is synchronous and total: unexpected
// states are ignored rather than propagated, because a stuck window manager
// is worse than a dropped event.
//
// The manager issues no protocol calls. The dispatcher reads the resulting
// state and commits geometry, visibility and focus to the server.
type Manager struct {
	params Params
	reg    *Registry
	tasks  []*Task // creation order, drives switcher listing
	active int     // index into tasks
}

func NewManager(params Params) *Manager {
	m := &Manager{
		params: params,
		reg:    NewRegistry(),
	}
	m.tasks = []*Task{newTask(params.DefaultTask, params.MasterFraction)}
	m.active = 0
	return m
}

// Registry exposes the client registry for lookups.
func (m *Manager) Registry() *Registry {
	return m.reg
}

// ActiveTask returns the name of the active task.
func (m *Manager) ActiveTask() string {
	return m.tasks[m.active].name
}

// ActiveWorkspace returns the active workspace index of the active task.
func (m *Manager) ActiveWorkspace() int {
	return m.tasks[m.active].active
}

// TaskNames lists all live tasks in creation order.
func (m *Manager) TaskNames() []string {
	names := make([]string, len(m.tasks))
	for i, t := range m.tasks {
		names[i] = t.name
	}
	return names
}

// Visible returns the clients of the active task's active workspace, in
// stacking order. Everything else stays unmapped.
func (m *Manager) Visible() []platform.WindowID {
	return m.tasks[m.active].activeWorkspace().Clients()
}

// VisibleFraction returns the master fraction of the visible workspace.
func (m *Manager) VisibleFraction() float64 {
	return m.tasks[m.active].activeWorkspace().Fraction()
}

// Focused returns the focused client of the visible workspace, if any.
func (m *Manager) Focused() (platform.WindowID, bool) {
	return m.tasks[m.active].activeWorkspace().Focused()
}

// AllClients returns every managed window across all tasks and workspaces.
func (m *Manager) AllClients() []platform.WindowID {
	var wins []platform.WindowID
	for _, t := range m.tasks {
		for i := range t.workspaces {
			wins = append(wins, t.workspaces[i].clients...)
		}
	}
	return wins
}

// PlaceNewClient registers the window and inserts it at the head of the
// active workspace as the new master, demoting the previous master to the
// top of the stack. The new client takes focus.
func (m *Manager) PlaceNewClient(win platform.WindowID) error {
	if _, err := m.reg.Register(win); err != nil {
		return err
	}
	t := m.tasks[m.active]
	ws := t.activeWorkspace()
	ws.insertHead(win)
	m.reg.setMembership(win, t.name, t.active)
	m.syncRoles(ws)
	return nil
}

// RemoveClient unregisters the window and drops it from its workspace, then
// re-evaluates the owning task for auto-destruction.
func (m *Manager) RemoveClient(win platform.WindowID) error {
	c, ok := m.reg.Locate(win)
	if !ok {
		return ErrNotFound
	}
	owner := c.Task
	if t := m.taskByName(owner); t != nil {
		if ws := t.Workspace(c.Workspace); ws != nil && ws.remove(win) {
			m.syncRoles(ws)
		}
	}
	m.reg.Unregister(win)
	m.maybeDestroyTask(owner)
	return nil
}

// SwitchTask makes the named task active, creating it with empty workspaces
// when it does not exist. Switching to the already-active task is a no-op.
// The task being left behind is destroyed if it holds no clients.
func (m *Manager) SwitchTask(name string) {
	prev := m.tasks[m.active]
	if name == prev.name {
		return
	}
	next := m.taskByName(name)
	if next == nil {
		next = newTask(name, m.params.MasterFraction)
		m.tasks = append(m.tasks, next)
	}
	m.active = m.indexOf(next)
	m.maybeDestroyTask(prev.name)
}

// SwitchWorkspace changes the active workspace of the active task. An
// out-of-range index is a no-op; the keybinding table is fixed to four keys,
// so this should not occur from trusted input.
func (m *Manager) SwitchWorkspace(index int) {
	if index < 0 || index >= NumWorkspaces {
		return
	}
	m.tasks[m.active].active = index
}

// MoveClientToWorkspace reassigns a client to another workspace within its
// owning task. The client becomes the master of the destination.
func (m *Manager) MoveClientToWorkspace(win platform.WindowID, index int) error {
	c, ok := m.reg.Locate(win)
	if !ok {
		return ErrNotFound
	}
	if index < 0 || index >= NumWorkspaces || index == c.Workspace {
		return nil
	}
	t := m.taskByName(c.Task)
	if t == nil {
		return ErrNotFound
	}
	src := t.Workspace(c.Workspace)
	dst := t.Workspace(index)
	if !src.remove(win) {
		return ErrNotFound
	}
	m.syncRoles(src)
	dst.insertHead(win)
	m.reg.setMembership(win, t.name, index)
	m.syncRoles(dst)
	return nil
}

// MoveClientToTask reassigns a client to the active workspace of the named
// task, creating the task when it does not exist. The active task is left
// unchanged; the source task is re-evaluated for auto-destruction.
func (m *Manager) MoveClientToTask(win platform.WindowID, name string) error {
	c, ok := m.reg.Locate(win)
	if !ok {
		return ErrNotFound
	}
	if name == c.Task {
		return nil
	}
	src := m.taskByName(c.Task)
	if src == nil {
		return ErrNotFound
	}
	if ws := src.Workspace(c.Workspace); ws != nil && ws.remove(win) {
		m.syncRoles(ws)
	}
	sourceName := c.Task

	dst := m.taskByName(name)
	if dst == nil {
		dst = newTask(name, m.params.MasterFraction)
		m.tasks = append(m.tasks, dst)
	}
	ws := dst.activeWorkspace()
	ws.insertHead(win)
	m.reg.setMembership(win, dst.name, dst.active)
	m.syncRoles(ws)

	m.maybeDestroyTask(sourceName)
	return nil
}

// PromoteOrDemote toggles a client between master and stack-head position
// with swap-with-master semantics: the master swaps with the stack head, any
// other client swaps into master. Focus follows the client.
func (m *Manager) PromoteOrDemote(win platform.WindowID) error {
	c, ok := m.reg.Locate(win)
	if !ok {
		return ErrNotFound
	}
	t := m.taskByName(c.Task)
	if t == nil {
		return ErrNotFound
	}
	ws := t.Workspace(c.Workspace)
	i := ws.indexOf(win)
	if i < 0 {
		return ErrNotFound
	}
	if i == 0 {
		ws.swapWithMaster(1)
	} else {
		ws.swapWithMaster(i)
	}
	m.syncRoles(ws)
	return nil
}

// CycleFocus advances focus within the visible workspace, wrapping.
func (m *Manager) CycleFocus(dir int) {
	m.tasks[m.active].activeWorkspace().cycleFocus(dir)
}

// AdjustMasterFraction grows or shrinks the visible workspace's master area
// by steps of Params.MasterStep, clamped.
func (m *Manager) AdjustMasterFraction(steps int) {
	ws := m.tasks[m.active].activeWorkspace()
	ws.AdjustFraction(float64(steps) * m.params.MasterStep)
}

func (m *Manager) taskByName(name string) *Task {
	for _, t := range m.tasks {
		if t.name == name {
			return t
		}
	}
	return nil
}

func (m *Manager) indexOf(task *Task) int {
	for i, t := range m.tasks {
		if t == task {
			return i
		}
	}
	return 0
}

// maybeDestroyTask destroys the named task the moment all of its workspaces
// are empty, unless it is the active task. The active task is never
// auto-destroyed so the user is never left on a removed context.
func (m *Manager) maybeDestroyTask(name string) {
	t := m.taskByName(name)
	if t == nil || !t.Empty() || t == m.tasks[m.active] {
		return
	}
	active := m.tasks[m.active]
	for i, other := range m.tasks {
		if other == t {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			break
		}
	}
	m.active = m.indexOf(active)
}

// TaskStatus describes one task for the control socket and the switcher menu.
type TaskStatus struct {
	Name            string `json:"name"`
	Clients         int    `json:"clients"`
	Active          bool   `json:"active"`
	ActiveWorkspace int    `json:"active_workspace"`
}

// Status is a point-in-time snapshot of manager state.
type Status struct {
	ActiveTask      string       `json:"active_task"`
	ActiveWorkspace int          `json:"active_workspace"`
	Clients         int          `json:"clients"`
	Tasks           []TaskStatus `json:"tasks"`
}

// Snapshot captures the current task set for reporting.
func (m *Manager) Snapshot() Status {
	s := Status{
		ActiveTask:      m.ActiveTask(),
		ActiveWorkspace: m.ActiveWorkspace(),
		Clients:         m.reg.Len(),
	}
	for i, t := range m.tasks {
		s.Tasks = append(s.Tasks, TaskStatus{
			Name:            t.name,
			Clients:         t.ClientCount(),
			Active:          i == m.active,
			ActiveWorkspace: t.active,
		})
	}
	return s
}

func (m *Manager) syncRoles(ws *Workspace) {
	for i, win := range ws.clients {
		if i == 0 {
			m.reg.setRole(win, RoleMaster)
		} else {
			m.reg.setRole(win, RoleStack)
		}
	}
}
