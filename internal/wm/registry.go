package wm

import (
	"errors"

	"github.com/1broseidon/taskwm/internal/platform"
)

var (
	// ErrAlreadyManaged is returned when a window handle is registered twice.
	// Should be unreachable under normal event ordering; callers log and move on.
	ErrAlreadyManaged = errors.New("window already managed")

	// ErrNotFound is returned for operations referencing an unknown client.
	// Protocol events can arrive for handles that were already cleaned up, so
	// callers treat this as a no-op.
	ErrNotFound = errors.New("client not found")
)

// Role marks a client's position in the master-stack split.
type Role int

const (
	RoleMaster Role = iota
	RoleStack
)

func (r Role) String() string {
	if r == RoleMaster {
		return "master"
	}
	return "stack"
}

// Client is the metadata tracked for one managed window. The registry is the
// sole owner; tasks and workspaces reference clients by window id only.
type Client struct {
	Win       platform.WindowID
	Task      string
	Workspace int
	Role      Role

	rank uint64 // global insertion order
}

// Registry maps window handles to client metadata. It issues no protocol
// calls; mutation happens only through the Manager.
type Registry struct {
	clients  map[platform.WindowID]*Client
	nextRank uint64
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[platform.WindowID]*Client)}
}

// Register starts tracking a window handle.
func (r *Registry) Register(win platform.WindowID) (*Client, error) {
	if _, ok := r.clients[win]; ok {
		return nil, ErrAlreadyManaged
	}
	c := &Client{Win: win, Role: RoleStack, rank: r.nextRank}
	r.nextRank++
	r.clients[win] = c
	return c, nil
}

// Unregister drops all metadata for a window handle.
func (r *Registry) Unregister(win platform.WindowID) error {
	if _, ok := r.clients[win]; !ok {
		return ErrNotFound
	}
	delete(r.clients, win)
	return nil
}

// Locate looks up a client by handle. Absence is a valid result, not an error.
func (r *Registry) Locate(win platform.WindowID) (*Client, bool) {
	c, ok := r.clients[win]
	return c, ok
}

// Len reports the number of tracked clients.
func (r *Registry) Len() int {
	return len(r.clients)
}

func (r *Registry) setMembership(win platform.WindowID, task string, workspace int) {
	if c, ok := r.clients[win]; ok {
		c.Task = task
		c.Workspace = workspace
	}
}

func (r *Registry) setRole(win platform.WindowID, role Role) {
	if c, ok := r.clients[win]; ok {
		c.Role = role
	}
}
