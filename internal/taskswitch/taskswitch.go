// Package taskswitch decodes the task selection an external menu reports
// through the root window name (the xsetroot -name convention).
package taskswitch

import "strings"

// MoveMarker prefixes a selection that moves the focused window to the named
// task instead of switching to it. The menu glue writes it; any other string
// is an opaque task name.
const MoveMarker = "TASKWM_MOVE_MARKER"

// Kind classifies a decoded selection.
type Kind int

const (
	// Ignore means no action: an empty or whitespace-only name, typically an
	// accidental menu submission.
	Ignore Kind = iota
	// Switch activates (or creates) the named task.
	Switch
	// Move sends the focused window to the named task.
	Move
)

// Command is the decoded form of a root window name.
type Command struct {
	Kind Kind
	Task string
}

// Decode interprets a root window name. Whitespace is trimmed; empty input is
// ignored rather than rejected. Task names are opaque, no characters are
// validated.
func Decode(raw string) Command {
	name := strings.TrimSpace(raw)
	if name == "" {
		return Command{Kind: Ignore}
	}
	if rest, ok := strings.CutPrefix(name, MoveMarker); ok {
		rest = strings.TrimSpace(rest)
		if rest == "" {
			return Command{Kind: Ignore}
		}
		return Command{Kind: Move, Task: rest}
	}
	return Command{Kind: Switch, Task: name}
}
