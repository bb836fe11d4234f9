package wm

import "fmt"

// Op enumerates the operations a keybinding can trigger.
type Op int

const (
	OpSwitchWorkspace Op = iota
	OpMoveToWorkspace
	OpCycleFocus
	OpAdjustMaster
	OpPromote
	OpSpawnTerminal
	OpSpawnLauncher
	OpTaskMenu
	OpMoveToTaskMenu
	OpQuit
)

// Action pairs an operation with its argument: a workspace index for
// switch/move, a direction (+1/-1) for focus cycling and master adjustment.
type Action struct {
	Op  Op
	Arg int
}

var actionNames = map[string]Action{
	"switch-workspace-1":  {Op: OpSwitchWorkspace, Arg: 0},
	"switch-workspace-2":  {Op: OpSwitchWorkspace, Arg: 1},
	"switch-workspace-3":  {Op: OpSwitchWorkspace, Arg: 2},
	"switch-workspace-4":  {Op: OpSwitchWorkspace, Arg: 3},
	"move-to-workspace-1": {Op: OpMoveToWorkspace, Arg: 0},
	"move-to-workspace-2": {Op: OpMoveToWorkspace, Arg: 1},
	"move-to-workspace-3": {Op: OpMoveToWorkspace, Arg: 2},
	"move-to-workspace-4": {Op: OpMoveToWorkspace, Arg: 3},
	"focus-next":          {Op: OpCycleFocus, Arg: 1},
	"focus-prev":          {Op: OpCycleFocus, Arg: -1},
	"grow-master":         {Op: OpAdjustMaster, Arg: 1},
	"shrink-master":       {Op: OpAdjustMaster, Arg: -1},
	"promote":             {Op: OpPromote},
	"spawn-terminal":      {Op: OpSpawnTerminal},
	"spawn-launcher":      {Op: OpSpawnLauncher},
	"switch-task-menu":    {Op: OpTaskMenu},
	"move-to-task-menu":   {Op: OpMoveToTaskMenu},
	"quit":                {Op: OpQuit},
}

// ParseAction resolves a keybinding action name from the config file.
func ParseAction(name string) (Action, error) {
	a, ok := actionNames[name]
	if !ok {
		return Action{}, fmt.Errorf("unknown action %q", name)
	}
	return a, nil
}
