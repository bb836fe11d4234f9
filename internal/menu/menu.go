// Package menu drives the external task selector (dmenu by default). The
// selection never flows back directly: it is written onto the root window
// name, and the window manager picks it up through PropertyNotify like any
// other task-switch signal.
package menu

import (
	"errors"
	"log"
	"os/exec"
	"strings"

	"github.com/1broseidon/taskwm/internal/taskswitch"
)

// Show runs the selector asynchronously with the task list on stdin, newest
// first. A non-empty selection (an existing task or a typed new name) is
// published as the root window name; when move is true it is prefixed with
// the move marker. Cancelling the menu selects nothing.
func Show(command string, tasks []string, move bool) {
	items := make([]string, 0, len(tasks))
	for i := len(tasks) - 1; i >= 0; i-- {
		items = append(items, tasks[i])
	}

	go func() {
		cmd := exec.Command(command)
		cmd.Stdin = strings.NewReader(strings.Join(items, "\n"))

		out, err := cmd.Output()
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				// Escape or Ctrl+C in the menu.
				return
			}
			log.Printf("task menu %q failed: %v", command, err)
			return
		}

		selection := strings.TrimSpace(string(out))
		if selection == "" {
			return
		}
		if move {
			selection = taskswitch.MoveMarker + selection
		}
		if err := exec.Command("xsetroot", "-name", selection).Run(); err != nil {
			log.Printf("failed to publish task selection: %v", err)
		}
	}()
}
