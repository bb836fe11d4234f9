package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/1broseidon/taskwm/internal/wm"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// styled reports whether to render with colors: only on a real terminal.
func styled() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func printStatus(w io.Writer, status wm.Status) {
	if styled() {
		fmt.Fprintf(w, "%s %s\n", titleStyle.Render("active task:"), activeStyle.Render(status.ActiveTask))
		fmt.Fprintf(w, "%s %d\n", titleStyle.Render("workspace:  "), status.ActiveWorkspace+1)
		fmt.Fprintf(w, "%s %d\n", titleStyle.Render("clients:    "), status.Clients)
	} else {
		fmt.Fprintf(w, "active task: %s\n", status.ActiveTask)
		fmt.Fprintf(w, "workspace:   %d\n", status.ActiveWorkspace+1)
		fmt.Fprintf(w, "clients:     %d\n", status.Clients)
	}
	printTasks(w, status.Tasks)
}

func printTasks(w io.Writer, tasks []wm.TaskStatus) {
	for _, t := range tasks {
		line := fmt.Sprintf("%s  (workspace %d, %d client(s))", t.Name, t.ActiveWorkspace+1, t.Clients)
		switch {
		case !styled():
			if t.Active {
				fmt.Fprintf(w, "* %s\n", line)
			} else {
				fmt.Fprintf(w, "  %s\n", line)
			}
		case t.Active:
			fmt.Fprintf(w, "%s %s\n", activeStyle.Render("*"), activeStyle.Render(line))
		default:
			fmt.Fprintf(w, "  %s\n", dimStyle.Render(line))
		}
	}
}
