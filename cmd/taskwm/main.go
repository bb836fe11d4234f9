package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/1broseidon/taskwm/internal/config"
	"github.com/1broseidon/taskwm/internal/hotkeys"
	"github.com/1broseidon/taskwm/internal/ipc"
	"github.com/1broseidon/taskwm/internal/spawn"
	"github.com/1broseidon/taskwm/internal/wm"
	"github.com/1broseidon/taskwm/internal/x11"
)

func main() {
	if len(os.Args) < 2 {
		// Started from xinit/a display manager with no arguments.
		os.Exit(runWM())
	}

	switch os.Args[1] {
	case "run":
		if len(os.Args) > 2 {
			fmt.Fprintln(os.Stderr, "run takes no arguments")
			os.Exit(2)
		}
		os.Exit(runWM())
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "tasks":
		os.Exit(runTasks(os.Args[2:]))
	case "switch":
		os.Exit(runSwitch(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: taskwm [command]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Without a command, taskwm starts the window manager.")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run            Start the window manager (foreground)")
	fmt.Fprintln(w, "  status         Show the running manager's state")
	fmt.Fprintln(w, "  tasks          List live tasks in creation order")
	fmt.Fprintln(w, "  switch <name>  Switch to (or create) a task")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'taskwm <command> --help' for command-specific options.")
}

func runWM() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("config: %v", err)
		return 1
	}

	conn, err := x11.NewConnection()
	if err != nil {
		log.Printf("failed to connect to X server: %v", err)
		return 1
	}
	defer conn.Close()

	if err := conn.Manage(); err != nil {
		log.Print(err)
		return 1
	}

	defaultPixel, err := conn.AllocColor(cfg.Border.Color)
	if err != nil {
		log.Print(err)
		return 1
	}
	focusedPixel, err := conn.AllocColor(cfg.Border.FocusedColor)
	if err != nil {
		log.Print(err)
		return 1
	}

	keys, err := hotkeys.NewTable(conn.XUtil(), conn.Root(), cfg.Bindings)
	if err != nil {
		log.Printf("keybindings: %v", err)
		return 1
	}

	mgr := wm.NewManager(wm.Params{
		DefaultTask:    cfg.DefaultTask,
		MasterFraction: cfg.Master.Fraction,
		MasterStep:     cfg.Master.Step,
	})
	dispatcher := wm.NewDispatcher(conn, mgr, spawn.New(cfg), wm.Decor{
		BorderWidth:  cfg.Border.Width,
		DefaultPixel: defaultPixel,
		FocusedPixel: focusedPixel,
	})

	// Adopt windows that were already on screen. The dispatcher has not
	// started yet, so placing them directly is still single-threaded; the
	// first commit lays them out.
	existing, err := conn.ExistingWindows()
	if err != nil {
		log.Printf("adopting existing windows: %v", err)
	}
	for _, win := range existing {
		if err := mgr.PlaceNewClient(win); err != nil {
			log.Printf("adopting window %d: %v", win, err)
		}
	}

	server, err := ipc.NewServer(dispatcher.Events())
	if err != nil {
		log.Printf("control socket: %v", err)
		return 1
	}
	if err := server.Start(); err != nil {
		log.Printf("control socket: %v", err)
		return 1
	}
	defer server.Stop()

	go conn.Pump(dispatcher.Events(), keys)

	log.Printf("taskwm managing %d existing window(s), task %q", len(existing), cfg.DefaultTask)
	if err := dispatcher.Run(); err != nil {
		log.Print(err)
		return 1
	}
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: taskwm status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show the running manager's state via the control socket.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printStatus(os.Stdout, status)
	return 0
}

func runTasks(args []string) int {
	fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: taskwm tasks")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List live tasks in creation order.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "tasks takes no arguments")
		fs.Usage()
		return 2
	}

	tasks, err := ipc.NewClient().ListTasks()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printTasks(os.Stdout, tasks)
	return 0
}

func runSwitch(args []string) int {
	fs := flag.NewFlagSet("switch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: taskwm switch <name>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Switch to the named task, creating it if it does not exist.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "switch takes exactly one task name")
		fs.Usage()
		return 2
	}

	if err := ipc.NewClient().SwitchTask(fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
