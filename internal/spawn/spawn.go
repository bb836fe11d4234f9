// Package spawn launches the external collaborators: terminal, application
// launcher and the task selector menu. Spawned processes inherit the active
// task's working directory and name; the core state machine never blocks on
// them.
package spawn

import (
	"log"
	"os"
	"os/exec"

	"github.com/1broseidon/taskwm/internal/config"
	"github.com/1broseidon/taskwm/internal/menu"
)

// Spawner implements the dispatcher's spawn surface from the configuration.
type Spawner struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Spawner {
	return &Spawner{cfg: cfg}
}

// Terminal starts the configured terminal in the task's working directory.
func (s *Spawner) Terminal(task string) {
	s.run(s.cfg.Commands.Terminal, task)
}

// Launcher starts the configured application launcher.
func (s *Spawner) Launcher(task string) {
	s.run(s.cfg.Commands.Launcher, task)
}

// TaskMenu shows the task selector over the given task list.
func (s *Spawner) TaskMenu(tasks []string, move bool) {
	menu.Show(s.cfg.Commands.Menu, tasks, move)
}

func (s *Spawner) run(command, task string) {
	cmd := exec.Command(command)
	cmd.Env = append(os.Environ(), config.EnvTaskName+"="+task)

	if dir, ok := s.cfg.TaskWorkdirs[task]; ok {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			cmd.Dir = dir
		}
	}

	if err := cmd.Start(); err != nil {
		log.Printf("failed to spawn %q: %v", command, err)
		return
	}
	// Reap in the background so finished children don't linger as zombies.
	go cmd.Wait()
}
