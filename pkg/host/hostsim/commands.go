package hostsim

import (
	"sync"
)

// CommandRun is one command executed against the simulated host.
type CommandRun struct {
	Dimension string
	Command   string
}

// Commands is an in-memory implementation of host.CommandRunner that
// records everything it is asked to run.
type Commands struct {
	// Err, when set, is returned by every RunCommand call.
	Err error

	mu   sync.Mutex
	runs []CommandRun
}

// NewCommands creates a command runner with an empty log.
func NewCommands() *Commands {
	return &Commands{}
}

// RunCommand records the command and returns Err.
func (c *Commands) RunCommand(dimension string, command string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.runs = append(c.runs, CommandRun{Dimension: dimension, Command: command})
	return c.Err
}

// Runs returns a copy of every recorded command, oldest first.
func (c *Commands) Runs() []CommandRun {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CommandRun, len(c.runs))
	copy(out, c.runs)
	return out
}
