package domain

import (
	"io"
	"strings"
)

// Command describes one external process invocation.
type Command struct {
	// Name is the executable, resolved through PATH.
	Name string
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env holds overrides layered on top of the inherited environment.
	Env map[string]string
	// Stdout and Stderr receive the process output as it is produced.
	// Output is captured regardless.
	Stdout io.Writer
	Stderr io.Writer
	// TTY runs the process attached to a pseudo-terminal. Both streams are
	// merged into Stdout.
	TTY bool
}

// String renders the command line for logs and error metadata.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// ProcessResult is the outcome of a process that was started.
type ProcessResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}
