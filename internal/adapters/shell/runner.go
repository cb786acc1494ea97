// Package shell runs external executables for the pipeline and the test runner.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/creack/pty"
	"go.trai.ch/wasmship/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	// tailLimit caps the captured output attached to error metadata.
	tailLimit = 4096
	// shortStderr is the stderr length below which stdout is attached as well,
	// for tools that report their failure on stdout.
	shortStderr = 256
)

// Runner implements ports.ProcessRunner using os/exec.
type Runner struct{}

// NewRunner creates a new Runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Run starts cmd, streams its output to the command's writers while capturing
// it, and waits for it to exit.
func (r *Runner) Run(ctx context.Context, cmd domain.Command) (*domain.ProcessResult, error) {
	if cmd.Name == "" {
		return nil, zerr.With(domain.Tag(domain.ErrExternalProcessFailed), "reason", "empty command")
	}

	env := resolveEnvironment(os.Environ(), cmd.Env)

	executable := cmd.Name
	if !filepath.IsAbs(cmd.Name) {
		if lp, err := lookPath(cmd.Name, env); err == nil {
			executable = lp
		}
	}

	c := exec.CommandContext(ctx, executable, cmd.Args...) //nolint:gosec // commands are built from configuration
	c.Args[0] = cmd.Name
	c.Dir = cmd.Dir
	c.Env = env

	var stdout, stderr lockedBuffer
	var runErr error
	if cmd.TTY {
		runErr = runPTY(c, io.MultiWriter(&stdout, orDiscard(cmd.Stdout)))
	} else {
		c.Stdout = io.MultiWriter(&stdout, orDiscard(cmd.Stdout))
		c.Stderr = io.MultiWriter(&stderr, orDiscard(cmd.Stderr))
		runErr = c.Run()
	}

	if runErr == nil {
		return &domain.ProcessResult{
			Stdout: stdout.String(),
			Stderr: stderr.String(),
		}, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(runErr, &exitErr) {
		err := domain.WrapKind(domain.ErrExternalProcessFailed, runErr)
		err = zerr.With(err, "command", cmd.String())
		return nil, zerr.With(err, "exit_code", -1)
	}

	result := &domain.ProcessResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitErr.ExitCode(),
	}

	err := domain.WrapKind(domain.ErrExternalProcessFailed, runErr)
	err = zerr.With(err, "command", cmd.String())
	err = zerr.With(err, "exit_code", result.ExitCode)
	stderrTail := tailOf(result.Stderr)
	if stderrTail != "" {
		err = zerr.With(err, "stderr", stderrTail)
	}
	if len(stderrTail) < shortStderr {
		if tail := tailOf(result.Stdout); tail != "" {
			err = zerr.With(err, "stdout", tail)
		}
	}
	return result, err
}

// runPTY runs c attached to a pseudo-terminal and copies its output to w.
func runPTY(c *exec.Cmd, w io.Writer) error {
	ptmx, err := pty.Start(c)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Reads fail with EIO once the child side closes.
		_, _ = io.Copy(w, ptmx)
	}()

	waitErr := c.Wait()
	<-done
	_ = ptmx.Close()
	return waitErr
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

func tailOf(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= tailLimit {
		return s
	}
	return s[len(s)-tailLimit:]
}

// lockedBuffer is a bytes.Buffer safe for the concurrent writes os/exec may issue.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// resolveEnvironment layers overrides on top of the inherited environment.
// The result is sorted by key.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(overrides))
	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range overrides {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

// lookPath searches for an executable in the directories named by the PATH
// entry of env rather than the current process environment.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
