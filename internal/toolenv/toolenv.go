// Package toolenv resolves and runs external analysis tools against the
// workspace's own environment rather than whatever is first on PATH.
package toolenv

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/qualgate/qualgate/internal/contract"
)

// Virtualenv directory names probed under the workspace root, in order.
var venvDirs = []string{".venv", "venv"}

// ResolveExecutable maps a bare tool name to the executable that should run
// for this workspace. A project-local virtualenv wins over the ambient PATH;
// running a globally-installed tool version against a venv'd project produces
// spurious findings, so the invocation is rewritten explicitly.
func ResolveExecutable(workdir, name string) string {
	binDir := "bin"
	candidates := []string{name}
	if runtime.GOOS == "windows" {
		binDir = "Scripts"
		candidates = []string{name + ".exe", name}
	}
	for _, venv := range venvDirs {
		for _, candidate := range candidates {
			p := filepath.Join(workdir, venv, binDir, candidate)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return p
			}
		}
	}
	if p, err := exec.LookPath(name); err == nil {
		return p
	}
	return name
}

// LocalToolRunner implements contract.ToolRunner with os/exec, bounding
// every invocation by a timeout.
type LocalToolRunner struct {
	timeout time.Duration
}

var _ contract.ToolRunner = &LocalToolRunner{} // Compile-time check

// NewLocalToolRunner creates a runner with the given per-invocation timeout.
func NewLocalToolRunner(timeout time.Duration) *LocalToolRunner {
	return &LocalToolRunner{timeout: timeout}
}

// Run resolves argv[0] against the workspace environment and executes the
// command in workdir. A non-zero exit is reported through ExitCode, not as
// an error; the returned error means the process never started.
func (r *LocalToolRunner) Run(ctx context.Context, workdir string, argv []string) (contract.ExecResult, error) {
	if len(argv) == 0 {
		return contract.ExecResult{}, errors.New("empty command")
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	resolved := append([]string{ResolveExecutable(workdir, argv[0])}, argv[1:]...)
	cmd := exec.CommandContext(ctx, resolved[0], resolved[1:]...)
	cmd.Dir = workdir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	result := contract.ExecResult{
		Argv:     resolved,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if err == nil {
		return result, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return result, errors.New("command timed out")
		}
		return result, nil
	}
	return result, err
}
