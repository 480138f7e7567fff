package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine. Every call is bounded by
// the configured timeout so a wedged git process cannot hang a run.
type LocalGitClient struct {
	timeout time.Duration
}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
// A non-positive timeout falls back to DefaultGitTimeout.
func NewLocalGitClient(timeout time.Duration) *LocalGitClient {
	if timeout <= 0 {
		timeout = DefaultGitTimeout
	}
	return &LocalGitClient{timeout: timeout}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
		return nil, fmt.Errorf("git command timed out after %s in %q", c.timeout, repoPath)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s. If this is not a Git repository, verify the path or run 'git init'", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetHeadSHA implements the GitClient interface.
func (c *LocalGitClient) GetHeadSHA(ctx context.Context, repoPath string) (string, error) {
	out, err := c.Run(ctx, repoPath, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetCurrentBranch implements the GitClient interface.
func (c *LocalGitClient) GetCurrentBranch(ctx context.Context, repoPath string) (string, error) {
	out, err := c.Run(ctx, repoPath, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetDiffNameStatus implements the GitClient interface.
// It uses Git's ".." (two-dot) range syntax, which is appropriate for
// comparing a branch head against an ancestor commit or parent branch.
func (c *LocalGitClient) GetDiffNameStatus(ctx context.Context, repoPath string, baseRef, targetRef string) ([]DiffEntry, error) {
	out, err := c.Run(ctx, repoPath, "diff", "--name-status", baseRef+".."+targetRef)
	if err != nil {
		return nil, err
	}
	return ParseNameStatus(out), nil
}

// ParseNameStatus converts raw 'git diff --name-status' output into entries.
// Rename lines carry two paths; the path at the target ref wins.
func ParseNameStatus(out []byte) []DiffEntry {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	entries := make([]DiffEntry, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			continue
		}
		entry := DiffEntry{Status: parts[0], Path: parts[1]}
		if strings.HasPrefix(entry.Status, "R") || strings.HasPrefix(entry.Status, "C") {
			// Renames/copies list "old new"; the new path is the live one.
			entry.Path = parts[len(parts)-1]
		}
		entries = append(entries, entry)
	}
	return entries
}
