package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
)

// Color variables for console output.
var (
	PassColor = color.New(color.FgGreen, color.Bold)  // all gates passed
	FailColor = color.New(color.FgRed, color.Bold)    // at least one gate failed
	SkipColor = color.New(color.FgCyan)               // nothing to evaluate
	WarnColor = color.New(color.FgYellow)             // attention without failure
)

// WorkspaceRelative converts p to a workspace-relative, forward-slash path.
// A path already relative to the root passes through with separators
// normalized. An absolute path outside the root (a tool following imports
// into a venv, say) is relativized best-effort, falling back to the
// basename; an absolute path never passes through.
func WorkspaceRelative(root, p string) string {
	p = filepath.ToSlash(strings.TrimSpace(p))
	root = filepath.ToSlash(root)
	if root != "" && strings.HasPrefix(p, root+"/") {
		return strings.TrimPrefix(p, root+"/")
	}
	if p == root {
		return "."
	}
	if filepath.IsAbs(p) && root != "" {
		if rel, err := filepath.Rel(root, p); err == nil {
			return filepath.ToSlash(rel)
		}
		return filepath.ToSlash(filepath.Base(p))
	}
	return strings.TrimPrefix(p, "./")
}

// MatchesAny reports whether the relative path matches at least one of the
// doublestar patterns. An invalid pattern never matches; catalog validation
// is the place that rejects those loudly.
func MatchesAny(path string, patterns []string) bool {
	for _, pat := range patterns {
		pat = strings.TrimSpace(pat)
		if pat == "" {
			continue
		}
		if ok, err := doublestar.Match(pat, path); err == nil && ok {
			return true
		}
	}
	return false
}

// HasExtension reports whether the path carries one of the extensions.
func HasExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}

// TruncatePath shortens long paths for table display, keeping the basename
// visible.
func TruncatePath(path string, maxWidth int) string {
	if maxWidth <= 0 || len(path) <= maxWidth {
		return path
	}
	if maxWidth <= 3 {
		return path[len(path)-maxWidth:]
	}
	return "..." + path[len(path)-(maxWidth-3):]
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout for an empty path.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetArtifactDBFilePath returns the path to the SQLite DB file for the
// artifact log.
func GetArtifactDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".qualgate_artifacts.db"
	}
	return filepath.Join(homeDir, ".qualgate_artifacts.db")
}
