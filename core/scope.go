package core

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/qualgate/qualgate/internal/contract"
	"github.com/qualgate/qualgate/schema"
)

// ResolvedScope is the outcome of scope resolution. The effective scope is
// carried explicitly from here to every downstream consumer; nothing
// re-derives it from context.
type ResolvedScope struct {
	Requested schema.ScopeMode
	Effective schema.ScopeMode // Scope actually used for file resolution
	Branch    string           // Current branch, when git was consulted
	HeadSHA   string           // Current HEAD, when git was consulted
	Baseline  schema.BaselineRecord
	Files     []string // Deduplicated, sorted, workspace-relative
	Warnings  []string

	// Degraded records that resolution hit a version-control or state
	// failure and the candidate set may be incomplete. A degraded run can
	// still execute, but it must never be allowed to move baseline state:
	// an empty set produced by a failed diff reads exactly like a genuinely
	// clean one.
	Degraded bool
}

// EffectivelyAuto reports whether this run is eligible to mutate baseline
// state. A requested-auto run stays eligible even when file resolution fell
// back to project because no baseline existed yet; that fallback run is how
// the first baseline gets established. Every other mode is read-only.
func (r *ResolvedScope) EffectivelyAuto() bool {
	return r.Requested == schema.AutoScope
}

// ScopeResolver maps a ScopeRequest to a concrete candidate file list,
// before any gate-specific filtering is applied.
type ScopeResolver struct {
	cfg   *contract.Config
	git   contract.GitClient
	state contract.StateStore
}

// NewScopeResolver creates a resolver over the given collaborators.
func NewScopeResolver(cfg *contract.Config, git contract.GitClient, state contract.StateStore) *ScopeResolver {
	return &ScopeResolver{cfg: cfg, git: git, state: state}
}

// Resolve computes the candidate file set for a request. Malformed requests
// fail before anything executes; version-control failures degrade to an
// empty candidate set with a surfaced warning instead of propagating.
func (sr *ScopeResolver) Resolve(ctx context.Context, req schema.ScopeRequest) (*ResolvedScope, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	res := &ResolvedScope{Requested: req.Mode, Effective: req.Mode}

	switch req.Mode {
	case schema.ProjectScope:
		res.Files = sr.resolveProject(res)
	case schema.BranchScope:
		sr.resolveBranch(ctx, res)
	case schema.FilesScope:
		sr.resolveFiles(req.Files, res)
	case schema.AutoScope:
		sr.resolveAuto(ctx, res)
	}

	res.Files = dedupeSorted(res.Files)
	return res, nil
}

// resolveProject expands the configured glob patterns against the workspace
// root. Hidden directories (virtualenvs, VCS metadata) are never candidates.
func (sr *ScopeResolver) resolveProject(res *ResolvedScope) []string {
	root := os.DirFS(sr.cfg.RepoRoot)
	var files []string
	for _, pattern := range sr.cfg.ProjectGlobs {
		matches, err := doublestar.Glob(root, pattern)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("invalid project glob %q: %v", pattern, err))
			continue
		}
		for _, m := range matches {
			if underHiddenDir(m) {
				continue
			}
			files = append(files, m)
		}
	}
	return files
}

// resolveBranch diffs the parent branch against HEAD. The parent comes from
// the workflow state's top-level parent_branch key, falling back to the
// configured default when unset.
func (sr *ScopeResolver) resolveBranch(ctx context.Context, res *ResolvedScope) {
	parent, err := sr.state.ParentBranch()
	if err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("could not read parent branch from workflow state: %v", err))
	}
	if parent == "" {
		parent = sr.cfg.FallbackParent
	}
	res.Files = sr.diffFiles(ctx, res, parent, "HEAD")
}

// resolveFiles validates and expands caller-supplied paths. Directories
// expand recursively to contained source files; a path that is neither a
// recognized source file nor a directory is surfaced, never silently
// absorbed into an empty result.
func (sr *ScopeResolver) resolveFiles(paths []string, res *ResolvedScope) {
	extensions := sr.extensionUnion()
	for _, p := range paths {
		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(sr.cfg.RepoRoot, p)
		}
		info, err := os.Stat(abs)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("path %q does not exist; skipped", p))
			continue
		}
		if info.IsDir() {
			expanded, walkErr := expandDirectory(abs, extensions)
			if walkErr != nil {
				res.Warnings = append(res.Warnings, fmt.Sprintf("could not expand directory %q: %v", p, walkErr))
				continue
			}
			for _, f := range expanded {
				res.Files = append(res.Files, contract.WorkspaceRelative(sr.cfg.RepoRoot, f))
			}
			continue
		}
		if !contract.HasExtension(abs, extensions) {
			res.Warnings = append(res.Warnings, fmt.Sprintf("path %q is neither a recognized source file nor a directory; skipped", p))
			continue
		}
		res.Files = append(res.Files, contract.WorkspaceRelative(sr.cfg.RepoRoot, abs))
	}
}

// resolveAuto unions the baseline diff with the persisted failed set. With
// no baseline established, file resolution falls back entirely to project
// scope; the effective scope records that fallback.
func (sr *ScopeResolver) resolveAuto(ctx context.Context, res *ResolvedScope) {
	branch, err := sr.git.GetCurrentBranch(ctx, sr.cfg.RepoRoot)
	if err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("could not determine current branch: %v", err))
		res.Degraded = true
		return
	}
	res.Branch = branch

	head, err := sr.git.GetHeadSHA(ctx, sr.cfg.RepoRoot)
	if err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("could not resolve HEAD: %v", err))
		res.Degraded = true
		return
	}
	res.HeadSHA = head

	baseline, err := sr.state.LoadBaseline(branch)
	if err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("could not load baseline state: %v", err))
		res.Degraded = true
		return
	}
	res.Baseline = baseline

	if !baseline.HasBaseline() {
		res.Effective = schema.ProjectScope
		res.Files = sr.resolveProject(res)
		return
	}

	res.Files = sr.diffFiles(ctx, res, baseline.BaselineSHA, "HEAD")
	for _, f := range baseline.FailedFiles {
		// A carried failure that has since been deleted has nothing left
		// to check; handing it to a gate would only manufacture a spurious
		// launch error.
		if _, err := os.Stat(filepath.Join(sr.cfg.RepoRoot, f)); err != nil {
			continue
		}
		res.Files = append(res.Files, f)
	}
	// An empty union means nothing to check; it must not fall through to
	// any broader scope.
}

// diffFiles runs a name-status diff and keeps live files with a relevant
// extension. Delete-status entries are filtered out so downstream gates
// never chase files that no longer exist. A failed diff degrades to an
// empty candidate set with the failure surfaced as a warning.
func (sr *ScopeResolver) diffFiles(ctx context.Context, res *ResolvedScope, baseRef, targetRef string) []string {
	entries, err := sr.git.GetDiffNameStatus(ctx, sr.cfg.RepoRoot, baseRef, targetRef)
	if err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("diff %s..%s failed: %v", baseRef, targetRef, err))
		res.Degraded = true
		return nil
	}
	extensions := sr.extensionUnion()
	var files []string
	for _, e := range entries {
		if e.Deleted() {
			continue
		}
		if !contract.HasExtension(e.Path, extensions) {
			continue
		}
		files = append(files, contract.WorkspaceRelative(sr.cfg.RepoRoot, e.Path))
	}
	return files
}

// extensionUnion collects every extension any configured gate applies to.
func (sr *ScopeResolver) extensionUnion() []string {
	seen := make(map[string]bool)
	var out []string
	for _, g := range sr.cfg.Gates {
		for _, ext := range g.Extensions {
			ext = strings.ToLower(ext)
			if !seen[ext] {
				seen[ext] = true
				out = append(out, ext)
			}
		}
	}
	return out
}

// expandDirectory collects files under dir carrying one of the extensions.
// Results come back in WalkDir's lexical order, so repeated expansion of
// the same directory is deterministic.
func expandDirectory(dir string, extensions []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if underHiddenDir(d.Name()) && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if contract.HasExtension(path, extensions) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// underHiddenDir reports whether any segment of the slash path is hidden
// (dot-prefixed), which covers virtualenvs and VCS metadata.
func underHiddenDir(p string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(p), "/") {
		if strings.HasPrefix(seg, ".") && seg != "." && seg != ".." {
			return true
		}
	}
	return false
}

func dedupeSorted(files []string) []string {
	seen := make(map[string]bool, len(files))
	out := make([]string, 0, len(files))
	for _, f := range files {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
