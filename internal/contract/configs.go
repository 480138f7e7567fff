package contract

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/qualgate/qualgate/schema"
)

// Default values for configuration.
const (
	DefaultGateTimeout    = 2 * time.Minute
	DefaultGitTimeout     = 30 * time.Second
	DefaultFallbackParent = "main"
	DefaultStateDir       = ".qualgate"
	StateFileName         = "state.json"
)

// DefaultProjectGlobs is the project-scope expansion used when the config
// file declares none.
var DefaultProjectGlobs = []string{"**/*.py"}

// Config holds the runtime configuration for one invocation.
// This struct remains the "final, validated" config.
type Config struct {
	WorkspacePath string // Path given on the command line (or ".")
	RepoRoot      string // Absolute repo root resolved through git

	Scope schema.ScopeMode
	Files []string // Only populated for the files scope

	ProjectGlobs   []string
	FallbackParent string // Parent branch when workflow state has none
	Gates          []schema.GateSpec

	GateTimeout time.Duration
	GitTimeout  time.Duration

	Output     schema.OutputMode
	OutputFile string

	StateDir string // Workspace-relative directory holding state.json

	ArtifactBackend   schema.DatabaseBackend
	ArtifactDBConnect string // Please use env var as this is plaintext

	UseEmojis bool
	UseColors bool
	Width     int // Terminal width override (0 = auto-detect)
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	WorkspacePathStr string

	Scope             string            `mapstructure:"scope"`
	Files             []string          `mapstructure:"files"`
	ProjectGlobs      []string          `mapstructure:"project-globs"`
	FallbackParent    string            `mapstructure:"fallback-parent"`
	Gates             []schema.GateSpec `mapstructure:"gates"`
	GateTimeout       string            `mapstructure:"gate-timeout"`
	GitTimeout        string            `mapstructure:"git-timeout"`
	Output            string            `mapstructure:"output"`
	OutputFile        string            `mapstructure:"output-file"`
	StateDir          string            `mapstructure:"state-dir"`
	ArtifactBackend   string            `mapstructure:"artifact-backend"`
	ArtifactDBConnect string            `mapstructure:"artifact-db-connect"`
	Emoji             string            `mapstructure:"emoji"`
	Color             string            `mapstructure:"color"`
	Width             int               `mapstructure:"width"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Files != nil {
		clone.Files = slices.Clone(c.Files)
	}
	if c.ProjectGlobs != nil {
		clone.ProjectGlobs = slices.Clone(c.ProjectGlobs)
	}
	if c.Gates != nil {
		clone.Gates = slices.Clone(c.Gates)
	}
	return &clone
}

// StateFilePath returns the absolute path of the workflow state file.
func (c *Config) StateFilePath() string {
	return filepath.Join(c.RepoRoot, c.StateDir, StateFileName)
}

// ProcessAndValidate populates cfg from the raw input, failing fast on any
// malformed value before a single gate can execute.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	scope, err := schema.ParseScopeMode(valueOr(input.Scope, string(schema.AutoScope)))
	if err != nil {
		return err
	}
	cfg.Scope = scope

	cfg.Files = splitPathList(input.Files)
	req := schema.ScopeRequest{Mode: cfg.Scope, Files: cfg.Files}
	if err := req.Validate(); err != nil {
		return err
	}

	cfg.WorkspacePath = valueOr(input.WorkspacePathStr, ".")

	cfg.GitTimeout, err = parseTimeout(input.GitTimeout, DefaultGitTimeout)
	if err != nil {
		return fmt.Errorf("invalid git-timeout: %w", err)
	}
	cfg.GateTimeout, err = parseTimeout(input.GateTimeout, DefaultGateTimeout)
	if err != nil {
		return fmt.Errorf("invalid gate-timeout: %w", err)
	}

	root, err := client.GetRepoRoot(ctx, cfg.WorkspacePath)
	if err != nil {
		return fmt.Errorf("could not resolve workspace root: %w", err)
	}
	cfg.RepoRoot = root

	cfg.ProjectGlobs = input.ProjectGlobs
	if len(cfg.ProjectGlobs) == 0 {
		cfg.ProjectGlobs = slices.Clone(DefaultProjectGlobs)
	}

	cfg.FallbackParent = valueOr(input.FallbackParent, DefaultFallbackParent)
	cfg.StateDir = valueOr(input.StateDir, DefaultStateDir)

	cfg.Gates = input.Gates
	if len(cfg.Gates) == 0 {
		cfg.Gates = schema.DefaultGateCatalog()
	}
	seen := make(map[string]bool, len(cfg.Gates))
	for _, g := range cfg.Gates {
		if err := g.Validate(); err != nil {
			return err
		}
		if seen[g.ID] {
			return fmt.Errorf("duplicate gate id %q in catalog", g.ID)
		}
		seen[g.ID] = true
	}

	output, ok := schema.ParseOutputMode(input.Output)
	if !ok {
		return fmt.Errorf("unrecognized output mode %q. Must be text, table, or json", input.Output)
	}
	cfg.Output = output
	cfg.OutputFile = input.OutputFile

	backend, ok := schema.ParseDatabaseBackend(input.ArtifactBackend)
	if !ok {
		return fmt.Errorf("unsupported artifact backend %q. Must be sqlite, mysql, postgresql, or none", input.ArtifactBackend)
	}
	cfg.ArtifactBackend = backend
	cfg.ArtifactDBConnect = input.ArtifactDBConnect
	if err := ValidateDatabaseConnectionString(backend, cfg.ArtifactDBConnect); err != nil {
		return err
	}

	cfg.UseEmojis = valueOr(input.Emoji, "yes") == "yes"
	cfg.UseColors = valueOr(input.Color, "yes") == "yes"
	cfg.Width = input.Width

	return nil
}

// ValidateDatabaseConnectionString performs basic shape validation of the
// artifact log connection string for the given backend.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("artifact-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("artifact-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// splitPathList flattens flag/config path lists, tolerating comma-separated
// entries from a single flag occurrence.
func splitPathList(raw []string) []string {
	var out []string
	for _, entry := range raw {
		for _, p := range strings.Split(entry, ",") {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func parseTimeout(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %s", d)
	}
	return d, nil
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
