// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"github.com/qualgate/qualgate/internal/contract"
	"github.com/qualgate/qualgate/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteRun prints one orchestrator run using the configured output format.
func (ow *OutWriter) WriteRun(result *schema.RunResult, cfg *contract.Config) error {
	return PrintRunResult(result, cfg)
}

// WriteBaselineStatus prints the stored baseline for a branch.
func (ow *OutWriter) WriteBaselineStatus(branch string, record schema.BaselineRecord, cfg *contract.Config) error {
	return PrintBaselineStatus(branch, record, cfg)
}

// WriteArtifactStatus prints artifact log status information.
func (ow *OutWriter) WriteArtifactStatus(status schema.ArtifactStatus, cfg *contract.Config) error {
	return PrintArtifactStatus(status, cfg)
}

// GetMaxTablePathWidth calculates the maximum width for file paths in table
// output based on terminal width and table configuration.
func GetMaxTablePathWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the fixed columns: gate, location, rule, severity,
	// plus table borders and padding.
	baseWidth := 45

	available := termWidth - baseWidth
	if available < 15 {
		// Minimum reasonable path width
		return 15
	}
	if available > 70 {
		// Maximum path width to prevent overly long paths
		return 70
	}
	return available
}
