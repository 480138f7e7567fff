package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/qualgate/qualgate/internal/contract"
	"github.com/qualgate/qualgate/schema"
)

// PrintBaselineStatus outputs the stored baseline for one branch.
func PrintBaselineStatus(branch string, record schema.BaselineRecord, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, struct {
				Branch      string   `json:"branch"`
				BaselineSHA string   `json:"baseline_sha,omitempty"`
				FailedFiles []string `json:"failed_files"`
			}{Branch: branch, BaselineSHA: record.BaselineSHA, FailedFiles: record.FailedFiles})
		}, "Wrote JSON")
	}

	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, "Branch: %s\n", branch); err != nil {
			return err
		}
		if !record.HasBaseline() {
			_, err := fmt.Fprintln(w, "No baseline recorded yet. The next passing auto-scope run will establish one.")
			return err
		}
		if _, err := fmt.Fprintf(w, "Baseline SHA: %s\n", record.BaselineSHA); err != nil {
			return err
		}
		if len(record.FailedFiles) == 0 {
			_, err := fmt.Fprintln(w, "No files carried over from failed runs.")
			return err
		}
		if _, err := fmt.Fprintf(w, "Files carried over from failed runs (%d):\n", len(record.FailedFiles)); err != nil {
			return err
		}
		for _, f := range record.FailedFiles {
			if _, err := fmt.Fprintf(w, "  %s\n", f); err != nil {
				return err
			}
		}
		return nil
	}, "Wrote baseline status")
}

// PrintArtifactStatus outputs artifact log status information.
func PrintArtifactStatus(status schema.ArtifactStatus, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, struct {
				Backend    schema.DatabaseBackend `json:"backend"`
				Connected  bool                   `json:"connected"`
				TotalRuns  int64                  `json:"total_runs"`
				LastRun    string                 `json:"last_run,omitempty"`
				TableSizes map[string]int64       `json:"table_sizes"`
			}{
				Backend:    status.Backend,
				Connected:  status.Connected,
				TotalRuns:  status.TotalRuns,
				LastRun:    formatStatusTime(status.LastRunTime),
				TableSizes: status.TableSizes,
			})
		}, "Wrote JSON")
	}

	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, "Backend: %s\n", status.Backend); err != nil {
			return err
		}
		if !status.Connected {
			_, err := fmt.Fprintln(w, "Artifact logging is disabled.")
			return err
		}
		if _, err := fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns); err != nil {
			return err
		}
		if status.TotalRuns > 0 {
			if _, err := fmt.Fprintf(w, "Oldest run: %s\n", formatStatusTime(status.OldestRunTime)); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "Latest run: %s\n", formatStatusTime(status.LastRunTime)); err != nil {
				return err
			}
		}
		for table, size := range status.TableSizes {
			if _, err := fmt.Fprintf(w, "  %s: %d rows\n", table, size); err != nil {
				return err
			}
		}
		return nil
	}, "Wrote artifact status")
}

func formatStatusTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
