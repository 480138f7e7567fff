package outwriter

import (
	"fmt"
	"io"

	"github.com/qualgate/qualgate/core"
	"github.com/qualgate/qualgate/internal/contract"
	"github.com/qualgate/qualgate/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintRunResult outputs one run, dispatching based on the output format configured.
func PrintRunResult(result *schema.RunResult, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result.Compact())
		}, "Wrote JSON")
	case schema.TableOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunTable(result, cfg, w)
		}, "Wrote table")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunText(result, cfg, w)
		}, "Wrote report")
	}
}

// writeRunText renders the two-part response: the summary line followed by
// the compact JSON payload, with warnings in between for humans.
func writeRunText(result *schema.RunResult, cfg *contract.Config, w io.Writer) error {
	if err := writeSummaryLine(result, cfg, w); err != nil {
		return err
	}

	for _, warning := range result.Warnings {
		if _, err := fmt.Fprintf(w, "%s\n", contract.WarnColor.Sprintf("warning: %s", warning)); err != nil {
			return err
		}
	}

	payload, err := core.BuildCompactPayload(result)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", payload)
	return err
}

// writeRunTable renders violations as a human-readable table with the
// summary line underneath.
func writeRunTable(result *schema.RunResult, cfg *contract.Config, w io.Writer) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Gate", "Location", "Rule", "Severity", "Message"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignLeft
	})

	maxPath := GetMaxTablePathWidth(cfg)
	var data [][]string
	for _, gate := range result.Gates {
		for _, v := range gate.Violations {
			data = append(data, []string{
				gate.ID,
				location(contract.TruncatePath(v.File, maxPath), v.Line, v.Col),
				v.Rule,
				string(v.Severity),
				v.Message,
			})
		}
	}

	if len(data) > 0 {
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	for _, warning := range result.Warnings {
		if _, err := fmt.Fprintf(w, "%s\n", contract.WarnColor.Sprintf("warning: %s", warning)); err != nil {
			return err
		}
	}

	return writeSummaryLine(result, cfg, w)
}

// writeSummaryLine prints the colored one-line verdict.
func writeSummaryLine(result *schema.RunResult, cfg *contract.Config, w io.Writer) error {
	line := core.BuildSummaryLine(result)
	if !cfg.UseEmojis {
		line = stripLeadingIcon(line)
	}
	if cfg.UseColors {
		if result.Pass() {
			line = contract.PassColor.Sprint(line)
		} else {
			line = contract.FailColor.Sprint(line)
		}
	}
	_, err := fmt.Fprintln(w, line)
	return err
}
