package outwriter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/qualgate/qualgate/internal/contract"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// stripLeadingIcon removes an emoji status prefix from a summary line for
// emoji-free terminals.
func stripLeadingIcon(line string) string {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return line
	}
	first := fields[0]
	for _, r := range first {
		// Icons live outside the ASCII range; words do not.
		if r < 128 {
			return line
		}
	}
	return strings.Join(fields[1:], " ")
}

// location renders file:line:col with the optional parts omitted.
func location(file string, line, col *int) string {
	if file == "" {
		file = "-"
	}
	out := file
	if line != nil {
		out = fmt.Sprintf("%s:%d", out, *line)
		if col != nil {
			out = fmt.Sprintf("%s:%d", out, *col)
		}
	}
	return out
}
