package schema

// OutputMode selects the CLI rendering format.
type OutputMode string

// Supported output modes for the run command.
const (
	TextOut  OutputMode = "text"
	TableOut OutputMode = "table"
	JSONOut  OutputMode = "json"
)

// ParseOutputMode validates a raw output mode string.
func ParseOutputMode(s string) (OutputMode, bool) {
	switch OutputMode(s) {
	case TextOut, TableOut, JSONOut:
		return OutputMode(s), true
	case "":
		return TextOut, true
	default:
		return "", false
	}
}
