package schema

import (
	"fmt"
	"regexp"
)

// ParserKind selects the parsing strategy for a gate's raw output.
// Dispatch happens on this tag, never on the tool name.
type ParserKind string

// The two declarative parsing strategies.
const (
	JSONViolations ParserKind = "json_violations"
	TextViolations ParserKind = "text_violations"
)

// FieldPaths maps tool-specific JSON keys to Violation fields. Each path is
// slash-separated for nested lookup (e.g. "range/start/line"). Empty means
// the tool does not report that field.
type FieldPaths struct {
	File     string `mapstructure:"file" yaml:"file"`
	Message  string `mapstructure:"message" yaml:"message"`
	Line     string `mapstructure:"line" yaml:"line"`
	Col      string `mapstructure:"col" yaml:"col"`
	Rule     string `mapstructure:"rule" yaml:"rule"`
	Severity string `mapstructure:"severity" yaml:"severity"`
}

// JSONParserParams configures the json_violations strategy.
type JSONParserParams struct {
	// Pointer locates the violations array within the document, as a
	// slash-separated path. Empty means the document root is the array.
	Pointer string `mapstructure:"pointer" yaml:"pointer"`

	Fields FieldPaths `mapstructure:"fields" yaml:"fields"`

	// LineOffset normalizes 0-based line/column numbering to 1-based.
	LineOffset int `mapstructure:"line_offset" yaml:"line_offset"`

	// FixableFrom names a per-entry field whose truthiness derives Fixable.
	FixableFrom string `mapstructure:"fixable_from" yaml:"fixable_from"`
}

// TextParserParams configures the text_violations strategy.
type TextParserParams struct {
	// Pattern is a named-capture regular expression applied per line.
	// Recognized group names: file, message, line, col, rule, severity.
	Pattern string `mapstructure:"pattern" yaml:"pattern"`

	// Defaults supplies values for fields the pattern does not capture.
	// Values may interpolate captured groups with ${name}.
	Defaults map[string]string `mapstructure:"defaults" yaml:"defaults"`
}

// ParserSpec is the tagged union over the two parsing strategies.
type ParserSpec struct {
	Kind ParserKind        `mapstructure:"kind" yaml:"kind"`
	JSON *JSONParserParams `mapstructure:"json" yaml:"json,omitempty"`
	Text *TextParserParams `mapstructure:"text" yaml:"text,omitempty"`
}

// Validate checks that the parser declaration carries exactly the params
// its kind demands.
func (p ParserSpec) Validate() error {
	switch p.Kind {
	case JSONViolations:
		if p.JSON == nil {
			return fmt.Errorf("parser kind %q requires a json params block", p.Kind)
		}
	case TextViolations:
		if p.Text == nil {
			return fmt.Errorf("parser kind %q requires a text params block", p.Kind)
		}
		if p.Text.Pattern == "" {
			return fmt.Errorf("parser kind %q requires a non-empty pattern", p.Kind)
		}
		if _, err := regexp.Compile(p.Text.Pattern); err != nil {
			return fmt.Errorf("invalid text parser pattern: %w", err)
		}
	default:
		return fmt.Errorf("unrecognized parser kind %q. Must be %s or %s", p.Kind, JSONViolations, TextViolations)
	}
	return nil
}

// GateSpec declares one gate: the external command, the file scoping rules,
// the parsing strategy and whether the tool supports automated fixing.
type GateSpec struct {
	ID         string     `mapstructure:"id" yaml:"id"`
	Extensions []string   `mapstructure:"extensions" yaml:"extensions"`
	Include    []string   `mapstructure:"include" yaml:"include,omitempty"`
	Exclude    []string   `mapstructure:"exclude" yaml:"exclude,omitempty"`
	Command    []string   `mapstructure:"command" yaml:"command"`
	Parser     ParserSpec `mapstructure:"parser" yaml:"parser"`
	FixCapable bool       `mapstructure:"fix_capable" yaml:"fix_capable"`
}

// Validate checks the gate declaration for config-authoring mistakes.
func (g GateSpec) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("gate is missing an id")
	}
	if len(g.Command) == 0 {
		return fmt.Errorf("gate %q has no command", g.ID)
	}
	if len(g.Extensions) == 0 {
		return fmt.Errorf("gate %q declares no file extensions", g.ID)
	}
	if err := g.Parser.Validate(); err != nil {
		return fmt.Errorf("gate %q: %w", g.ID, err)
	}
	return nil
}

// DefaultGateCatalog returns the built-in gate set used when the config file
// declares none: ruff lint, ruff format, mypy and pyright over Python files.
// The two type checkers intentionally overlap on the same sources; keeping or
// dropping one is a catalog decision, not a defect.
func DefaultGateCatalog() []GateSpec {
	return []GateSpec{
		{
			ID:         "ruff-lint",
			Extensions: []string{".py"},
			Command:    []string{"ruff", "check", "--output-format", "json"},
			FixCapable: true,
			Parser: ParserSpec{
				Kind: JSONViolations,
				JSON: &JSONParserParams{
					Fields: FieldPaths{
						File:    "filename",
						Message: "message",
						Line:    "location/row",
						Col:     "location/column",
						Rule:    "code",
					},
					FixableFrom: "fix",
				},
			},
		},
		{
			ID:         "ruff-format",
			Extensions: []string{".py"},
			Command:    []string{"ruff", "format", "--check"},
			FixCapable: true,
			Parser: ParserSpec{
				Kind: TextViolations,
				Text: &TextParserParams{
					Pattern: `^Would reformat: (?P<file>.+)$`,
					Defaults: map[string]string{
						"message":  "would reformat ${file}",
						"rule":     "format",
						"severity": "warning",
						"fixable":  "true",
					},
				},
			},
		},
		{
			ID:         "mypy",
			Extensions: []string{".py"},
			Command:    []string{"mypy", "--no-error-summary", "--no-pretty"},
			Parser: ParserSpec{
				Kind: TextViolations,
				Text: &TextParserParams{
					Pattern: `^(?P<file>[^:]+):(?P<line>\d+):(?:(?P<col>\d+):)? *(?P<severity>error|warning|note): (?P<message>.+?)(?:  \[(?P<rule>[\w.-]+)\])?$`,
					Defaults: map[string]string{
						"severity": "error",
					},
				},
			},
		},
		{
			ID:         "pyright",
			Extensions: []string{".py"},
			Command:    []string{"pyright", "--outputjson"},
			Parser: ParserSpec{
				Kind: JSONViolations,
				JSON: &JSONParserParams{
					Pointer: "generalDiagnostics",
					Fields: FieldPaths{
						File:     "file",
						Message:  "message",
						Line:     "range/start/line",
						Col:      "range/start/character",
						Rule:     "rule",
						Severity: "severity",
					},
					LineOffset: 1,
				},
			},
		},
	}
}
