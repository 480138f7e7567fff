package core

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/qualgate/qualgate/schema"
)

// ParseViolations applies a gate's declared parsing strategy to raw tool
// output. Dispatch happens on the strategy tag, never on the tool name.
// A parse failure is an error for the caller to degrade on; it never
// produces partial ad-hoc structures.
func ParseViolations(gate schema.GateSpec, raw []byte) ([]schema.Violation, error) {
	switch gate.Parser.Kind {
	case schema.JSONViolations:
		return parseJSONViolations(gate, raw)
	case schema.TextViolations:
		return parseTextViolations(gate, raw)
	default:
		return nil, fmt.Errorf("gate %q has unrecognized parser kind %q", gate.ID, gate.Parser.Kind)
	}
}

// parseJSONViolations walks the configured pointer to the violations array
// and maps per-entry field paths onto Violation fields.
func parseJSONViolations(gate schema.GateSpec, raw []byte) ([]schema.Violation, error) {
	params := gate.Parser.JSON

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("gate %q emitted output that is not valid JSON: %w", gate.ID, err)
	}

	node := doc
	for _, seg := range pointerSegments(params.Pointer) {
		obj, ok := node.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("gate %q: pointer segment %q does not address an object", gate.ID, seg)
		}
		node, ok = obj[seg]
		if !ok {
			return nil, fmt.Errorf("gate %q: pointer segment %q not found in output", gate.ID, seg)
		}
	}
	entries, ok := node.([]any)
	if !ok {
		return nil, fmt.Errorf("gate %q: pointer %q does not address an array", gate.ID, params.Pointer)
	}

	violations := make([]schema.Violation, 0, len(entries))
	for _, raw := range entries {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		v := schema.Violation{
			File:     stringAt(entry, params.Fields.File),
			Message:  stringAt(entry, params.Fields.Message),
			Rule:     stringAt(entry, params.Fields.Rule),
			Severity: schema.Severity(stringAt(entry, params.Fields.Severity)),
			Line:     intAt(entry, params.Fields.Line, params.LineOffset),
			Col:      intAt(entry, params.Fields.Col, params.LineOffset),
		}
		if params.FixableFrom != "" {
			v.Fixable = truthy(valueAt(entry, params.FixableFrom))
		} else {
			// Fix capability is declared per gate in config, never
			// hardcoded false.
			v.Fixable = gate.FixCapable
		}
		violations = append(violations, v)
	}
	return violations, nil
}

// parseTextViolations extracts fields per matched line with a named-capture
// pattern, filling the gaps from a defaults map that may interpolate
// captured groups with ${name}.
func parseTextViolations(gate schema.GateSpec, raw []byte) ([]schema.Violation, error) {
	params := gate.Parser.Text
	pattern, err := regexp.Compile(params.Pattern)
	if err != nil {
		return nil, fmt.Errorf("gate %q has an invalid pattern: %w", gate.ID, err)
	}

	names := pattern.SubexpNames()
	var violations []schema.Violation
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimRight(line, "\r")
		match := pattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		fields := make(map[string]string, len(names))
		for i, name := range names {
			if i == 0 || name == "" || match[i] == "" {
				continue
			}
			fields[name] = match[i]
		}
		for key, tmpl := range params.Defaults {
			if _, captured := fields[key]; captured {
				continue
			}
			fields[key] = interpolate(tmpl, fields)
		}

		v := schema.Violation{
			File:     fields["file"],
			Message:  fields["message"],
			Rule:     fields["rule"],
			Severity: schema.Severity(fields["severity"]),
			Line:     atoiPtr(fields["line"]),
			Col:      atoiPtr(fields["col"]),
		}
		if fixable, declared := fields["fixable"]; declared {
			v.Fixable = truthy(fixable)
		} else {
			v.Fixable = gate.FixCapable
		}
		violations = append(violations, v)
	}
	return violations, nil
}

// interpolate substitutes ${name} references with captured group values.
func interpolate(tmpl string, fields map[string]string) string {
	return interpolatePattern.ReplaceAllStringFunc(tmpl, func(ref string) string {
		name := ref[2 : len(ref)-1]
		return fields[name]
	})
}

var interpolatePattern = regexp.MustCompile(`\$\{(\w+)\}`)

func pointerSegments(pointer string) []string {
	var segments []string
	for _, seg := range strings.Split(pointer, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}

// valueAt walks a slash-separated field path through nested objects.
func valueAt(entry map[string]any, path string) any {
	var node any = entry
	for _, seg := range pointerSegments(path) {
		obj, ok := node.(map[string]any)
		if !ok {
			return nil
		}
		node, ok = obj[seg]
		if !ok {
			return nil
		}
	}
	if path == "" {
		return nil
	}
	return node
}

func stringAt(entry map[string]any, path string) string {
	switch v := valueAt(entry, path).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// intAt reads a numeric field and applies the configured 0-based-to-1-based
// offset. Missing or non-numeric values stay nil for file-level findings.
func intAt(entry map[string]any, path string, offset int) *int {
	if path == "" {
		return nil
	}
	f, ok := valueAt(entry, path).(float64)
	if !ok {
		return nil
	}
	n := int(f) + offset
	return &n
}

func atoiPtr(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// truthy derives a fixable flag from a tool-specific field: non-null
// objects, non-empty strings and non-zero numbers all count as true.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "", "false", "no", "0", "null":
			return false
		default:
			return true
		}
	case float64:
		return t != 0
	default:
		return true
	}
}
