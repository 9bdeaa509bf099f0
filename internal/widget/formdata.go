package widget

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FormSubmission is the generic key to multi-valued entry structure produced by
// a rendered form. Field names are the implicit contract between a kind's form
// component and its ParseForm implementation.
type FormSubmission map[string][]string

// Value returns the first entry for the given field name.
func (submission FormSubmission) Value(name string) (string, bool) {
	values, present := submission[name]
	if !present || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// TrimmedValue returns the first entry trimmed of surrounding whitespace.
// Blank entries count as absent.
func (submission FormSubmission) TrimmedValue(name string) (string, bool) {
	rawValue, present := submission.Value(name)
	if !present {
		return "", false
	}
	trimmedValue := strings.TrimSpace(rawValue)
	if trimmedValue == "" {
		return "", false
	}
	return trimmedValue, true
}

// CoerceFormValue applies the form coercion heuristics: numeric-looking strings
// become numbers, "true"/"false" become booleans, JSON-bracketed strings are
// parsed, everything else is the trimmed string.
func CoerceFormValue(raw string) any {
	trimmed := strings.TrimSpace(raw)

	switch trimmed {
	case "true":
		return true
	case "false":
		return false
	}

	if number, parseErr := strconv.ParseFloat(trimmed, 64); parseErr == nil {
		return number
	}

	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		var parsed any
		if json.Unmarshal([]byte(trimmed), &parsed) == nil {
			return parsed
		}
	}

	return trimmed
}
