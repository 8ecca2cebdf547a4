// Package vocab checks tool arguments against optional lists of permitted values.
package vocab

import (
	"strings"

	"github.com/elliotchance/pie/v2"
)

// Allowed reports whether value is one of options, ignoring case. An empty option
// list allows any value.
func Allowed(options []string, value string) bool {
	if len(options) == 0 {
		return true
	}

	value = strings.ToLower(strings.TrimSpace(value))

	return pie.Any(options, func(option string) bool {
		return strings.ToLower(option) == value
	})
}

// Clean trims every value and drops the blank ones, keeping order.
func Clean(values []string) []string {
	trimmed := pie.Map(values, strings.TrimSpace)

	return pie.Filter(trimmed, func(v string) bool {
		return v != ""
	})
}

// List joins values for use in a spoken sentence.
func List(values []string) string {
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	}

	return strings.Join(values[:len(values)-1], ", ") + " or " + values[len(values)-1]
}
