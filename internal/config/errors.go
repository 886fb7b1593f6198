package config

import (
	"fmt"
	"strings"
)

// ConfigError is an operator-facing configuration problem. cupcake.yaml is
// hand written, and the person reading the message is usually the person who
// just edited the file, so the error names the file and offers a tip.
type ConfigError struct {
	File    string // Config file path
	Message string // What went wrong
	Hint    string // Helpful suggestion
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return e.Format()
}

// Format returns a nicely formatted error message.
func (e *ConfigError) Format() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("❌ Error in %s\n\n", e.File))
	b.WriteString(e.Message + "\n")

	if e.Hint != "" {
		b.WriteString(fmt.Sprintf("\n💡 Tip: %s\n", e.Hint))
	}

	return b.String()
}

// NewConfigError creates a new ConfigError.
func NewConfigError(file, message string) *ConfigError {
	return &ConfigError{
		File:    file,
		Message: message,
	}
}

// WithHint adds a helpful hint to the error.
func (e *ConfigError) WithHint(hint string) *ConfigError {
	e.Hint = hint
	return e
}

// Describe wraps err as a ConfigError, picking a hint that matches the
// failure. The serve and menu commands use it so operators see what to fix
// rather than a bare parse error.
func Describe(file string, err error) *ConfigError {
	ce := NewConfigError(file, err.Error())
	msg := err.Error()

	switch {
	case strings.Contains(msg, "unit_price"), strings.Contains(msg, "same_day_surcharge"), strings.Contains(msg, "price"):
		ce.WithHint(`prices are dollar strings such as "2.50" or "$2.50"`)
	case strings.Contains(msg, "quantities"), strings.Contains(msg, "quantity"):
		ce.WithHint("quantities lists the box sizes customers can order, e.g. quantities: [6, 12, 24]")
	case strings.Contains(msg, "flavor"):
		ce.WithHint("every flavor needs a unique name; descriptions are optional")
	case strings.Contains(msg, "pickup"):
		ce.WithHint("pickup_days is how many consecutive days customers can book, at least 1")
	case strings.Contains(msg, "parse config"), strings.Contains(msg, "yaml"):
		ce.WithHint("YAML is whitespace sensitive; check the indentation near the reported line")
	}

	return ce
}
