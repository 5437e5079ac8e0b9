// Package validate collects field-shape errors keyed by field path, including
// nested paths like "hospitalAssignment.specialization", so callers can attach
// each message to the exact input it belongs to. It checks shape only; the
// database and the status state machines stay authoritative.
package validate

import (
	"fmt"
	"regexp"
	"strings"
)

// FieldError is one validation failure bound to a field path.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

var (
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9][0-9\s-]{6,14}$`)
)

// Collector accumulates field errors during a validation pass.
type Collector struct {
	errs []FieldError
}

// New returns an empty collector.
func New() *Collector {
	return &Collector{}
}

// Add records a failure at the given path.
func (c *Collector) Add(path, message string) {
	c.errs = append(c.errs, FieldError{Path: path, Message: message})
}

// Require fails when value is empty or whitespace.
func (c *Collector) Require(path, value string) {
	if strings.TrimSpace(value) == "" {
		c.Add(path, path+" is required")
	}
}

// Length fails when a non-empty value is outside [min, max] runes.
func (c *Collector) Length(path, value string, min, max int) {
	if value == "" {
		return
	}
	n := len([]rune(value))
	if n < min || n > max {
		c.Add(path, fmt.Sprintf("%s must be between %d and %d characters", path, min, max))
	}
}

// Email fails when a non-empty value is not a plausible email address.
func (c *Collector) Email(path, value string) {
	if value != "" && !emailRe.MatchString(value) {
		c.Add(path, path+" must be a valid email address")
	}
}

// Phone fails when a non-empty value is not a plausible phone number.
func (c *Collector) Phone(path, value string) {
	if value != "" && !phoneRe.MatchString(value) {
		c.Add(path, path+" must be a valid phone number")
	}
}

// Range fails when value is outside [min, max].
func (c *Collector) Range(path string, value, min, max float64) {
	if value < min || value > max {
		c.Add(path, fmt.Sprintf("%s must be between %g and %g", path, min, max))
	}
}

// Min fails when value is below min.
func (c *Collector) Min(path string, value float64, min float64) {
	if value < min {
		c.Add(path, fmt.Sprintf("%s must be at least %g", path, min))
	}
}

// OneOf fails when a non-empty value is not in the allowed set.
func (c *Collector) OneOf(path, value string, allowed ...string) {
	if value == "" {
		return
	}
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	c.Add(path, fmt.Sprintf("%s must be one of %s", path, strings.Join(allowed, ", ")))
}

// Errors returns the collected failures, nil when validation passed.
func (c *Collector) Errors() []FieldError {
	return c.errs
}

// OK reports whether no failure was collected.
func (c *Collector) OK() bool {
	return len(c.errs) == 0
}

// Has reports whether a failure was recorded at the given path.
func Has(errs []FieldError, path string) bool {
	for _, e := range errs {
		if e.Path == path {
			return true
		}
	}
	return false
}
