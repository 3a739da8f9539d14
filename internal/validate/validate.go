// Package validate is a small declarative field-rule engine.
//
// WHY NOT A STRUCT-TAG VALIDATOR LIBRARY?
// The API contract here is a FULL list of (field, message) violations with the
// exact field names and messages the client expects — "academicInfo.major",
// "Please enter a valid phone number", and so on. Struct-tag validators stop
// at shape checks and report Go struct paths, not these wire-level names, so
// the rules are written out explicitly instead.
//
// USAGE:
//
//	v := validate.New()
//	v.Field("studentId", in.StudentID).
//	    Required("Student ID is required").
//	    MinLen(3, "Student ID must be at least 3 characters long")
//	v.Int("academicInfo.currentYear", in.CurrentYear).
//	    Range(1, 10, "Current year must be between 1 and 10")
//	if err := v.Err(); err != nil { return err }
//
// Rules are evaluated uniformly across all fields; every violated rule adds
// one entry to the list — the first failure never short-circuits the rest of
// the form. Within a single field's chain, checks after a failure are skipped
// (reporting "required" AND "too short" for the same empty field is noise).
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sakif/student-records/internal/apperror"
)

// Patterns shared by the rule chains. The email and phone expressions are
// deliberately permissive E.164-ish / common-mailbox shapes, not RFC parsers.
var (
	emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
)

// Validator accumulates field violations across an entire input document.
type Validator struct {
	errs []apperror.FieldError
}

// New returns an empty Validator.
func New() *Validator {
	return &Validator{}
}

// Add records a violation directly. Used for cross-field rules that don't fit
// a single chain.
func (v *Validator) Add(field, message string) {
	v.errs = append(v.errs, apperror.FieldError{Field: field, Message: message})
}

// Errors returns every violation recorded so far.
func (v *Validator) Errors() []apperror.FieldError {
	return v.errs
}

// Err returns nil when no rule was violated, otherwise a single
// apperror.Validation carrying the complete list.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperror.Validation(v.errs)
}

// Field starts a rule chain for a string field. The value is trimmed once,
// up front — " S100 " and "S100" are the same student ID.
func (v *Validator) Field(name, value string) *Chain {
	return &Chain{v: v, name: name, value: strings.TrimSpace(value)}
}

// Int starts a rule chain for an integer field.
func (v *Validator) Int(name string, value int) *IntChain {
	return &IntChain{v: v, name: name, value: value}
}

// Chain applies checks to one string field. Once a check fails, the rest of
// the chain is skipped for that field.
type Chain struct {
	v        *Validator
	name     string
	value    string
	failed   bool
	optional bool
}

func (c *Chain) fail(message string) *Chain {
	c.v.Add(c.name, message)
	c.failed = true
	return c
}

// skip reports whether the remaining checks should not run: either a previous
// check failed, or the field is optional and empty.
func (c *Chain) skip() bool {
	return c.failed || (c.optional && c.value == "")
}

// Value returns the trimmed value, for callers that persist what they
// validated.
func (c *Chain) Value() string {
	return c.value
}

// Optional marks the field as allowed to be empty; subsequent checks only run
// when a value is present.
func (c *Chain) Optional() *Chain {
	c.optional = true
	return c
}

// Required fails when the trimmed value is empty.
func (c *Chain) Required(message string) *Chain {
	if c.failed {
		return c
	}
	if c.value == "" {
		return c.fail(message)
	}
	return c
}

// MinLen fails when the value is shorter than n characters.
func (c *Chain) MinLen(n int, message string) *Chain {
	if c.skip() {
		return c
	}
	if len(c.value) < n {
		return c.fail(message)
	}
	return c
}

// MaxLen fails when the value is longer than n characters.
func (c *Chain) MaxLen(n int, message string) *Chain {
	if c.skip() {
		return c
	}
	if len(c.value) > n {
		return c.fail(message)
	}
	return c
}

// Email fails when the value doesn't look like an email address.
func (c *Chain) Email(message string) *Chain {
	if c.skip() {
		return c
	}
	if !emailPattern.MatchString(c.value) {
		return c.fail(message)
	}
	return c
}

// Phone fails when the value doesn't look like an E.164-style phone number.
func (c *Chain) Phone(message string) *Chain {
	if c.skip() {
		return c
	}
	if !phonePattern.MatchString(c.value) {
		return c.fail(message)
	}
	return c
}

// OneOf fails when the value is not in the allowed set. Comparison is exact —
// enums like "Fall" are case-sensitive, as stored.
func (c *Chain) OneOf(allowed []string, message string) *Chain {
	if c.skip() {
		return c
	}
	for _, a := range allowed {
		if c.value == a {
			return c
		}
	}
	return c.fail(message)
}

// Date fails when the value is not a parseable date (see ParseDate).
func (c *Chain) Date(message string) *Chain {
	if c.skip() {
		return c
	}
	if _, ok := ParseDate(c.value); !ok {
		return c.fail(message)
	}
	return c
}

// IntChain applies checks to one integer field.
type IntChain struct {
	v      *Validator
	name   string
	value  int
	failed bool
}

// Range fails when the value is outside [min, max].
func (c *IntChain) Range(min, max int, message string) *IntChain {
	if c.failed {
		return c
	}
	if c.value < min || c.value > max {
		c.v.Add(c.name, message)
		c.failed = true
	}
	return c
}

// Min fails when the value is below min.
func (c *IntChain) Min(min int, message string) *IntChain {
	if c.failed {
		return c
	}
	if c.value < min {
		c.v.Add(c.name, message)
		c.failed = true
	}
	return c
}

// ParseDate parses a date string in either "2006-01-02" or RFC 3339 form.
// Clients send plain dates from date pickers and full timestamps from
// round-tripped records; both must be accepted.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// MustDate is ParseDate for values that have already passed a Date() check.
// It panics on unparseable input — reaching that panic means the rules and
// the parser disagree, which is a programming error.
func MustDate(s string) time.Time {
	t, ok := ParseDate(s)
	if !ok {
		panic(fmt.Sprintf("validate: MustDate on unvalidated input %q", s))
	}
	return t
}
