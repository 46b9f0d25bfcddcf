// Package validation evaluates ordered field rules and defines the two
// failure types surfaced to callers: InvalidArgument for structurally bad
// requests and Error for a field that broke a business rule.
package validation

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Error reports the first rule a record failed.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string { return e.Message }

// InvalidArgument reports a request that cannot be acted on at all, such as a
// missing record or a reference to a patient that does not exist.
type InvalidArgument struct {
	Message string
}

func (e *InvalidArgument) Error() string { return e.Message }

func NewInvalidArgument(msg string) error { return &InvalidArgument{Message: msg} }

func IsValidation(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

func IsInvalidArgument(err error) bool {
	var ia *InvalidArgument
	return errors.As(err, &ia)
}

// Rule pairs a failure predicate with the message reported when it holds.
type Rule[T any] struct {
	Field   string
	Fails   func(T) bool
	Message string
}

// First runs rules in order and returns the first failure, or nil.
func First[T any](v T, rules []Rule[T]) error {
	for _, r := range rules {
		if r.Fails(v) {
			return &Error{Field: r.Field, Message: r.Message}
		}
	}
	return nil
}

// Blank reports whether s is empty or only whitespace.
func Blank(s string) bool { return strings.TrimSpace(s) == "" }

// Longer reports whether s has more than n characters.
func Longer(s string, n int) bool { return utf8.RuneCountInString(s) > n }

// LengthNot reports whether s does not have exactly n characters.
func LengthNot(s string, n int) bool { return utf8.RuneCountInString(s) != n }

// Mismatch reports whether s fails to match re in full.
func Mismatch(re *regexp.Regexp, s string) bool { return !re.MatchString(s) }

// Date returns midnight UTC of the calendar day t falls on in its own location.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NotAfterDay reports whether the calendar day of d is today or earlier,
// where today is the calendar day of now.
func NotAfterDay(d, now time.Time) bool {
	return !Date(d).After(Date(now))
}
