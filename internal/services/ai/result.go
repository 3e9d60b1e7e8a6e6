package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/benvon/thai-toolkit/internal/validation"
)

// ErrMalformed marks a completion that did not match the expected schema.
var ErrMalformed = errors.New("malformed completion")

// MalformedError carries the raw completion text that failed to decode.
type MalformedError struct {
	Raw    string
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMalformed.Error(), e.Reason)
}

func (e *MalformedError) Unwrap() error {
	return ErrMalformed
}

// Result is either a schema-conformant value (Parsed) or the raw completion
// text that could not be decoded (Malformed). Callers must branch on IsParsed
// before using Value.
type Result[T any] struct {
	value  T
	raw    string
	reason string
	parsed bool
}

// Parsed wraps a decoded value.
func Parsed[T any](v T) Result[T] {
	return Result[T]{value: v, parsed: true}
}

// Malformed wraps completion text that failed to decode.
func Malformed[T any](raw, reason string) Result[T] {
	return Result[T]{raw: raw, reason: reason}
}

// IsParsed reports whether the result holds a decoded value.
func (r Result[T]) IsParsed() bool {
	return r.parsed
}

// Value returns the decoded value and true, or the zero value and false.
func (r Result[T]) Value() (T, bool) {
	return r.value, r.parsed
}

// Raw returns the completion text of a Malformed result.
func (r Result[T]) Raw() string {
	return r.raw
}

// Unwrap returns the value, or a *MalformedError for a Malformed result.
func (r Result[T]) Unwrap() (T, error) {
	if !r.parsed {
		var zero T
		return zero, &MalformedError{Raw: r.raw, Reason: r.reason}
	}
	return r.value, nil
}

// Decode extracts the outermost JSON object from a completion, unmarshals it
// into T and validates struct tags. Any failure yields Malformed.
func Decode[T any](content string) Result[T] {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return Malformed[T](content, "no JSON object in completion")
	}

	var v T
	if err := json.Unmarshal([]byte(content[start:end+1]), &v); err != nil {
		return Malformed[T](content, err.Error())
	}
	if err := validation.Validate.Struct(&v); err != nil {
		return Malformed[T](content, validation.FormatErrors(err))
	}
	return Parsed(v)
}
