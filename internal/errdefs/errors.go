// Package errdefs defines the error kinds a suite resolution can fail with.
//
// Every fatal resolution failure is one of four kinds. Callers match them
// with errors.As (or the Is* helpers) after any amount of %w wrapping:
//
//   - NotFoundError: a required file is missing or not executable
//   - AmbiguousError: several candidates match and none was chosen
//   - ValidationError: discovery results break a requested constraint
//   - ParseError: a config, metadata or manifest document is malformed
package errdefs

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError indicates a missing (or unusable) file or component.
type NotFoundError struct {
	// Kind names what was looked for, e.g. "test", "manifest", "deploy script".
	Kind string
	// Path is the location that was checked.
	Path string
	// Reason optionally explains why an existing path was rejected.
	Reason string
}

func (e *NotFoundError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s not found: %s (%s)", e.Kind, e.Path, e.Reason)
	}
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Path)
}

// AmbiguousError indicates several candidates where exactly one was expected.
type AmbiguousError struct {
	// What names the thing being selected, e.g. "bundle manifest".
	What string
	// Candidates lists every match so the caller can pick one explicitly.
	Candidates []string
	// Hint tells the user how to disambiguate.
	Hint string
}

func (e *AmbiguousError) Error() string {
	msg := fmt.Sprintf("ambiguous %s: %s", e.What, strings.Join(e.Candidates, ", "))
	if e.Hint != "" {
		msg += "; " + e.Hint
	}
	return msg
}

// ValidationReason distinguishes the discovery constraints that can break.
type ValidationReason string

const (
	// ReasonPatternMatchedNothing means a non-default test pattern found no executable tests.
	ReasonPatternMatchedNothing ValidationReason = "pattern matched nothing"
	// ReasonTestCountMismatch means some explicitly requested tests are missing or not executable.
	ReasonTestCountMismatch ValidationReason = "test count mismatch"
)

// ValidationError reports a broken discovery constraint for one suite.
type ValidationError struct {
	Suite  string
	Reason ValidationReason
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("suite %s: %s: %s", e.Suite, e.Reason, e.Detail)
	}
	return fmt.Sprintf("suite %s: %s", e.Suite, e.Reason)
}

// ParseError wraps a failure to read or decode a document.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsAmbiguous reports whether err wraps an AmbiguousError.
func IsAmbiguous(err error) bool {
	var target *AmbiguousError
	return errors.As(err, &target)
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsParse reports whether err wraps a ParseError.
func IsParse(err error) bool {
	var target *ParseError
	return errors.As(err, &target)
}
