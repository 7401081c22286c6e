// Package errors provides centralized error definitions and error handling utilities
// for lightgit. It defines sentinel errors, the git error type produced by the
// lookup mechanism, and classification helpers.
//
// # Error Types
//
// Lookup errors are the only failure kind the location tracker recognises:
//   - GitError: a git invocation failed (missing executable, not a repository,
//     unexpected output)
//   - LookupError: a location lookup for a directory failed, whatever the cause
//
// # Usage
//
//	err := errors.NewGitError("failed to read HEAD", cause).
//		WithDirectory("/src/project").
//		WithGitOutput(string(output))
//
//	if errors.IsLookupFailure(err) {
//		// treat as "no location"
//	}
//
// The tracker absorbs every lookup failure and publishes an unknown location,
// so none of these errors ever reaches a listener.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Git-related sentinel errors
var (
	// ErrNotGitRepository indicates that the directory is not inside a git work tree.
	ErrNotGitRepository = New("not a git repository")
	// ErrExecutableNotFound indicates that no usable git executable is configured or on PATH.
	ErrExecutableNotFound = New("git executable not found")
	// ErrLookupFailed indicates that a location lookup could not produce a result.
	ErrLookupFailed = New("location lookup failed")
)

// ErrInvalidInput indicates that input validation failed.
var ErrInvalidInput = New("invalid input")

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message   string
	cause     error
	retryable bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// -----------------------------------------------------------------------------
// Git Errors
// -----------------------------------------------------------------------------

// GitError represents a failed git invocation.
//
// Example:
//
//	err := errors.NewGitError("failed to resolve HEAD", errors.ErrNotGitRepository)
//	err = err.WithDirectory("/tmp/scratch").WithExecutable("/usr/bin/git")
type GitError struct {
	baseError
	Directory  string
	Executable string
	GitOutput  string // Captured git command output
}

// NewGitError creates a new GitError.
func NewGitError(message string, cause error) *GitError {
	return &GitError{
		baseError: baseError{
			message: message,
			cause:   cause,
		},
	}
}

// WithDirectory adds the directory git was run in to the error context.
func (e *GitError) WithDirectory(dir string) *GitError {
	e.Directory = dir
	return e
}

// WithExecutable adds the git executable path to the error context.
func (e *GitError) WithExecutable(path string) *GitError {
	e.Executable = path
	return e
}

// WithGitOutput adds git command output to the error context.
func (e *GitError) WithGitOutput(output string) *GitError {
	e.GitOutput = strings.TrimSpace(output)
	return e
}

// WithRetryable sets whether the error is retryable.
func (e *GitError) WithRetryable(r bool) *GitError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *GitError) Error() string {
	var parts []string
	if e.Directory != "" {
		parts = append(parts, fmt.Sprintf("dir=%s", e.Directory))
	}
	if e.Executable != "" {
		parts = append(parts, fmt.Sprintf("git=%s", e.Executable))
	}

	prefix := "git error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("git error [%s]", strings.Join(parts, ", "))
	}

	msg := e.message
	if e.cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	}
	if e.GitOutput != "" {
		msg = fmt.Sprintf("%s\ngit output: %s", msg, e.GitOutput)
	}

	return fmt.Sprintf("%s: %s", prefix, msg)
}

// Is checks if this error matches the target.
// Every GitError is a lookup failure.
func (e *GitError) Is(target error) bool {
	if _, ok := target.(*GitError); ok {
		return true
	}
	if target == ErrLookupFailed {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Lookup Errors
// -----------------------------------------------------------------------------

// LookupError reports that resolving a location for Directory failed.
type LookupError struct {
	baseError
	Directory string
}

// NewLookupError creates a LookupError for dir.
func NewLookupError(dir string, cause error) *LookupError {
	return &LookupError{
		baseError: baseError{
			message: "location lookup failed",
			cause:   cause,
		},
		Directory: dir,
	}
}

// Error returns the formatted error message.
func (e *LookupError) Error() string {
	if e.Directory == "" {
		return e.baseError.Error()
	}
	return fmt.Sprintf("%s [dir=%s]", e.baseError.Error(), e.Directory)
}

// IsRetryable reports whether the lookup was abandoned for a transient
// reason, either on this error or on its cause.
func (e *LookupError) IsRetryable() bool {
	return e.retryable || IsRetryable(e.cause)
}

// Is checks if this error matches the target.
func (e *LookupError) Is(target error) bool {
	if _, ok := target.(*LookupError); ok {
		return true
	}
	if target == ErrLookupFailed {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// IsLookupFailure reports whether err means "no location could be
// determined". A missing repository and a failing git are the same kind.
func IsLookupFailure(err error) bool {
	if err == nil {
		return false
	}
	return Is(err, ErrLookupFailed) ||
		Is(err, ErrNotGitRepository) ||
		Is(err, ErrExecutableNotFound)
}

// IsRetryable returns true if the error is transient and the operation may
// succeed on retry.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var r interface{ IsRetryable() bool }
	if As(err, &r) {
		return r.IsRetryable()
	}
	return false
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to load config")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
//
// Example:
//
//	err := errors.Wrapf(baseErr, "failed to resolve %s", dir)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
