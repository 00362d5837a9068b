// Package errors provides structured error types for Fetchy.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the core packages
//   - Machine-readable error codes for exit-code classification
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Usage
//
//	err := errors.New(errors.CodeNetworkError, "fetching %s", url)
//	if errors.Is(err, errors.CodeNetworkError) {
//	    // Handle network error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.CodeIoError, origErr, "writing %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code from the taxonomy.
type Code string

// Error codes, one per category in the taxonomy.
const (
	CodeSyntaxError          Code = "SYNTAX_ERROR"
	CodeRepositoryError      Code = "REPOSITORY_ERROR"
	CodeNoAssetForPlatform   Code = "NO_ASSET_FOR_PLATFORM"
	CodeAssetNotFound        Code = "ASSET_NOT_FOUND"
	CodeAmbiguousAsset       Code = "AMBIGUOUS_ASSET"
	CodeBinaryNotFound       Code = "BINARY_NOT_FOUND"
	CodeAmbiguousBinary      Code = "AMBIGUOUS_BINARY"
	CodeNetworkError         Code = "NETWORK_ERROR"
	CodeRateLimited          Code = "RATE_LIMITED"
	CodeUnsupportedHost      Code = "UNSUPPORTED_HOST"
	CodeCrossRepoConflict    Code = "CROSS_REPO_CONFLICT"
	CodeWouldBreakDependents Code = "WOULD_BREAK_DEPENDENTS"
	CodeLockTimeout          Code = "LOCK_TIMEOUT"
	CodeIoError              Code = "IO_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// coder is satisfied by the taxonomy's standalone typed errors
// (AmbiguousAssetError and similar) that carry their code via a method
// rather than an Error field, letting GetCode and Is treat them and
// *Error uniformly.
type coder interface {
	Code() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or a standalone typed
// error (see [AmbiguousAssetError] and similar) with a matching code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error chain carries no recognized code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ExitCode maps an error to the CLI exit code it should produce:
// 0 on success, 1 on user/validation error, 2 on network error, 3 on
// lock/IO error. Errors not carrying a known Code map to 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch GetCode(err) {
	case CodeNetworkError, CodeRateLimited, CodeAssetNotFound, CodeAmbiguousAsset, CodeNoAssetForPlatform:
		return 2
	case CodeLockTimeout, CodeIoError:
		return 3
	default:
		return 1
	}
}

// AmbiguousAssetError reports that more than one release asset matched a
// package variant's pattern.
type AmbiguousAssetError struct {
	Pattern    string
	Candidates []string
}

func (e *AmbiguousAssetError) Error() string {
	return fmt.Sprintf("%s: pattern %q matched %d assets: %v", CodeAmbiguousAsset, e.Pattern, len(e.Candidates), e.Candidates)
}

// Code returns the error code for this error type.
func (e *AmbiguousAssetError) Code() Code { return CodeAmbiguousAsset }

// AmbiguousBinaryError reports that more than one archive entry matched a
// binary selector's pattern.
type AmbiguousBinaryError struct {
	Pattern    string
	Candidates []string
}

func (e *AmbiguousBinaryError) Error() string {
	return fmt.Sprintf("%s: pattern %q matched %d archive entries: %v", CodeAmbiguousBinary, e.Pattern, len(e.Candidates), e.Candidates)
}

// Code returns the error code for this error type.
func (e *AmbiguousBinaryError) Code() Code { return CodeAmbiguousBinary }

// RateLimitedError reports a rate-limited upstream response.
type RateLimitedError struct {
	Host    string
	ResetAt int64 // unix seconds, 0 if unknown
}

func (e *RateLimitedError) Error() string {
	if e.ResetAt > 0 {
		return fmt.Sprintf("%s: %s rate limit resets at %d", CodeRateLimited, e.Host, e.ResetAt)
	}
	return fmt.Sprintf("%s: %s rate limited", CodeRateLimited, e.Host)
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code { return CodeRateLimited }

// WouldBreakDependentsError reports that uninstalling a package would leave
// explicit dependents without their transitive dependency.
type WouldBreakDependentsError struct {
	Package    string
	Dependents []string
}

func (e *WouldBreakDependentsError) Error() string {
	return fmt.Sprintf("%s: uninstalling %s would break %v", CodeWouldBreakDependents, e.Package, e.Dependents)
}

// Code returns the error code for this error type.
func (e *WouldBreakDependentsError) Code() Code { return CodeWouldBreakDependents }

// CrossRepoConflictError reports that a package name resolved against two
// different repositories within one install closure.
type CrossRepoConflictError struct {
	Package     string
	InstalledIn string
	RequestedIn string
}

func (e *CrossRepoConflictError) Error() string {
	return fmt.Sprintf("%s: %s already installed from repository %q, requested from %q", CodeCrossRepoConflict, e.Package, e.InstalledIn, e.RequestedIn)
}

// Code returns the error code for this error type.
func (e *CrossRepoConflictError) Code() Code { return CodeCrossRepoConflict }
