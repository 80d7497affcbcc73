// Package errors provides error handling for secondq.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Sentinel kinds for the algebra engine's failure modes
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Tag with a kind so callers can branch on it
//	return errors.Mark(errors.Newf("space %q already registered", label), errors.ErrConfiguration)
//
//	// Check kinds
//	if errors.IsParseError(err) {
//	    // surface position diagnostics
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	Mark         = crdb.Mark
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint       = crdb.WithHint
	WithHintf      = crdb.WithHintf
	WithDetail     = crdb.WithDetail
	WithDetailf    = crdb.WithDetailf
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Error inspection
var (
	Is         = crdb.Is
	IsAny      = crdb.IsAny
	As         = crdb.As
	Unwrap     = crdb.Unwrap
	UnwrapOnce = crdb.UnwrapOnce
	UnwrapAll  = crdb.UnwrapAll
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel kinds for the engine's failure modes.
// Use with errors.Is() / the Is* helpers for type-safe checking, and
// errors.Mark() to tag a specific error with a kind while keeping its message.
var (
	// ErrConfiguration indicates registry or engine misuse: duplicate space
	// labels, empty stems, a frozen registry, or an index minted under a
	// registry epoch that has since been reset.
	ErrConfiguration = New("configuration error")

	// ErrParse indicates malformed expression text.
	ErrParse = New("parse error")

	// ErrSymmetry indicates a contradictory tensor symmetry declaration.
	ErrSymmetry = New("symmetry error")

	// ErrArithmetic indicates invalid rational arithmetic, e.g. a zero
	// denominator.
	ErrArithmetic = New("arithmetic error")

	// ErrResourceLimit indicates an expansion or canonicalization exceeded a
	// caller-set cap.
	ErrResourceLimit = New("resource limit exceeded")

	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = New("not found")
)

// IsConfigurationError checks if an error is or wraps ErrConfiguration.
func IsConfigurationError(err error) bool {
	return err != nil && Is(err, ErrConfiguration)
}

// IsParseError checks if an error is or wraps ErrParse.
func IsParseError(err error) bool {
	return err != nil && Is(err, ErrParse)
}

// IsSymmetryError checks if an error is or wraps ErrSymmetry.
func IsSymmetryError(err error) bool {
	return err != nil && Is(err, ErrSymmetry)
}

// IsArithmeticError checks if an error is or wraps ErrArithmetic.
func IsArithmeticError(err error) bool {
	return err != nil && Is(err, ErrArithmetic)
}

// IsResourceLimitError checks if an error is or wraps ErrResourceLimit.
func IsResourceLimitError(err error) bool {
	return err != nil && Is(err, ErrResourceLimit)
}

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// Configurationf creates a configuration error with a formatted message.
func Configurationf(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrConfiguration)
}

// Symmetryf creates a symmetry error with a formatted message.
func Symmetryf(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrSymmetry)
}

// Arithmeticf creates an arithmetic error with a formatted message.
func Arithmeticf(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrArithmetic)
}

// ResourceLimitf creates a resource-limit error with a formatted message.
func ResourceLimitf(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrResourceLimit)
}

// NotFoundf creates a not-found error with a formatted message.
func NotFoundf(format string, args ...interface{}) error {
	return Mark(Newf(format, args...), ErrNotFound)
}
