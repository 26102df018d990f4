// Package errors provides error handling for depminer.
//
// It re-exports github.com/cockroachdb/errors so every package gets stack
// traces, wrapping, hints and details from a single import, and defines the
// sentinel errors the discovery core reports:
//
//	// reject malformed input before any phase starts
//	return errors.NewInvalidInputError("column %q has %d rows, want %d", name, got, want)
//
//	// callers branch on the kind
//	if errors.IsConfigurationError(err) {
//	    // print usage
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
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions
var (
	AssertionFailedf    = crdb.AssertionFailedf
	HasAssertionFailure = crdb.HasAssertionFailure
)

// Sentinel errors of the discovery core. Wrap them to add context; check
// them with Is or the helpers below.
var (
	// ErrInvalidInput: empty relation, zero columns or ragged column lengths.
	ErrInvalidInput = New("invalid input")

	// ErrConfiguration: non-positive thread count or an impossible option combination.
	ErrConfiguration = New("invalid configuration")

	// ErrInvariant: an internal consistency check failed. The run is aborted
	// because every later conclusion would be built on a broken partition or
	// tree.
	ErrInvariant = New("invariant violation")
)

// NewInvalidInputError creates an invalid-input error with a formatted message
func NewInvalidInputError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidInput, Newf(format, args...).Error())
}

// NewConfigurationError creates a configuration error with a formatted message
func NewConfigurationError(format string, args ...interface{}) error {
	return Wrap(ErrConfiguration, Newf(format, args...).Error())
}

// NewInvariantError creates an invariant-violation error with a formatted message.
func NewInvariantError(format string, args ...interface{}) error {
	return Wrap(ErrInvariant, Newf(format, args...).Error())
}

// IsInvalidInputError checks if an error is or wraps ErrInvalidInput
func IsInvalidInputError(err error) bool {
	return err != nil && Is(err, ErrInvalidInput)
}

// IsConfigurationError checks if an error is or wraps ErrConfiguration
func IsConfigurationError(err error) bool {
	return err != nil && Is(err, ErrConfiguration)
}

// IsInvariantError checks if an error is or wraps ErrInvariant
func IsInvariantError(err error) bool {
	return err != nil && Is(err, ErrInvariant)
}
