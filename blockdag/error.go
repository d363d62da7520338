package blockdag

import (
	"fmt"
)

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific RuleError.
const (
	// ErrDuplicateBlock indicates a block summary with the same hash already
	// exists in the DAG.
	ErrDuplicateBlock ErrorCode = iota

	// ErrMissingParents indicates a block summary references parent block
	// hashes that are not known to the DAG.
	ErrMissingParents

	// ErrTooManyParents indicates a block summary carries more parent hashes
	// than the protocol allows.
	ErrTooManyParents

	// ErrDuplicateParents indicates a block summary lists the same parent
	// hash more than once.
	ErrDuplicateParents

	// ErrBadBlockHash indicates the declared hash of a block summary does
	// not match the hash computed over its contents.
	ErrBadBlockHash

	// ErrInvalidPublicKey indicates the validator public key of a block
	// summary could not be parsed.
	ErrInvalidPublicKey

	// ErrInvalidSignature indicates the validator signature of a block
	// summary could not be parsed or does not sign the block hash.
	ErrInvalidSignature

	// ErrSelfReference indicates a block summary lists its own hash as a
	// parent or as a justified block.
	ErrSelfReference
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrDuplicateBlock:   "ErrDuplicateBlock",
	ErrMissingParents:   "ErrMissingParents",
	ErrTooManyParents:   "ErrTooManyParents",
	ErrDuplicateParents: "ErrDuplicateParents",
	ErrBadBlockHash:     "ErrBadBlockHash",
	ErrInvalidPublicKey: "ErrInvalidPublicKey",
	ErrInvalidSignature: "ErrInvalidSignature",
	ErrSelfReference:    "ErrSelfReference",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// RuleError identifies a rule violation. It is used to indicate that
// processing of a block summary failed due to one of the validation rules.
// The caller can use type assertions to determine if a failure was
// specifically due to a rule violation and access the ErrorCode field to
// ascertain the specific reason for the rule violation.
type RuleError struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	return e.Description
}

// ruleError creates a RuleError given a set of arguments.
func ruleError(c ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: c, Description: desc}
}

// AssertError identifies an error that indicates an internal code consistency
// issue and should be treated as a critical and unrecoverable error.
type AssertError string

// Error returns the assertion error as a human-readable string and satisfies
// the error interface.
func (e AssertError) Error() string {
	return "assertion failed: " + string(e)
}
