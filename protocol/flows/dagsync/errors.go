package dagsync

import (
	"fmt"

	"github.com/dagnet/dagd/util/daghash"
	"github.com/dagnet/dagd/wire"
)

// TooDeepError signifies that the summaries received from the peer reach
// further back in ancestry than the node is willing to accept in one sync.
type TooDeepError struct {
	Frontier []*daghash.Hash
	Limit    uint64
}

func (e *TooDeepError) Error() string {
	return fmt.Sprintf("received %d block summaries at depth %d from the sync targets",
		len(e.Frontier), e.Limit)
}

// TooWideError signifies that the population of some rank in the received
// summaries grew too fast relative to the rank below it.
type TooWideError struct {
	Ratio float64
	Limit float64
}

func (e *TooWideError) Error() string {
	return fmt.Sprintf("rank population grew by a factor of %g, while at most %g is allowed",
		e.Ratio, e.Limit)
}

// UnreachableError signifies that a received summary is not an ancestor of
// the requested targets within the allowed number of hops.
type UnreachableError struct {
	Summary *wire.BlockSummary
	Limit   uint64
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("block summary %s is not an ancestor of the sync targets within %d hops",
		e.Summary.BlockHash, e.Limit)
}

// ValidationError signifies that a received summary failed validation.
type ValidationError struct {
	Summary *wire.BlockSummary
	Cause   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("block summary %s failed validation: %s", e.Summary.BlockHash, e.Cause)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// MissingDependenciesError signifies that the peer stopped sending summaries
// while some of the received summaries still reference unknown ancestors.
type MissingDependenciesError struct {
	Missing []*daghash.Hash
}

func (e *MissingDependenciesError) Error() string {
	return fmt.Sprintf("%d ancestor block summaries are still missing, first missing: %s",
		len(e.Missing), e.Missing[0])
}
