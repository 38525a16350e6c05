package mpt

import (
	"errors"
	"fmt"
)

// ErrMalformedNode is returned when a node's RLP or hex-prefix encoding
// cannot be decoded into any of the three live node variants.
var ErrMalformedNode = errors.New("mpt: malformed node encoding")

// MissingNodeError is returned when the backing NodeStore has no entry
// for a hash a node in the trie refers to. It is unrecoverable within
// the operation that surfaced it: the caller should discard the trie
// (reset RootHash) rather than retry the mutation.
type MissingNodeError struct {
	Hash Hash
}

func (e *MissingNodeError) Error() string {
	return fmt.Sprintf("mpt: node %x missing from store", e.Hash)
}

// MissingDeleteKeyError is returned by Delete when the key does not
// exist and Delete was called with ignoreMissingDelete set to false.
// The trie is left unchanged.
type MissingDeleteKeyError struct {
	Path []Nibble
}

func (e *MissingDeleteKeyError) Error() string {
	return fmt.Sprintf("mpt: delete of missing key at path %x", e.Path)
}

// CommitAggregateError wraps one or more worker failures from a
// parallel Commit fan-out (see WithParallelCommitThreshold).
type CommitAggregateError struct {
	Errors []error
}

func (e *CommitAggregateError) Error() string {
	return fmt.Sprintf("mpt: %d commit workers failed, first: %v", len(e.Errors), e.Errors[0])
}

func (e *CommitAggregateError) Unwrap() []error { return e.Errors }

// structuralInvariantViolation panics with a message identifying a bug
// in the rewrite engine (e.g. a Leaf surfacing as an ancestor), never a
// condition a caller can trigger through the public API.
func structuralInvariantViolation(format string, args ...interface{}) {
	panic(fmt.Sprintf("mpt: structural invariant violation: "+format, args...))
}
