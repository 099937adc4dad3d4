package cluster

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned by Provider.ResolveAlias, which stays
// explicitly unimplemented rather than silently returning empty.
var ErrUnsupported = errors.New("shardsim/cluster: operation not supported")

// PreconditionError reports a caller-bug precondition violation: state is
// left unchanged.
type PreconditionError struct {
	Op     string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func newPreconditionError(op, reason string) *PreconditionError {
	return &PreconditionError{Op: op, Reason: reason}
}

// PublishError wraps a failure writing a snapshot to the external state
// manager, whether a version conflict or an I/O error. The in-memory
// state has already been mutated; the next successful publish reconciles
// it.
type PublishError struct {
	Path string
	Err  error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish %s: %s", e.Path, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// WaitTimeoutError is returned by PredicateWaiter.WaitFor when the
// simulated clock's deadline elapses before the predicate matches. It
// carries the last observation for diagnostics.
type WaitTimeoutError struct {
	Collection string
	LiveNodes  []string
	State      *ClusterState
}

func (e *WaitTimeoutError) Error() string {
	return fmt.Sprintf("timed out waiting for collection %q", e.Collection)
}

// InvariantViolationError indicates an internal bug: an invariant that the
// core itself is responsible for maintaining has been broken. These are
// treated as fatal; panicking is the Go idiom for a defect that must not
// be caught and silently continued.
type InvariantViolationError struct {
	Invariant string
	Detail    string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant %s violated: %s", e.Invariant, e.Detail)
}

func panicInvariant(invariant, detail string) {
	panic(&InvariantViolationError{Invariant: invariant, Detail: detail})
}
