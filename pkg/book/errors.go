package book

import "github.com/cockroachdb/errors"

// newInvariantError builds a stack-carrying error for a programmer
// bug — an invariant violation the caller should never be able to
// trigger through the public API (e.g. the Index pointing at a node
// whose level is missing). Code paths that detect one panic with it;
// they never surface it as a bool like the expected not-found and
// rejection outcomes do.
func newInvariantError(format string, args ...interface{}) error {
	return errors.Newf("book: invariant violation: "+format, args...)
}
