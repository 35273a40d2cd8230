package skiplist

import "errors"

var (
	// ErrArenaFull is returned by Insert when the node arena has reached the
	// configured MaxNodes limit.
	ErrArenaFull = errors.New("skiplist: node arena exhausted")
	// ErrClosed is returned by mutations on a list that has been closed.
	ErrClosed = errors.New("skiplist: closed")
	// ErrCorrupted is wrapped by Check when a structural invariant fails.
	ErrCorrupted = errors.New("skiplist: corrupted")
)
