package git

import (
	"errors"
	"fmt"
)

// Kind classifies the failures a Session operation can report. Callers should
// branch on KindOf rather than matching error text.
type Kind uint8

const (
	KindNone Kind = iota
	// KindNoRepositoryOpen means the operation requires an open repository
	// and none is held by the session.
	KindNoRepositoryOpen
	// KindRepoNotFound means Open could not resolve the path to a repository.
	KindRepoNotFound
	// KindTraversal means HEAD resolution, reference enumeration or the
	// history walk failed.
	KindTraversal
	// KindDiff means tree resolution or diff computation failed.
	KindDiff
	// KindBranch means local branch enumeration or resolution failed.
	KindBranch
	// KindRemote means upstream resolution failed; treated as degraded data.
	KindRemote
)

func (k Kind) String() string {
	switch k {
	case KindNoRepositoryOpen:
		return "no repository open"
	case KindRepoNotFound:
		return "repository not found"
	case KindTraversal:
		return "traversal failed"
	case KindDiff:
		return "diff failed"
	case KindBranch:
		return "branch lookup failed"
	case KindRemote:
		return "upstream lookup failed"
	}
	return "unknown"
}

// Error carries a Kind alongside the operation name and underlying cause.
// The message stays human-readable; the kind survives wrapping so tests and
// callers can assert on it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapErr(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the Kind of the outermost *Error in err's chain, or KindNone.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNone
}
