package avatars

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	// KindNotFound - profile, record or blob is absent.
	KindNotFound ErrorKind = iota + 1
	// KindIO - file system failure.
	KindIO
	// KindFetch - remote image download failure.
	KindFetch
	// KindStore - database failure.
	KindStore
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindIO:
		return "io"
	case KindFetch:
		return "fetch"
	case KindStore:
		return "store"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is returned by store and client adapters.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

var _ error = (*Error)(nil)

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + ": " + e.Kind.String()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports kind of the first *Error in the chain or 0 if there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// FailureReason tags the step at which an avatar workflow stopped.
type FailureReason int

const (
	FailureUserNotFound FailureReason = iota + 1
	FailureRecordLookup
	FailureBlobRead
	FailureBlobWrite
	FailureRecordWrite
	FailureRecordNotFound
	FailureBlobLookup
	FailureBlobNotFound
	FailureRecordDelete
	FailureBlobDelete
)

var failureMessages = map[FailureReason]string{
	FailureUserNotFound:   "User not found",
	FailureRecordLookup:   "Error while checking avatar in database",
	FailureBlobRead:       "Error while getting avatar from file system",
	FailureBlobWrite:      "Error while saving avatar to file system",
	FailureRecordWrite:    "Error while saving avatar to database",
	FailureRecordNotFound: "Avatar not found in database",
	FailureBlobLookup:     "Error while checking avatar in file system",
	FailureBlobNotFound:   "Avatar not found in file system",
	FailureRecordDelete:   "Error while deleting avatar from database",
	FailureBlobDelete:     "Error while deleting avatar from file system",
}

func (r FailureReason) String() string {
	if m, ok := failureMessages[r]; ok {
		return m
	}
	return fmt.Sprintf("failure(%d)", int(r))
}

// NotFound reports whether the failure means a missing resource rather than
// a broken store.
func (r FailureReason) NotFound() bool {
	switch r {
	case FailureUserNotFound, FailureRecordNotFound, FailureBlobNotFound:
		return true
	default:
		return false
	}
}

type Failure struct {
	Reason FailureReason
	Err    error
}

var _ error = (*Failure)(nil)

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Reason.String()
	}
	return f.Reason.String() + ": " + f.Err.Error()
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Message is the human readable description sent to clients. Missing
// resource failures do not expose the cause.
func (f *Failure) Message() string {
	if f.Reason.NotFound() || f.Err == nil {
		return f.Reason.String()
	}
	return f.Error()
}

func fail(reason FailureReason, err error) error {
	return &Failure{Reason: reason, Err: err}
}

// FailureOf extracts the workflow failure from err.
func FailureOf(err error) (*Failure, bool) {
	var f *Failure
	ok := errors.As(err, &f)
	return f, ok
}
