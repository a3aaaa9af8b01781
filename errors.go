package doublefetch

import (
	"errors"
	"fmt"

	"github.com/BumpyClock/doublefetch/internal/doferr"
)

// ErrorCode represents the type of error that occurred while running a
// job, mirrored onto the two-kind split spec.md §7 requires internally.
type ErrorCode int

const (
	// ErrInvalidInput labels a malformed request. Client.Run does not
	// return it: an empty or suspicious query and an unknown category end
	// with no messages and a nil error, and with the default fetcher an
	// empty or unparseable URL is reported as ErrPermanent.
	ErrInvalidInput ErrorCode = iota

	// ErrPermanent indicates a permanent failure: a malformed pattern,
	// an unknown transform, or a permanent HTTP status (429 included).
	// Retrying the same request will not help.
	ErrPermanent

	// ErrTransient indicates a transient failure: a network error or a
	// parse failure on malformed HTML. The caller's scheduler should
	// retry.
	ErrTransient
)

// String returns a human-readable label for the error code.
func (e ErrorCode) String() string {
	switch e {
	case ErrInvalidInput:
		return "invalid input"
	case ErrPermanent:
		return "permanent error"
	case ErrTransient:
		return "transient error"
	default:
		return "unknown error"
	}
}

// RunError wraps a failure from Client.Run with its classification,
// the category and query it occurred for, and the underlying error.
type RunError struct {
	Code     ErrorCode
	Category string
	Query    string
	Op       string
	Err      error
}

func (e *RunError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("doublefetch: %s category=%s query=%q: %s: %v", e.Op, e.Category, e.Query, e.Code, e.Err)
	}
	return fmt.Sprintf("doublefetch: %s category=%s query=%q: %s", e.Op, e.Category, e.Query, e.Code)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

func (e *RunError) Is(target error) bool {
	t, ok := target.(*RunError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// IsPermanent reports whether err (or something it wraps) is a
// permanent failure not worth retrying.
func IsPermanent(err error) bool {
	var re *RunError
	if errors.As(err, &re) {
		return re.Code == ErrPermanent
	}
	return doferr.IsPermanent(err)
}

// classify wraps err from op against (category, query) with the right
// ErrorCode, using internal/doferr's classification where the error
// originated inside the core.
func classify(op, category, query string, err error) *RunError {
	code := ErrTransient
	if doferr.IsPermanent(err) {
		code = ErrPermanent
	}
	return &RunError{Code: code, Category: category, Query: query, Op: op, Err: err}
}
