// Package cmprerr distinguishes the handful of error kinds that
// terminate the program (filesystem failure, invariant violation, LLM
// parse failure, arena overflow — spec.md §7) from everything else, which
// the CLI/TUI report and recover from with a keystroke.
package cmprerr

import (
	"errors"
	"fmt"
)

// Fatal wraps an error the top-level loop must report and terminate on.
type Fatal struct {
	err error
}

// NewFatal wraps err as Fatal. Returns nil for a nil err, so it composes
// with the usual "if err != nil { return cmprerr.NewFatal(err) }" idiom.
func NewFatal(err error) error {
	if err == nil {
		return nil
	}
	return &Fatal{err: err}
}

// Fatalf builds a Fatal directly from a format string, for call sites with
// no underlying error to wrap (e.g. a hand-detected arena overflow).
func Fatalf(format string, args ...any) error {
	return &Fatal{err: fmt.Errorf(format, args...)}
}

func (f *Fatal) Error() string { return f.err.Error() }
func (f *Fatal) Unwrap() error { return f.err }

// IsFatal reports whether err (or anything it wraps) is Fatal.
func IsFatal(err error) bool {
	var f *Fatal
	return errors.As(err, &f)
}
