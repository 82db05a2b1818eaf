package exitcode

import (
	"errors"
	"os"
)

// The exit codes of the command-line tool
const (
	OK          = 0
	Failure     = 1 // I/O problems, unreadable fixtures and the like
	Usage       = 2 // bad flags or arguments
	Diagnostics = 3 // at least one chunk raised an error diagnostic
)

type Coder interface {
	error
	ExitCode() int
}

// Returns the code attached with "Set" anywhere in the chain. Anything
// else is a plain failure.
func Get(err error) int {
	if err == nil {
		return OK
	}
	var c Coder
	if errors.As(err, &c) {
		return c.ExitCode()
	}
	return Failure
}

func Set(err error, code int) error {
	if err == nil {
		return nil
	}
	return coded{err: err, code: code}
}

type coded struct {
	err  error
	code int
}

func (c coded) Error() string { return c.err.Error() }
func (c coded) Unwrap() error { return c.err }
func (c coded) ExitCode() int { return c.code }

func Exit(err error) {
	os.Exit(Get(err))
}
