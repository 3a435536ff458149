package errors

import (
	"fmt"
)

// ExitCodeError carries the process exit code a failure should produce.
type ExitCodeError struct {
	code ExitCode
	error
}

func NewError(err error, exitCode ExitCode) *ExitCodeError {
	if err == nil {
		return nil
	}
	return &ExitCodeError{exitCode, err}
}

func Errorf(exitCode ExitCode, format string, args ...interface{}) *ExitCodeError {
	return &ExitCodeError{exitCode, fmt.Errorf(format, args...)}
}

func (e *ExitCodeError) GetExitCode() ExitCode {
	if e == nil {
		return 0
	}
	return e.code
}

func (e *ExitCodeError) Cause() error {
	return e.error
}

func (e *ExitCodeError) Unwrap() error {
	return e.error
}

// ExitCodeOf returns the exit code for err: 0 for nil, the code of an
// ExitCodeError anywhere in its chain, GenericFailureExitCode otherwise.
func ExitCodeOf(err error) ExitCode {
	if err == nil {
		return 0
	}
	for err != nil {
		if e, ok := err.(*ExitCodeError); ok {
			return e.code
		}
		switch u := err.(type) {
		case interface{ Unwrap() error }:
			err = u.Unwrap()
		case interface{ Cause() error }:
			err = u.Cause()
		default:
			err = nil
		}
	}
	return GenericFailureExitCode
}
