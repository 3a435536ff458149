package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies a failed command. A failed command leaves engine state untouched.
type ErrorKind int

const (
	DuplicatePid ErrorKind = iota + 1
	UnknownPid
	NoRunningProcess
	EmptyBlockedQueue
	IndexOutOfRange
	DivisionByZero
	MalformedCommand
	// Returned for every command received after Summarize.
	Terminated
)

var kindNames = map[ErrorKind]string{
	DuplicatePid:      "DuplicatePid",
	UnknownPid:        "UnknownPid",
	NoRunningProcess:  "NoRunningProcess",
	EmptyBlockedQueue: "EmptyBlockedQueue",
	IndexOutOfRange:   "IndexOutOfRange",
	DivisionByZero:    "DivisionByZero",
	MalformedCommand:  "MalformedCommand",
	Terminated:        "Terminated",
}

func (k ErrorKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// SchedError is the typed failure returned by the scheduler engine and by
// the command parser.
type SchedError struct {
	Kind ErrorKind
	Msg  string
}

func (e *SchedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func NewError(kind ErrorKind, format string, args ...interface{}) error {
	return &SchedError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first SchedError in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var se *SchedError
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
