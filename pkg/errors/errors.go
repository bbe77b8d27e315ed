// Package errors annotates errors with the function, file and line where they are passed through.
//
//	if err != nil {
//		return xe.Wrap(err)
//	}
//
// A wrapped error reads like
//
//	github.com/opst/voipinv/pkg/db/postgres.New (/.../database.go:61): (message of err)
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// Located is an error annotated with a source location.
type Located struct {
	Func string
	File string
	Line int

	// Note is an optional description of what was going on.
	Note string

	err error
}

func (e *Located) Error() string {
	loc := fmt.Sprintf("%s (%s:%d)", e.Func, e.File, e.Line)
	if e.Note != "" {
		return fmt.Sprintf("%s [%s]: %s", loc, e.Note, e.err)
	}
	return fmt.Sprintf("%s: %s", loc, e.err)
}

func (e *Located) Unwrap() error {
	return e.err
}

// New creates an error annotated with the location of the caller.
func New(text string) error {
	return locate(errors.New(text), "")
}

// Wrap annotates err with the location of the caller. Wrap(nil) is nil.
func Wrap(err error) error {
	return locate(err, "")
}

// WrapWithNote is Wrap with a note. WrapWithNote(_, nil) is nil.
func WrapWithNote(note string, err error) error {
	return locate(err, note)
}

// locate should be called directly from exported functions.
func locate(err error, note string) error {
	if err == nil {
		return nil
	}
	located := &Located{Func: "?", File: "?", Line: -1, Note: note, err: err}

	pcs := make([]uintptr, 1)
	// skip runtime.Callers, locate and the exported caller.
	if runtime.Callers(3, pcs) == 0 {
		return located
	}
	frame, _ := runtime.CallersFrames(pcs).Next()
	if frame.Function != "" {
		located.Func = frame.Function
	}
	if frame.File != "" {
		located.File = frame.File
		located.Line = frame.Line
	}
	return located
}
