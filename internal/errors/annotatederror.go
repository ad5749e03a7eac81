// Package errors annotates errors with structured slog attributes and the source location where they were
// created or wrapped. It re-exports the standard library helpers so that callers need only one errors import.
package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
)

//nolint:gochecknoglobals // re-exported from the standard library.
var (
	Is     = stderrors.Is
	As     = stderrors.As
	Unwrap = stderrors.Unwrap
	Join   = stderrors.Join
)

type annotatedError struct {
	msg   string
	err   error
	attrs []slog.Attr
	// source is the file:line where the error was created or wrapped.
	source string
}

func (e *annotatedError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

// NewSentinel creates an error without source location meant to be compared with [Is].
func NewSentinel(msg string) error {
	return stderrors.New(msg) //nolint:err113 // this is the sentinel constructor.
}

// New creates an error annotated with attrs and the caller's source location.
func New(msg string, attrs ...slog.Attr) error {
	return &annotatedError{msg: msg, err: nil, attrs: attrs, source: callerSource(2)} //nolint:mnd // skip New.
}

// Wrap annotates err with msg, attrs and the caller's source location. Wrapping a nil error returns nil.
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	return &annotatedError{msg: msg, err: err, attrs: attrs, source: callerSource(2)} //nolint:mnd // skip Wrap.
}

// DecoratePanic converts a recovered panic value into an error pointing at the panicking line.
//
// It must be called directly from the deferred function that recovered.
func DecoratePanic(excp any) error {
	if excp == nil {
		return nil
	}
	pcs := make([]uintptr, 32)   //nolint:mnd // deep enough for panics in handlers.
	n := runtime.Callers(2, pcs) //nolint:mnd // skip runtime.Callers and DecoratePanic.
	frames := runtime.CallersFrames(pcs[:n])
	var (
		source     string
		afterPanic bool
	)
	for {
		frame, more := frames.Next()
		if source == "" {
			source = frame.File + ":" + strconv.Itoa(frame.Line)
		}
		if afterPanic && !strings.HasPrefix(frame.Function, "runtime.") {
			source = frame.File + ":" + strconv.Itoa(frame.Line)
			break
		}
		if frame.Function == "runtime.gopanic" {
			afterPanic = true
		}
		if !more {
			break
		}
	}
	var cause error
	if err, ok := excp.(error); ok {
		cause = err
	} else {
		cause = stderrors.New(fmt.Sprint(excp)) //nolint:err113 // panic value.
	}
	return &annotatedError{msg: "panic", err: cause, attrs: nil, source: source}
}

// SlogError returns err as an "error" group containing the message, collected annotations and source location
// of the innermost annotated error.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	var (
		annotations []any
		source      string
	)
	walk(err, func(ae *annotatedError) {
		for _, a := range ae.attrs {
			annotations = append(annotations, a)
		}
		if ae.source != "" {
			source = ae.source
		}
	})
	attrs := []any{slog.String("message", err.Error())}
	if len(annotations) > 0 {
		attrs = append(attrs, slog.Group("annotations", annotations...))
	}
	if source != "" {
		attrs = append(attrs, slog.String("source", source))
	}
	return slog.Group("error", attrs...)
}

// walk visits annotated errors in the chain from outermost to innermost, following joined errors too.
func walk(err error, visit func(*annotatedError)) {
	if err == nil {
		return
	}
	if ae, ok := err.(*annotatedError); ok { //nolint:errorlint // we walk the chain manually.
		visit(ae)
	}
	switch u := err.(type) { //nolint:errorlint // we walk the chain manually.
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			walk(e, visit)
		}
	case interface{ Unwrap() error }:
		walk(u.Unwrap(), visit)
	}
}

func callerSource(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	return file + ":" + strconv.Itoa(line)
}
