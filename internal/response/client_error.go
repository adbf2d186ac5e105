package response

import (
	"errors"
	"fmt"
)

// Error is a failed client operation. Kind is one of ErrTransport,
// ErrApplication or ErrPrecondition; Code narrows it down.
type Error struct {
	Op         string
	Kind       ErrCode
	Code       ErrCode
	Message    string
	HTTPStatus int
	RequestID  string
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = GetMessage(e.Code)
	}
	if e.Err != nil && e.Kind == ErrTransport {
		msg = fmt.Sprintf("%s (%v)", msg, e.Err)
	}
	if e.Op == "" {
		return msg
	}
	return e.Op + ": " + msg
}

func (e *Error) Unwrap() error { return e.Err }

// Display is the text shown to the operator. Server messages are verbatim.
func (e *Error) Display() string {
	if e.Message != "" {
		return e.Message
	}
	return GetMessage(e.Code)
}

// Transport wraps a network or decoding failure.
func Transport(op string, err error) *Error {
	return &Error{Op: op, Kind: ErrTransport, Code: ErrTransport, Err: err}
}

// Application wraps a {"status":"error"} reply.
func Application(op string, httpStatus int, code ErrCode, message string) *Error {
	if code == "" {
		code = ErrApplication
	}
	return &Error{Op: op, Kind: ErrApplication, Code: code, Message: message, HTTPStatus: httpStatus}
}

// Precondition reports a check that failed before any network call.
func Precondition(op string, code ErrCode, message string) *Error {
	return &Error{Op: op, Kind: ErrPrecondition, Code: code, Message: message}
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool { return kindOf(err) == ErrTransport }

// IsApplication reports whether err is a server-reported failure.
func IsApplication(err error) bool { return kindOf(err) == ErrApplication }

// IsPrecondition reports whether err was raised before any network call.
func IsPrecondition(err error) bool { return kindOf(err) == ErrPrecondition }

// CodeOf returns the specific code of err, or "" if err is not an *Error.
func CodeOf(err error) ErrCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// DisplayOf returns the operator-facing text of any error.
func DisplayOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Display()
	}
	return err.Error()
}

func kindOf(err error) ErrCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
