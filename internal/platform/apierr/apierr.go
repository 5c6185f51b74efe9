package apierr

import (
	"fmt"
	"net/http"
)

// Wire error codes of the purchase API. Handlers and the domain error
// mapper agree on these strings; clients branch on them.
const (
	CodeInvalidRequest      = "invalid_request"
	CodeSessionNotFound     = "session_not_found"
	CodeInvalidSessionState = "invalid_session_state"
	CodeInternal            = "internal_error"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// BadRequest marks err as the caller's fault.
func BadRequest(err error) *Error {
	return New(http.StatusBadRequest, CodeInvalidRequest, err)
}

// SessionNotFound marks err as a lookup of an unknown purchase session.
func SessionNotFound(err error) *Error {
	return New(http.StatusNotFound, CodeSessionNotFound, err)
}

// InvalidSessionState marks err as an operation the session's current
// state does not accept.
func InvalidSessionState(err error) *Error {
	return New(http.StatusConflict, CodeInvalidSessionState, err)
}

// Internal marks err as a server-side failure.
func Internal(err error) *Error {
	return New(http.StatusInternalServerError, CodeInternal, err)
}
