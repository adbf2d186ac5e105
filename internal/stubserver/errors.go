package stubserver

import (
	"fmt"
	"net/http"

	"github.com/stemsi/seatdesk/internal/response"
)

// storeError is a failure the handlers report with its own message.
type storeError struct {
	status int
	code   response.ErrCode
	msg    string
}

func (e *storeError) Error() string { return e.msg }

func notFound(format string, args ...interface{}) error {
	return &storeError{http.StatusNotFound, response.ErrNotFound, fmt.Sprintf(format, args...)}
}

func conflict(format string, args ...interface{}) error {
	return &storeError{http.StatusConflict, response.ErrConflict, fmt.Sprintf(format, args...)}
}

func invalid(code response.ErrCode, format string, args ...interface{}) error {
	return &storeError{http.StatusBadRequest, code, fmt.Sprintf(format, args...)}
}
