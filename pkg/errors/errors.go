// Package errors defines the coded errors blockweek returns.
//
// Every failure the engine reports carries a [Code]. The CLI prints it,
// the HTTP server turns it into a status with [HTTPStatus], and callers
// test for it anywhere in a wrapped chain:
//
//	if errors.Is(err, errors.ErrCodeInvalidInterval) {
//	    // reject the block
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
)

// Code classifies a failure. Callers branch on it instead of matching
// message text.
type Code string

const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidInterval Code = "INVALID_INTERVAL"
	ErrCodeInvalidDay      Code = "INVALID_DAY"
	ErrCodeInvalidClock    Code = "INVALID_CLOCK"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidStrategy Code = "INVALID_STRATEGY"

	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Optimizer failures are recovered by keeping initial widths.
	ErrCodeSolverFailed Code = "SOLVER_FAILED"
	ErrCodeTimeout      Code = "TIMEOUT"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

var statusByCode = map[Code]int{
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidInterval: http.StatusBadRequest,
	ErrCodeInvalidDay:      http.StatusBadRequest,
	ErrCodeInvalidClock:    http.StatusBadRequest,
	ErrCodeInvalidFormat:   http.StatusBadRequest,
	ErrCodeInvalidStrategy: http.StatusBadRequest,
	ErrCodeFileNotFound:    http.StatusNotFound,
	ErrCodeTimeout:         http.StatusGatewayTimeout,
	ErrCodeUnsupported:     http.StatusNotImplemented,
}

// Status is the HTTP status for c. Unknown codes map to 500.
func (c Code) Status() int {
	if s, ok := statusByCode[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error carries a Code, a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause == nil {
		return msg
	}
	return msg + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message and no cause.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// codes lists every Code found in err's chain, outermost first.
func codes(err error) []Code {
	var out []Code
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			break
		}
		out = append(out, e.Code)
		err = e.Cause
	}
	return out
}

// Is reports whether any *Error in err's chain carries code.
func Is(err error, code Code) bool {
	return slices.Contains(codes(err), code)
}

// GetCode returns the outermost Code in err's chain, or "".
func GetCode(err error) Code {
	if c := codes(err); len(c) > 0 {
		return c[0]
	}
	return ""
}

// UserMessage strips the code prefix from coded errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps err to a response status through its outermost Code.
func HTTPStatus(err error) int {
	return GetCode(err).Status()
}
