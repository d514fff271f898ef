package anime

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"jikanproxy/internal/platform/jikan"
)

var (
	ErrNotFound            = errors.New("anime not found")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrInvalidInput        = errors.New("invalid input")
)

// Error is the failure returned by Service operations. Err is one of the
// sentinel kinds above; Cause is the underlying failure, if any.
type Error struct {
	Status  int
	Message string
	Details json.RawMessage
	Err     error
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil && e.Cause.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

func notFoundError(id int) *Error {
	return &Error{
		Status:  http.StatusNotFound,
		Message: "Anime not found",
		Err:     ErrNotFound,
		Cause:   fmt.Errorf("no record for id %d", id),
	}
}

func invalidInputError(message string) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Message: message,
		Err:     ErrInvalidInput,
	}
}

// upstreamError converts any upstream failure into an *Error, keeping the
// upstream status, message and details when they are available.
func upstreamError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	out := &Error{
		Status:  http.StatusInternalServerError,
		Message: err.Error(),
		Err:     ErrUpstreamUnavailable,
		Cause:   err,
	}

	var jerr *jikan.Error
	if errors.As(err, &jerr) {
		if jerr.Status != 0 {
			out.Status = jerr.Status
		}
		if jerr.Message != "" {
			out.Message = jerr.Message
		}
		out.Details = jerr.Details
	}
	return out
}

// StatusOf returns the HTTP status carried by err, or 500.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Status != 0 {
		return e.Status
	}
	return http.StatusInternalServerError
}
