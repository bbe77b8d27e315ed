// Package errors is the error envelope of REST API responses.
//
// Every failed request is answered with
//
//	{"message": {"reason": "...", "advice": "...", "see": "..."}}
//
// where advice and see are optional.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	kdb "github.com/opst/voipinv/pkg/db"
)

type ErrorResponse struct {
	Message ErrorMessage `json:"message"`
}

// ErrorMessage is the body of an error response.
//
// Cause is kept for logging and never sent to clients.
type ErrorMessage struct {
	Reason string `json:"reason"`
	Advice string `json:"advice,omitempty"`
	See    string `json:"see,omitempty"`
	Cause  error  `json:"-"`
}

func (em *ErrorMessage) UnmarshalJSON(b []byte) error {
	type plain ErrorMessage
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if _, ok := raw["reason"]; !ok {
		return fmt.Errorf(`error message: "reason" is missing`)
	}
	p := plain{}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*em = ErrorMessage(p)
	return nil
}

func (em ErrorMessage) Error() string {
	msg := em.Reason
	if em.Advice != "" {
		msg += " (" + em.Advice + ")"
	}
	if em.Cause != nil {
		msg += ": " + em.Cause.Error()
	}
	return msg
}

func (em ErrorMessage) Unwrap() error {
	return em.Cause
}

// HTTPError makes echo's HTTP error carrying em both as response and as internal error.
func (em ErrorMessage) HTTPError(code int) *echo.HTTPError {
	return echo.NewHTTPError(code, em).SetInternal(em)
}

func NotFound() *echo.HTTPError {
	return ErrorMessage{Reason: "not found"}.HTTPError(http.StatusNotFound)
}

func BadRequest(advice string, cause error) *echo.HTTPError {
	return ErrorMessage{Reason: "bad request", Advice: advice, Cause: cause}.
		HTTPError(http.StatusBadRequest)
}

func ServiceUnavailable(advice string, cause error) *echo.HTTPError {
	return ErrorMessage{Reason: "service is not ready", Advice: advice, Cause: cause}.
		HTTPError(http.StatusServiceUnavailable)
}

func InternalServerError(cause error) *echo.HTTPError {
	return ErrorMessage{Reason: "unexpected error", Cause: cause}.
		HTTPError(http.StatusInternalServerError)
}

// FromDB converts errors from stores into HTTP errors.
//
//   - kdb.InvalidError: 400, advising which field is wrong
//   - kdb.ErrInvalid: 400
//   - kdb.ErrMissing: 404
//   - kdb.ErrConflict: 409
//   - others: 500
func FromDB(err error) *echo.HTTPError {
	if invalid := new(kdb.InvalidError); errors.As(err, &invalid) {
		return ErrorMessage{
			Reason: "invalid value",
			Advice: fmt.Sprintf("%s: %s", invalid.Field, invalid.Reason),
			Cause:  err,
		}.HTTPError(http.StatusBadRequest)
	}

	switch {
	case errors.Is(err, kdb.ErrMissing):
		return ErrorMessage{Reason: "not found", Cause: err}.HTTPError(http.StatusNotFound)
	case errors.Is(err, kdb.ErrInvalid):
		return BadRequest("check your request", err)
	case errors.Is(err, kdb.ErrConflict):
		return ErrorMessage{
			Reason: "conflicting with an existing record",
			Advice: "a field required to be unique is already used",
			Cause:  err,
		}.HTTPError(http.StatusConflict)
	}
	return InternalServerError(err)
}
