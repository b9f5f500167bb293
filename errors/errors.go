package errors

import (
	"errors"
	"net/http"
)

var (
	NotFound            = HttpError{http.StatusNotFound, errors.New("not found")}
	Duplicate           = HttpError{http.StatusConflict, errors.New("duplicate")}
	ConstraintViolation = HttpError{http.StatusUnprocessableEntity, errors.New("constraint violation")}
	BadRequest          = HttpError{http.StatusBadRequest, errors.New("bad request")}
	Unauthorized        = HttpError{http.StatusUnauthorized, errors.New("unauthorized")}
	Forbidden           = HttpError{http.StatusForbidden, errors.New("forbidden")}
	InternalServerError = HttpError{http.StatusInternalServerError, errors.New("internal server error")}
	BadGateway          = HttpError{http.StatusBadGateway, errors.New("bad gateway")}
	ServiceUnavailable  = HttpError{http.StatusServiceUnavailable, errors.New("service unavailable")}
	Conflict            = HttpError{http.StatusConflict, errors.New("conflict")}
	NoChange            = HttpError{http.StatusNoContent, errors.New("no change")}
)

type HttpError struct {
	Code int
	Err  error
}

func (h HttpError) Unwrap() error {
	return h.Err
}

func (h HttpError) Error() string {
	return h.Err.Error()
}

// FromStatusCode maps the status code returned by a remote service to one of the
// error classes above. Statuses in the 2xx and 3xx range return nil.
func FromStatusCode(code int) error {
	switch {
	case code < http.StatusBadRequest:
		return nil
	case code == http.StatusNotFound:
		return NotFound
	case code == http.StatusUnauthorized:
		return Unauthorized
	case code == http.StatusForbidden:
		return Forbidden
	case code == http.StatusConflict:
		return Conflict
	case code == http.StatusBadRequest, code == http.StatusUnprocessableEntity:
		return BadRequest
	case code == http.StatusBadGateway, code == http.StatusServiceUnavailable, code == http.StatusGatewayTimeout:
		return ServiceUnavailable
	case code >= http.StatusInternalServerError:
		return InternalServerError
	default:
		return HttpError{code, errors.New(http.StatusText(code))}
	}
}

// IsRemote returns true for failures caused by the remote side or the network,
// as opposed to rejections of the caller's input.
func IsRemote(err error) bool {
	e := HttpError{}
	if !errors.As(err, &e) {
		return err != nil
	}
	return e.Code >= http.StatusInternalServerError
}

// Code returns the http status code carried by err, or 500 if there is none.
func Code(err error) int {
	e := HttpError{}
	if errors.As(err, &e) {
		return e.Code
	}
	return http.StatusInternalServerError
}
