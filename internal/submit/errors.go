package submit

import (
	"strconv"

	"gitlab.com/tozd/go/errors"
)

// StatusError is a non-2xx answer from the endpoint.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	msg := strconv.Itoa(e.StatusCode)
	if e.Status != "" {
		msg += " " + e.Status
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// IsStatusError reports whether err wraps a *StatusError.
func IsStatusError(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}
