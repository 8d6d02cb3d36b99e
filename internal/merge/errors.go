package merge

import (
	"strconv"

	"gitlab.com/tozd/go/errors"
)

// ParseError reports an input that is not a recoverable PDF.
type ParseError struct {
	// Index is the position of the offending input.
	Index int
	Err   error
}

func (e *ParseError) Error() string {
	return "document " + strconv.Itoa(e.Index+1) + " is not a valid PDF: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsParseError reports whether err (or anything it wraps) is a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
