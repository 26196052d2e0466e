package youtube

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

//////////////////////////////////////////////////

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrMissingMarker    = errors.New("content island marker not found")
	ErrMissingContents  = errors.New("content island has no contents")
	ErrTooManyRedirects = errors.New("too many redirects")
	ErrBadStatus        = errors.New("unexpected HTTP status")
)

// ValidationError is returned before any network access when the arguments
// of a call cannot be used.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid " + strconv.Quote(e.Field) + ": " + e.Reason
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// FetchError wraps a transport failure or a non-success HTTP status.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	var s strings.Builder

	s.WriteString("failed to fetch url ")
	s.WriteString(strconv.Quote(e.URL))
	if e.StatusCode != 0 {
		s.WriteString(" (status ")
		s.WriteString(strconv.Itoa(e.StatusCode))
		s.WriteString(")")
	}
	if e.Err != nil {
		s.WriteString(": ")
		s.WriteString(e.Err.Error())
	}

	return s.String()
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports that the content island could not be isolated or
// decoded.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("failed to parse contents: %v", e.Err)
	}

	return fmt.Sprintf("failed to parse contents of %q: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
