package quera

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrAuthenticationRequired means there is no valid session to make the request with.
var ErrAuthenticationRequired = fmt.Errorf("quera: authentication required")

// ErrAuthentication means the platform rejected the given credentials.
var ErrAuthentication = fmt.Errorf("quera: username or password is incorrect")

type CsrfNotFoundError struct {
	Page string
}

func (e *CsrfNotFoundError) Error() string {
	return fmt.Sprintf("quera: could not find csrf token in %s", e.Page)
}

// ParseError means a page did not have the structure it is expected to have,
// which usually means the site changed.
type ParseError struct {
	Page   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("quera: parse %s: %s: %s", e.Page, e.Reason, e.Err.Error())
	}
	return fmt.Sprintf("quera: parse %s: %s", e.Page, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type InvalidFileTypeError struct {
	// Requested is the name that failed to resolve, empty when nothing
	// could be inferred from the file extension.
	Requested string
	Inferred  bool
	Valid     []string
	// Suggestion is the closest valid name, may be empty.
	Suggestion string
}

func (e *InvalidFileTypeError) Error() string {
	var msg string
	switch {
	case e.Requested == "":
		msg = "quera: could not infer the file type from the file extension"
	case e.Inferred:
		msg = fmt.Sprintf("quera: inferred file type %q is not accepted by this problem", e.Requested)
	default:
		msg = fmt.Sprintf("quera: invalid file type %q", e.Requested)
	}
	return fmt.Sprintf("%s, valid types: %s", msg, strings.Join(e.Valid, ", "))
}

// SubmissionError is a mutating request that was answered with neither
// success nor a redirect.
type SubmissionError struct {
	Endpoint   string
	StatusCode int
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("quera: %s responded with status %d", e.Endpoint, e.StatusCode)
}

type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("quera: %s: %s", e.Op, e.Err.Error())
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request timed out, such requests may be retried.
func (e *NetworkError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}
