package common

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// FetchErrorKind names the class of failure behind a FetchError.
type FetchErrorKind string

const (
	FetchErrorTimeout    FetchErrorKind = "Timeout"
	FetchErrorConnection FetchErrorKind = "ConnectionError"
	FetchErrorDecode     FetchErrorKind = "DecodeError"
	FetchErrorInvalidURL FetchErrorKind = "InvalidURL"
	FetchErrorParse      FetchErrorKind = "ParseError"
	FetchErrorCanceled   FetchErrorKind = "Canceled"
	FetchErrorBlocked    FetchErrorKind = "RobotsBlocked"
)

// FetchError is returned when a page could not be retrieved or read.
type FetchError struct {
	URL  string
	Kind FetchErrorKind
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s failed (%s): %v", e.URL, e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch %s failed (%s)", e.URL, e.Kind)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError wraps err with the given kind.
func NewFetchError(url string, kind FetchErrorKind, err error) *FetchError {
	return &FetchError{URL: url, Kind: kind, Err: err}
}

// NewFetchErrorFromCause picks the kind by inspecting err.
func NewFetchErrorFromCause(url string, err error) *FetchError {
	return NewFetchError(url, ClassifyNetworkError(err), err)
}

// ClassifyNetworkError maps a transport error to a FetchErrorKind.
func ClassifyNetworkError(err error) FetchErrorKind {
	if errors.Is(err, context.Canceled) {
		return FetchErrorCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrTimeout) {
		return FetchErrorTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FetchErrorTimeout
	}
	return FetchErrorConnection
}

// FetchErrorKindOf returns the kind of the first FetchError in err's chain,
// falling back to classifying err itself.
func FetchErrorKindOf(err error) FetchErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ClassifyNetworkError(err)
}
