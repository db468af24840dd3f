package adapter

import (
	"github.com/pkg/errors"
)

var (
	ErrUnsupportedModel  = errors.New("unsupported model")
	ErrTransport         = errors.New("transport failure")
	ErrInvalidEncoding   = errors.New("response is not valid UTF-8")
	ErrMalformedResponse = errors.New("malformed response")
	ErrEmptyResponse     = errors.New("no content in response")
)

// Error is returned by every adapter operation. Kind is one of the package sentinels and Err,
// when set, is the underlying cause. Both can be matched with errors.Is.
type Error struct {
	Kind    error
	ModelID string
	Err     error
}

func newError(kind error, modelID string, cause error) *Error {
	return &Error{
		Kind:    kind,
		ModelID: modelID,
		Err:     cause,
	}
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.ModelID != "" {
		msg += " (model " + e.ModelID + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}
