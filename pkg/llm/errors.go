package llm

import "errors"

var (
	// ErrInvalidResponse is matched by every *ResponseError.
	ErrInvalidResponse = errors.New("invalid response")
	// ErrEmptyResponse means the reply carried no text.
	ErrEmptyResponse = errors.New("response contains no text")
	// ErrBlocked means the provider withheld the reply, e.g. for safety.
	ErrBlocked = errors.New("response was blocked")
	// ErrNoModel means neither the request nor the client named a model.
	ErrNoModel = errors.New("no model specified")
)

// ResponseError is returned when a reply's text payload cannot be extracted.
// The underlying cause is kept in Err.
type ResponseError struct {
	Err error
}

func (e *ResponseError) Error() string {
	return "invalid response: " + e.Err.Error()
}

func (e *ResponseError) Unwrap() error { return e.Err }

func (e *ResponseError) Is(target error) bool { return target == ErrInvalidResponse }

// asResponseError leaves an existing *ResponseError alone and wraps anything else.
func asResponseError(err error) error {
	var re *ResponseError
	if errors.As(err, &re) {
		return err
	}
	return &ResponseError{Err: err}
}
