package authgw

import "fmt"

// LocalValidationError is returned before any request is made when a
// credential is blank.
type LocalValidationError struct {
	Field string
}

func (e *LocalValidationError) Error() string {
	return fmt.Sprintf("%s cannot be empty or whitespace", e.Field)
}

// TransportError wraps a failure to reach the authority at all.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("auth request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AuthRejectedError is a non-2xx answer from the authority.
type AuthRejectedError struct {
	Status  int
	Message string
}

func (e *AuthRejectedError) Error() string {
	return fmt.Sprintf("login rejected (%d): %s", e.Status, e.Message)
}
