package service

import "errors"

// ClientError is a validation failure whose message is shown verbatim to
// the end user. Anything else surfacing from a fulfillment flow is an
// internal error and must be masked by the HTTP layer.
type ClientError struct {
	Message string
}

// Error implements the error interface
func (e *ClientError) Error() string {
	return e.Message
}

// NewClientError creates a new ClientError with the given message
func NewClientError(message string) *ClientError {
	return &ClientError{Message: message}
}

// IsClientError reports whether err is (or wraps) a ClientError
func IsClientError(err error) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr)
}
