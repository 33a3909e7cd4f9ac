package services

import "errors"

// ErrorKind classifies a service failure so controllers can map it onto an
// HTTP status without inspecting message text.
type ErrorKind string

const (
	KindValidation ErrorKind = "VALIDATION_ERROR"
	KindNotFound   ErrorKind = "NOT_FOUND"
	KindForbidden  ErrorKind = "FORBIDDEN"
	KindConflict   ErrorKind = "CONFLICT"
)

// ServiceError is the error type returned by the core services. NotFound
// deliberately covers both "absent" and "present but the caller is not a
// party to it", so existence is never leaked to outsiders.
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error { return e.Cause }

// Constructors
func ValidationError(message string) error {
	return &ServiceError{Kind: KindValidation, Message: message}
}

func NotFoundError(message string) error {
	return &ServiceError{Kind: KindNotFound, Message: message}
}

func ForbiddenError(message string) error {
	return &ServiceError{Kind: KindForbidden, Message: message}
}

func ConflictError(message string) error {
	return &ServiceError{Kind: KindConflict, Message: message}
}

// AsServiceError unwraps err into a *ServiceError if it is one
func AsServiceError(err error) (*ServiceError, bool) {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr, true
	}
	return nil, false
}
