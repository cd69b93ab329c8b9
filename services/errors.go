package services

import (
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskflow-project/dashboard-service/logging"
	"taskflow-project/dashboard-service/repositories"
)

type ErrorCode string

const (
	ErrorCodeInvalidIdentifier ErrorCode = "INVALID_IDENTIFIER"
	ErrorCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrorCodeStoreUnavailable  ErrorCode = "STORE_UNAVAILABLE"
	ErrorCodeValidation        ErrorCode = "VALIDATION_ERROR"
	ErrorCodeConflict          ErrorCode = "CONFLICT"
	ErrorCodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	ErrorCodeForbidden         ErrorCode = "FORBIDDEN"
	ErrorCodeUnspecified       ErrorCode = "UNSPECIFIED"
)

type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func (e *Error) Error() string {
	return e.Message
}

// CodeOf returns the code carried by err, UNSPECIFIED for foreign errors.
func CodeOf(err error) ErrorCode {
	var serviceErr *Error
	if errors.As(err, &serviceErr) {
		return serviceErr.Code
	}
	return ErrorCodeUnspecified
}

// storeError turns a repository error into a service error. what names
// the entity for NOT_FOUND messages.
func storeError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return NewError(ErrorCodeNotFound, what+" not found")
	case errors.Is(err, repositories.ErrAlreadyExists):
		return NewError(ErrorCodeConflict, what+" already exists")
	case errors.Is(err, repositories.ErrUnavailable):
		return NewError(ErrorCodeStoreUnavailable, "store unavailable")
	}
	logging.Logger.Errorf("Event ID: UNSPECIFIED_STORE_ERROR, Description: %v", err)
	return NewError(ErrorCodeUnspecified, "failed to access "+what)
}

func parseID(hex, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, NewError(ErrorCodeInvalidIdentifier, "invalid "+what+" id")
	}
	return id, nil
}

func validationError(err error) error {
	return NewError(ErrorCodeValidation, errors.Wrap(err, "validation failed").Error())
}
