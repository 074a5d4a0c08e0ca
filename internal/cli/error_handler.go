package cli

import (
	stderrors "errors"
	"fmt"

	"task-manager/internal/errors"
	"task-manager/internal/validation"
)

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle provides user-friendly error messages for validation and other errors
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %w", operation, userError{message: eh.message(err), cause: err})
}

// HandleSimple provides user-friendly error messages without operation context
func (eh *ErrorHandler) HandleSimple(err error) error {
	if err == nil {
		return nil
	}
	return userError{message: eh.message(err), cause: err}
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	if validation.IsValidationError(err) {
		return true
	}
	return errors.IsErrorType(err, errors.ErrorTypeValidation)
}

// IsNotFoundError checks if an error is a not found error
func (eh *ErrorHandler) IsNotFoundError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeNotFound)
}

// IsPersistenceError checks if an error came from the storage layer
func (eh *ErrorHandler) IsPersistenceError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypePersistence) ||
		errors.IsErrorType(err, errors.ErrorTypeTimeout)
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	if validation.IsValidationError(err) && !errors.IsAppError(err) {
		return "VALIDATION_FAILED"
	}
	return errors.GetErrorCode(err)
}

// Exit statuses returned by ExitCode.
const (
	ExitFailure     = 1
	ExitInvalidUse  = 2
	ExitNotFound    = 3
	ExitUnavailable = 4
)

// ExitCode maps a command error to the process exit status.
func (eh *ErrorHandler) ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case eh.IsValidationError(err), errors.IsErrorType(err, errors.ErrorTypeInvalidInput):
		return ExitInvalidUse
	case eh.IsNotFoundError(err):
		return ExitNotFound
	case eh.IsPersistenceError(err), errors.IsErrorType(err, errors.ErrorTypeUnavailable):
		return ExitUnavailable
	default:
		return ExitFailure
	}
}

func (eh *ErrorHandler) message(err error) string {
	if _, ok := errors.AsAppError(err); ok {
		return errors.GetUserMessage(err)
	}
	var validationErr *validation.ValidationError
	if stderrors.As(err, &validationErr) {
		return validationErr.GetUserFriendlyMessage()
	}
	return err.Error()
}

// userError shows a friendly message while keeping the cause for errors.Is and errors.As.
type userError struct {
	message string
	cause   error
}

func (e userError) Error() string { return e.message }

func (e userError) Unwrap() error { return e.cause }
