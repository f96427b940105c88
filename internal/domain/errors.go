package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("resource not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserInactive         = errors.New("user is inactive")
	ErrDuplicateUsername    = errors.New("username already exists")
	ErrUnknownCapability    = errors.New("unknown capability")
	ErrValidation           = errors.New("validation failed")
	ErrInvalidTransition    = errors.New("estimation status does not allow this action")
	ErrInvoiceAlreadyExists = errors.New("an invoice already exists for this estimation")
	ErrInvoiceApproved      = errors.New("invoice is already approved")
	ErrLeadLocked           = errors.New("lead is won and can no longer be edited")
	ErrClientInUse          = errors.New("client is referenced by leads or estimations")
	ErrDuplicateNumber      = errors.New("document number already issued")
	ErrPaymentConfirmed     = errors.New("payment is already confirmed")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrFileTooLarge         = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed         = errors.New("file upload to storage failed")
	ErrNoRecipient          = errors.New("client has no email address")
)

// ValidationError describes a single rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is lets callers match any ValidationError with errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
