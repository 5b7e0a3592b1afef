package custom_err

import "errors"

var (
	// Transaction errors
	ErrNotFound             = errors.New("resource not found")
	ErrDuplicateTransaction = errors.New("duplicate transaction")
	ErrInvalidStatus        = errors.New("invalid transaction status")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
)
