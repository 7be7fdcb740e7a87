package errs

import "errors"

// Domain-specific sentinel errors shared by the usecase and handler layers
var (
	// Table errors
	ErrTableNotFound = errors.New("table not found")

	// Idempotency errors
	ErrIdempotencyKeyRequired = errors.New("idempotency key required")
	ErrIdempotencyInProgress  = errors.New("idempotency in progress")
	ErrIdempotencyMismatch    = errors.New("idempotency key reused with different parameters")

	// Notification errors
	ErrNotificationNotFound = errors.New("notification not found")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
