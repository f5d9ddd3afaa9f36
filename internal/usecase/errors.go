package usecase

import "errors"

// ValidationError carries the user-facing message for rejected input.
// Callers branch on the kind via IsValidation instead of matching strings.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

func validation(msg string) error { return &ValidationError{Msg: msg} }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// TxError marks a storage transaction that failed to begin or commit.
// It fails a whole bulk batch, unlike per-item validation errors, which
// are collected and returned alongside the successes.
type TxError struct{ Err error }

func (e *TxError) Error() string { return "transaction failed: " + e.Err.Error() }
func (e *TxError) Unwrap() error { return e.Err }

var (
	// ErrNotFound is returned by repositories when a looked-up row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned by customer repositories on a unique-email conflict.
	ErrEmailTaken = errors.New("email already exists")
)
