package ledger

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/evgeny-myasishchev/bank-ledger/pkg/dal"
)

// Kind classifies ledger errors
type Kind string

// Error kinds
const (
	KindNotFound          Kind = "NotFound"
	KindUnauthorized      Kind = "Unauthorized"
	KindInsufficientFunds Kind = "InsufficientFunds"
	KindInvalidInput      Kind = "InvalidInput"
	KindStoreFailure      Kind = "StoreFailure"
	KindConflict          Kind = "Conflict"
)

// Error is a structured ledger error
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%v: %v: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Message)
}

// Unwrap returns the underlying error if any
func (e *Error) Unwrap() error {
	return e.cause
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of a ledger error or empty string for other errors.
// Wrapped errors are unwrapped
func KindOf(err error) Kind {
	var ledgerErr *Error
	if errors.As(err, &ledgerErr) {
		return ledgerErr.Kind
	}
	return ""
}

func storeError(err error, accountID string, action string) error {
	switch errors.Cause(err) {
	case dal.ErrNotFound:
		return newError(KindNotFound, "Account %v not found", accountID)
	case dal.ErrDuplicate:
		return newError(KindConflict, "Account %v already exists", accountID)
	case dal.ErrVersionConflict:
		return newError(KindConflict, "Account %v was modified concurrently", accountID)
	}
	return &Error{
		Kind:    KindStoreFailure,
		Message: fmt.Sprintf("Failed to %v", action),
		cause:   err,
	}
}
