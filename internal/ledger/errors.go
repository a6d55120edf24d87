package ledger

import (
	"errors"
	"fmt"

	"github.com/artosku/duitku-backend/internal/store"
)

var (
	// ErrNotFound: the wallet, transaction, debt or target does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidAmount: non-positive amount, or one exceeding an allowed bound.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientFunds: the wallet balance cannot cover the expense.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidOperation: the operation is not allowed for this record,
	// e.g. deleting an income transaction.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrUnauthorized: the record belongs to a different user.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrStoreUnavailable: transient store failure; the caller may retry.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// wrapStore translates store-level failures into the ledger taxonomy while
// passing ledger sentinels through untouched.
func wrapStore(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrUnavailable):
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	default:
		return err
	}
}
