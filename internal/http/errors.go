// Package http contains the Fiber handlers for the DuitKu API.
package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/artosku/duitku-backend/internal/ledger"
)

// ledgerError maps the ledger taxonomy onto distinct HTTP responses so
// every failure is distinguishable client-side.
func ledgerError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return fiber.NewError(fiber.StatusUnprocessableEntity, "insufficient wallet balance")
	case errors.Is(err, ledger.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "not found")
	case errors.Is(err, ledger.ErrUnauthorized):
		return fiber.NewError(fiber.StatusForbidden, "not yours")
	case errors.Is(err, ledger.ErrInvalidOperation):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, ledger.ErrStoreUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, "store unavailable, try again")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
