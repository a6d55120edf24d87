package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artosku/duitku-backend/internal/auth"
	"github.com/artosku/duitku-backend/internal/ledger"
)

type DebtHandler struct {
	Ledger *ledger.Ledger
}

type debtRequest struct {
	Title     string `json:"title"`
	Amount    int64  `json:"amount"`
	DueDate   string `json:"due_date"`
	Direction string `json:"direction"`
}

type installmentRequest struct {
	Amount int64 `json:"amount"`
}

type paidRequest struct {
	Paid bool `json:"paid"`
}

func (h *DebtHandler) Create(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var body debtRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	id, err := h.Ledger.AddDebt(c.UserContext(), userID, ledger.DebtParams{
		Title:     body.Title,
		Amount:    body.Amount,
		DueDate:   body.DueDate,
		Direction: body.Direction,
	})
	if err != nil {
		return ledgerError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (h *DebtHandler) List(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	debts, err := h.Ledger.ListDebts(c.UserContext(), userID)
	if err != nil {
		return ledgerError(err)
	}
	return c.JSON(fiber.Map{"debts": debts})
}

// PayInstallment pays part of a debt down. Overpaying past the remaining
// amount is rejected and leaves the debt untouched.
func (h *DebtHandler) PayInstallment(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var body installmentRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	if err := h.Ledger.PayInstallment(c.UserContext(), userID, c.Params("id"), body.Amount); err != nil {
		return ledgerError(err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *DebtHandler) SetPaid(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var body paidRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	if err := h.Ledger.SetDebtPaid(c.UserContext(), userID, c.Params("id"), body.Paid); err != nil {
		return ledgerError(err)
	}
	return c.JSON(fiber.Map{"ok": true})
}
