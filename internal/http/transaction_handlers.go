package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artosku/duitku-backend/internal/auth"
	"github.com/artosku/duitku-backend/internal/ledger"
)

type TransactionHandler struct {
	Ledger *ledger.Ledger
}

type expenseRequest struct {
	WalletID string `json:"wallet_id"`
	Amount   int64  `json:"amount"`
	Category string `json:"category"`
	Title    string `json:"title"`
	Date     string `json:"date"`
}

type incomeRequest struct {
	Source   string `json:"source"`
	Icon     string `json:"icon"`
	Amount   int64  `json:"amount"`
	Category string `json:"category"`
	Title    string `json:"title"`
}

func (h *TransactionHandler) CreateExpense(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var body expenseRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	txnID, err := h.Ledger.RecordExpense(c.UserContext(), userID, ledger.ExpenseParams{
		WalletID: body.WalletID,
		Amount:   body.Amount,
		Category: body.Category,
		Title:    body.Title,
		Date:     body.Date,
	})
	if err != nil {
		return ledgerError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": txnID})
}

func (h *TransactionHandler) CreateIncome(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var body incomeRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	walletID, txnID, err := h.Ledger.RecordIncome(c.UserContext(), userID, ledger.IncomeParams{
		Source:   body.Source,
		Icon:     body.Icon,
		Amount:   body.Amount,
		Category: body.Category,
		Title:    body.Title,
	})
	if err != nil {
		return ledgerError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": txnID, "wallet_id": walletID})
}

func (h *TransactionHandler) List(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	txns, err := h.Ledger.ListTransactions(c.UserContext(), userID)
	if err != nil {
		return ledgerError(err)
	}
	return c.JSON(fiber.Map{"transactions": txns})
}

// Delete removes an expense and restores its wallet balance. Deleting an
// already-gone transaction succeeds; income deletion depends on policy.
func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	if err := h.Ledger.DeleteTransaction(c.UserContext(), userID, c.Params("id")); err != nil {
		return ledgerError(err)
	}
	return c.JSON(fiber.Map{"deleted": true})
}
