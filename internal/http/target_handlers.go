package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artosku/duitku-backend/internal/auth"
	"github.com/artosku/duitku-backend/internal/ledger"
)

type TargetHandler struct {
	Ledger *ledger.Ledger
}

type targetRequest struct {
	Name     string `json:"name"`
	Total    int64  `json:"total"`
	Deadline string `json:"deadline"`
	Seed     int64  `json:"seed"`
}

type savingRequest struct {
	Amount int64 `json:"amount"`
}

func (h *TargetHandler) Create(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var body targetRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	id, err := h.Ledger.CreateTarget(c.UserContext(), userID, ledger.TargetParams{
		Name:     body.Name,
		Total:    body.Total,
		Deadline: body.Deadline,
		Seed:     body.Seed,
	})
	if err != nil {
		return ledgerError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (h *TargetHandler) List(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	targets, err := h.Ledger.ListTargets(c.UserContext(), userID)
	if err != nil {
		return ledgerError(err)
	}
	return c.JSON(fiber.Map{"targets": targets})
}

func (h *TargetHandler) Get(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	t, err := h.Ledger.GetTarget(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return ledgerError(err)
	}
	return c.JSON(fiber.Map{
		"target":   t,
		"progress": t.Progress(),
	})
}

// AddSaving appends one saving record. Overshooting the goal is fine.
func (h *TargetHandler) AddSaving(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var body savingRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	if err := h.Ledger.AddSaving(c.UserContext(), userID, c.Params("id"), body.Amount); err != nil {
		return ledgerError(err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *TargetHandler) Delete(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	if err := h.Ledger.DeleteTarget(c.UserContext(), userID, c.Params("id")); err != nil {
		return ledgerError(err)
	}
	return c.JSON(fiber.Map{"deleted": true})
}
