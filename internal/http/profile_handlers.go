package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/artosku/duitku-backend/internal/auth"
	"github.com/artosku/duitku-backend/internal/debt"
	"github.com/artosku/duitku-backend/internal/ledger"
	"github.com/artosku/duitku-backend/internal/store"
	"github.com/artosku/duitku-backend/internal/target"
)

type ProfileHandler struct {
	Store  store.Store
	Ledger *ledger.Ledger
}

type profileUpdateRequest struct {
	Name      string `json:"name"`
	Gender    string `json:"gender"`
	Birthdate string `json:"birthdate"`
}

type passwordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var body profileUpdateRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	fields := map[string]any{}
	if name := strings.TrimSpace(body.Name); name != "" {
		fields["name"] = name
	}
	if body.Gender != "" {
		fields["gender"] = body.Gender
	}
	if body.Birthdate != "" {
		fields["birthdate"] = body.Birthdate
	}
	if len(fields) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "nothing to update")
	}

	if err := h.Store.Update(c.UserContext(), UsersCollection, userID, fields); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not update profile")
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *ProfileHandler) ChangePassword(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var body passwordChangeRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if len(body.NewPassword) < 8 {
		return fiber.NewError(fiber.StatusBadRequest, "password must be at least 8 characters")
	}

	ctx := c.UserContext()
	doc, err := h.Store.Get(ctx, UsersCollection, userID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}
	hash := store.StringField(doc.Fields, "passwordHash")
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(body.CurrentPassword)) != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "wrong password")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
	if err := h.Store.Update(ctx, UsersCollection, userID, map[string]any{"passwordHash": string(hashed)}); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not update password")
	}
	return c.JSON(fiber.Map{"ok": true})
}

// DeleteAccount removes the user and everything they own. Wallets go
// through the ledger cascade so transaction history goes with them.
func (h *ProfileHandler) DeleteAccount(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	ctx := c.UserContext()

	wallets, err := h.Ledger.ListWallets(ctx, userID)
	if err != nil {
		return ledgerError(err)
	}
	for _, w := range wallets {
		if err := h.Ledger.DeleteWallet(ctx, userID, w.ID); err != nil {
			return ledgerError(err)
		}
	}

	for _, coll := range []string{debt.Collection, target.Collection} {
		docs, err := h.Store.QueryByField(ctx, coll, "userId", userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete account data")
		}
		for _, doc := range docs {
			if err := h.Store.Delete(ctx, coll, doc.ID); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "could not delete account data")
			}
		}
	}

	if err := h.Store.Delete(ctx, UsersCollection, userID); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not delete account")
	}
	return c.JSON(fiber.Map{"deleted": true})
}
