package summary

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/artosku/duitku-backend/internal/auth"
)

type Handler struct {
	Service Service
}

func (h Handler) GetSummary(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	month := strings.TrimSpace(c.Query("month")) // YYYY-MM or empty

	s, err := h.Service.GetByUser(c.UserContext(), userID, month)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch summary: "+err.Error())
	}

	return c.JSON(s)
}
