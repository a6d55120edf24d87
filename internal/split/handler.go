package split

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type CalculateRequest struct {
	Mode         string   `json:"mode"` // equal | custom
	Participants []string `json:"participants"`
	Items        []Item   `json:"items"`
	TaxPercent   float64  `json:"tax_percent"`
}

// CalculateHandler is stateless: nothing about a split is persisted.
func CalculateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CalculateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid body")
		}

		result, err := Calculate(req.Mode, req.Participants, req.Items, req.TaxPercent)
		if err != nil {
			if errors.Is(err, ErrNoParticipants) || errors.Is(err, ErrNoItems) || errors.Is(err, ErrBadItem) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "split failed")
		}
		return c.JSON(result)
	}
}
