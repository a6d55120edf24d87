package reports

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artosku/duitku-backend/internal/auth"
)

type Handler struct {
	Service Service
}

func (h *Handler) parseRange(c *fiber.Ctx) (string, string, error) {
	from := strings.TrimSpace(c.Query("from"))
	to := strings.TrimSpace(c.Query("to"))
	if from == "" || to == "" {
		end := time.Now()
		start := end.AddDate(0, 0, -29)
		from = start.Format("2006-01-02")
		to = end.Format("2006-01-02")
	}

	if _, err := time.Parse("2006-01-02", from); err != nil {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "from must be YYYY-MM-DD")
	}
	if _, err := time.Parse("2006-01-02", to); err != nil {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "to must be YYYY-MM-DD")
	}
	return from, to, nil
}

// Statement returns the date-range statement as JSON.
func (h *Handler) Statement(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	from, to, err := h.parseRange(c)
	if err != nil {
		return err
	}

	st, err := h.Service.Build(c.UserContext(), userID, from, to)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed statement: "+err.Error())
	}
	return c.JSON(st)
}

// StatementPDF returns the same statement as a downloadable PDF.
func (h *Handler) StatementPDF(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	from, to, err := h.parseRange(c)
	if err != nil {
		return err
	}

	st, err := h.Service.Build(c.UserContext(), userID, from, to)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed statement: "+err.Error())
	}

	pdfBytes, err := BuildPDF(st)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "pdf error")
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", "attachment; filename=duitku-statement-"+from+"-"+to+".pdf")
	return c.Status(fiber.StatusOK).Send(pdfBytes)
}
