// Package admin exposes an operator-only overview endpoint, keyed by a
// shared header secret rather than a user token. It reads the documents
// table directly, so it is only wired up when the server runs on Postgres.
package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	Pool *pgxpool.Pool
}

func NewHandler(pool *pgxpool.Pool) *Handler {
	return &Handler{Pool: pool}
}

type latestUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

type latestTx struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Type   string `json:"type"`
	Amount int64  `json:"amount"`
	Date   string `json:"date"`
}

type OverviewResponse struct {
	UsersTotal        int64        `json:"users_total"`
	WalletsTotal      int64        `json:"wallets_total"`
	TransactionsTotal int64        `json:"transactions_total"`
	DebtsTotal        int64        `json:"debts_total"`
	TargetsTotal      int64        `json:"targets_total"`
	LatestUsers       []latestUser `json:"latest_users"`
	LatestTxns        []latestTx   `json:"latest_transactions"`
}

func (h *Handler) Overview(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var resp OverviewResponse

	counts := []struct {
		collection string
		dest       *int64
	}{
		{"users", &resp.UsersTotal},
		{"wallets", &resp.WalletsTotal},
		{"transactions", &resp.TransactionsTotal},
		{"debts", &resp.DebtsTotal},
		{"targets", &resp.TargetsTotal},
	}
	for _, cn := range counts {
		if err := h.Pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM documents WHERE collection = $1`, cn.collection,
		).Scan(cn.dest); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed count "+cn.collection+": "+err.Error())
		}
	}

	{
		rows, err := h.Pool.Query(ctx, `
			SELECT id::text, COALESCE(fields->>'email', ''), COALESCE(fields->>'createdAt', '')
			FROM documents
			WHERE collection = 'users'
			ORDER BY created_at DESC
			LIMIT 20`)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed latest_users: "+err.Error())
		}
		defer rows.Close()

		for rows.Next() {
			var u latestUser
			if err := rows.Scan(&u.ID, &u.Email, &u.CreatedAt); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "failed scan latest_users: "+err.Error())
			}
			resp.LatestUsers = append(resp.LatestUsers, u)
		}
		if err := rows.Err(); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed latest_users rows: "+err.Error())
		}
	}

	{
		rows, err := h.Pool.Query(ctx, `
			SELECT id::text,
			       COALESCE(fields->>'userId', ''),
			       COALESCE(fields->>'type', ''),
			       COALESCE((fields->>'amount')::bigint, 0),
			       COALESCE(fields->>'date', '')
			FROM documents
			WHERE collection = 'transactions'
			ORDER BY created_at DESC
			LIMIT 20`)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed latest_transactions: "+err.Error())
		}
		defer rows.Close()

		for rows.Next() {
			var t latestTx
			if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Date); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "failed scan latest_transactions: "+err.Error())
			}
			resp.LatestTxns = append(resp.LatestTxns, t)
		}
		if err := rows.Err(); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed latest_transactions rows: "+err.Error())
		}
	}

	return c.JSON(resp)
}
