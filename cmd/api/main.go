package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artosku/duitku-backend/internal/admin"
	"github.com/artosku/duitku-backend/internal/auth"
	apphttp "github.com/artosku/duitku-backend/internal/http"
	"github.com/artosku/duitku-backend/internal/ledger"
	"github.com/artosku/duitku-backend/internal/reports"
	"github.com/artosku/duitku-backend/internal/router"
	"github.com/artosku/duitku-backend/internal/store"
	"github.com/artosku/duitku-backend/internal/summary"
	"github.com/artosku/duitku-backend/pkg/logging"
)

func main() {
	logging.Setup()

	secret, err := auth.Secret()
	if err != nil {
		slog.Error("missing configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	st, pg, err := buildStore(ctx)
	if err != nil {
		slog.Error("store init failed", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	policy := ledger.Policy{
		AllowIncomeDelete: strings.EqualFold(os.Getenv("ALLOW_INCOME_DELETE"), "true"),
	}
	ldg := ledger.NewWithPolicy(st, policy)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"

			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
				message = fiberErr.Message
			}

			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})

	app.Use(router.CorsMiddleware())
	app.Use(requestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	r := &router.Router{
		AuthHandler:    &apphttp.AuthHandler{Store: st, Secret: secret},
		ProfileHandler: &apphttp.ProfileHandler{Store: st, Ledger: ldg},
		WalletHandler:  &apphttp.WalletHandler{Ledger: ldg, Store: st},
		TxHandler:      &apphttp.TransactionHandler{Ledger: ldg},
		DebtHandler:    &apphttp.DebtHandler{Ledger: ldg},
		TargetHandler:  &apphttp.TargetHandler{Ledger: ldg},
		SummaryHandler: &summary.Handler{Service: summary.Service{Ledger: ldg}},
		ReportsHandler: &reports.Handler{Service: reports.Service{Ledger: ldg}},
		AuthMW:         auth.Middleware(secret),
	}
	if pg != nil {
		r.AdminHandler = admin.NewHandler(pg.Pool())
		r.AdminMW = admin.RequireAdminAPIKey()
	}
	r.RegisterRoutes(app)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	slog.Info("listening", "port", port)
	if err := app.Listen(":" + port); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// buildStore picks the backend from STORE (postgres by default; memory for
// local development without a database). The second return is non-nil only
// for Postgres.
func buildStore(ctx context.Context) (store.Store, *store.Postgres, error) {
	backend := strings.ToLower(strings.TrimSpace(os.Getenv("STORE")))
	if backend == "memory" {
		slog.Warn("using in-memory store, data will not survive restarts")
		return store.NewMemory(), nil, nil
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, nil, errors.New("DATABASE_URL is not set")
	}
	pg, err := store.NewPostgres(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	return pg, pg, nil
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		slog.Info("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration", time.Since(start),
		)
		return err
	}
}
