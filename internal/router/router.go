// Package router wires the DuitKu handlers onto a Fiber app.
package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artosku/duitku-backend/internal/admin"
	handlers "github.com/artosku/duitku-backend/internal/http"
	"github.com/artosku/duitku-backend/internal/reports"
	"github.com/artosku/duitku-backend/internal/split"
	"github.com/artosku/duitku-backend/internal/summary"
)

type Router struct {
	AuthHandler    *handlers.AuthHandler
	ProfileHandler *handlers.ProfileHandler
	WalletHandler  *handlers.WalletHandler
	TxHandler      *handlers.TransactionHandler
	DebtHandler    *handlers.DebtHandler
	TargetHandler  *handlers.TargetHandler
	SummaryHandler *summary.Handler
	ReportsHandler *reports.Handler
	AdminHandler   *admin.Handler
	AuthMW         fiber.Handler
	AdminMW        fiber.Handler
}

func (r *Router) RegisterRoutes(app *fiber.App) {
	authLimit := RateLimitAuth()
	writeLimit := RateLimitWrite()

	if r.AuthHandler != nil {
		app.Post("/api/auth/signup", authLimit, r.AuthHandler.Signup)
		app.Post("/api/auth/login", authLimit, r.AuthHandler.Login)
		app.Get("/api/me", r.AuthMW, r.AuthHandler.Me)
	}

	if r.ProfileHandler != nil {
		app.Put("/api/me", r.AuthMW, r.ProfileHandler.Update)
		app.Put("/api/me/password", r.AuthMW, r.ProfileHandler.ChangePassword)
		app.Delete("/api/me", r.AuthMW, r.ProfileHandler.DeleteAccount)
	}

	if r.WalletHandler != nil {
		app.Get("/api/wallets", r.AuthMW, r.WalletHandler.List)
		app.Get("/api/wallets/stream", r.AuthMW, r.WalletHandler.Stream)
		app.Get("/api/wallets/:id", r.AuthMW, r.WalletHandler.Get)
		app.Delete("/api/wallets/:id", r.AuthMW, writeLimit, r.WalletHandler.Delete)
	}

	if r.TxHandler != nil {
		app.Post("/api/expenses", r.AuthMW, writeLimit, r.TxHandler.CreateExpense)
		app.Post("/api/incomes", r.AuthMW, writeLimit, r.TxHandler.CreateIncome)
		app.Get("/api/transactions", r.AuthMW, r.TxHandler.List)
		app.Delete("/api/transactions/:id", r.AuthMW, writeLimit, r.TxHandler.Delete)
	}

	if r.DebtHandler != nil {
		app.Post("/api/debts", r.AuthMW, writeLimit, r.DebtHandler.Create)
		app.Get("/api/debts", r.AuthMW, r.DebtHandler.List)
		app.Post("/api/debts/:id/installments", r.AuthMW, writeLimit, r.DebtHandler.PayInstallment)
		app.Put("/api/debts/:id/paid", r.AuthMW, writeLimit, r.DebtHandler.SetPaid)
	}

	if r.TargetHandler != nil {
		app.Post("/api/targets", r.AuthMW, writeLimit, r.TargetHandler.Create)
		app.Get("/api/targets", r.AuthMW, r.TargetHandler.List)
		app.Get("/api/targets/:id", r.AuthMW, r.TargetHandler.Get)
		app.Post("/api/targets/:id/savings", r.AuthMW, writeLimit, r.TargetHandler.AddSaving)
		app.Delete("/api/targets/:id", r.AuthMW, writeLimit, r.TargetHandler.Delete)
	}

	if r.SummaryHandler != nil {
		app.Get("/api/summary", r.AuthMW, r.SummaryHandler.GetSummary)
	}

	if r.ReportsHandler != nil {
		app.Get("/api/reports/statement", r.AuthMW, r.ReportsHandler.Statement)
		app.Get("/api/reports/statement.pdf", r.AuthMW, r.ReportsHandler.StatementPDF)
	}

	// Split-bill is a pure calculator, no auth or persistence.
	app.Post("/api/split", split.CalculateHandler())

	if r.AdminHandler != nil && r.AdminMW != nil {
		app.Get("/api/admin/overview", r.AdminMW, r.AdminHandler.Overview)
	}
}
