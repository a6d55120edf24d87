package http

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/artosku/duitku-backend/internal/auth"
	"github.com/artosku/duitku-backend/internal/ledger"
	"github.com/artosku/duitku-backend/internal/store"
	"github.com/artosku/duitku-backend/internal/wallet"
)

type WalletHandler struct {
	Ledger *ledger.Ledger
	Store  store.Store
}

func (h *WalletHandler) List(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	wallets, err := h.Ledger.ListWallets(c.UserContext(), userID)
	if err != nil {
		return ledgerError(err)
	}
	return c.JSON(fiber.Map{"wallets": wallets})
}

func (h *WalletHandler) Get(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	w, err := h.Ledger.GetWallet(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return ledgerError(err)
	}
	return c.JSON(w)
}

// Delete removes a wallet and its transaction history in one shot. The
// wallet survives if any part of the cascade fails.
func (h *WalletHandler) Delete(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	if err := h.Ledger.DeleteWallet(c.UserContext(), userID, c.Params("id")); err != nil {
		return ledgerError(err)
	}
	return c.JSON(fiber.Map{"deleted": true})
}

type walletEvent struct {
	ID      string         `json:"id"`
	Deleted bool           `json:"deleted"`
	Wallet  *wallet.Wallet `json:"wallet,omitempty"`
}

// Stream pushes wallet changes for the caller as server-sent events. The
// subscription is torn down when the client disconnects.
func (h *WalletHandler) Stream(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	// The stream writer outlives the handler, so the subscription cannot
	// hang off the request context.
	ctx, cancel := context.WithCancel(context.Background())
	ch, stop, err := h.Store.Subscribe(ctx, wallet.Collection, "userId", userID)
	if err != nil {
		cancel()
		return ledgerError(err)
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		defer stop()
		for snap := range ch {
			ev := walletEvent{ID: snap.Doc.ID, Deleted: snap.Deleted}
			if !snap.Deleted {
				ww := wallet.FromDocument(snap.Doc)
				ev.Wallet = &ww
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			if err := w.Flush(); err != nil {
				return // client went away
			}
		}
	}))
	return nil
}
