// Package wallet defines the wallet entity: one funding source (bank
// account, e-wallet, cash) with a cached balance the ledger keeps in sync
// with its transactions.
package wallet

import (
	"time"

	"github.com/artosku/duitku-backend/internal/store"
)

// Collection is the document collection wallets live in.
const Collection = "wallets"

// DefaultIcon is used when a wallet document carries no icon reference.
const DefaultIcon = "/banks/default.png"

type Wallet struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Source    string    `json:"source"`
	Icon      string    `json:"icon"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

// FromDocument is the single deserialization boundary for wallets: every
// field is validated and normalized here, never at call sites.
func FromDocument(doc store.Document) Wallet {
	source := store.StringField(doc.Fields, "source")
	if source == "" {
		source = "Unknown"
	}
	icon := store.StringField(doc.Fields, "icon")
	if icon == "" {
		icon = DefaultIcon
	}
	createdAt, _ := time.Parse(time.RFC3339, store.StringField(doc.Fields, "createdAt"))
	return Wallet{
		ID:        doc.ID,
		UserID:    store.StringField(doc.Fields, "userId"),
		Source:    source,
		Icon:      icon,
		Balance:   store.Int64Field(doc.Fields, "balance"),
		CreatedAt: createdAt,
	}
}

// Fields serializes a wallet back to document fields.
func Fields(w Wallet) map[string]any {
	return map[string]any{
		"userId":    w.UserID,
		"source":    w.Source,
		"icon":      w.Icon,
		"balance":   w.Balance,
		"createdAt": w.CreatedAt.UTC().Format(time.RFC3339),
	}
}
