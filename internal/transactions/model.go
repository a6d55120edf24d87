// Package transactions defines the transaction entity: one signed cash
// movement (income or expense) referencing the wallet it hit.
package transactions

import (
	"time"

	"github.com/artosku/duitku-backend/internal/store"
)

// Collection is the document collection transactions live in.
const Collection = "transactions"

const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

type Transaction struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	WalletID  string    `json:"wallet_id"`
	Type      string    `json:"type"`
	Amount    int64     `json:"amount"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Date      string    `json:"date"` // YYYY-MM-DD
	CreatedAt time.Time `json:"created_at"`
}

// Signed returns the transaction's effect on its wallet balance:
// positive for income, negative for expense.
func (t Transaction) Signed() int64 {
	if t.Type == TypeExpense {
		return -t.Amount
	}
	return t.Amount
}

// FromDocument is the single deserialization boundary for transactions.
func FromDocument(doc store.Document) Transaction {
	typ := store.StringField(doc.Fields, "type")
	if typ != TypeIncome && typ != TypeExpense {
		typ = TypeExpense
	}
	createdAt, _ := time.Parse(time.RFC3339, store.StringField(doc.Fields, "createdAt"))
	return Transaction{
		ID:        doc.ID,
		UserID:    store.StringField(doc.Fields, "userId"),
		WalletID:  store.StringField(doc.Fields, "walletId"),
		Type:      typ,
		Amount:    store.Int64Field(doc.Fields, "amount"),
		Category:  store.StringField(doc.Fields, "category"),
		Title:     store.StringField(doc.Fields, "title"),
		Date:      store.StringField(doc.Fields, "date"),
		CreatedAt: createdAt,
	}
}

// Fields serializes a transaction back to document fields.
func Fields(t Transaction) map[string]any {
	return map[string]any{
		"userId":    t.UserID,
		"walletId":  t.WalletID,
		"type":      t.Type,
		"amount":    t.Amount,
		"category":  t.Category,
		"title":     t.Title,
		"date":      t.Date,
		"createdAt": t.CreatedAt.UTC().Format(time.RFC3339),
	}
}
