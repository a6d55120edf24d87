// Package debt defines the debt/credit entity (hutang-piutang): money the
// user owes or is owed, paid down in installments.
//
// The paid state is derived, never stored independently: a debt is paid
// exactly when its remaining amount is zero. The manual "mark paid" toggle
// is a transition that rewrites the remaining amount (to zero, or back to
// the original amount), so the two controls can never contradict each other.
package debt

import (
	"time"

	"github.com/artosku/duitku-backend/internal/store"
)

// Collection is the document collection debts live in.
const Collection = "debts"

const (
	// DirectionDebt marks money the user owes someone else.
	DirectionDebt = "debt"
	// DirectionCredit marks money someone else owes the user.
	DirectionCredit = "credit"
)

type DebtCredit struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Direction string    `json:"direction"`
	Amount    int64     `json:"amount"`    // original amount
	Remaining int64     `json:"remaining"` // 0..Amount
	DueDate   string    `json:"due_date"`  // YYYY-MM-DD
	Paid      bool      `json:"paid"`      // derived: Remaining == 0
	CreatedAt time.Time `json:"created_at"`
}

// FromDocument is the single deserialization boundary for debts. Remaining
// is clamped into [0, Amount] so a malformed document can never produce a
// negative debt or an overdrawn one.
func FromDocument(doc store.Document) DebtCredit {
	amount := store.Int64Field(doc.Fields, "amount")
	remaining := store.Int64Field(doc.Fields, "remaining")
	if remaining < 0 {
		remaining = 0
	}
	if remaining > amount {
		remaining = amount
	}
	direction := store.StringField(doc.Fields, "direction")
	if direction != DirectionCredit {
		direction = DirectionDebt
	}
	createdAt, _ := time.Parse(time.RFC3339, store.StringField(doc.Fields, "createdAt"))
	return DebtCredit{
		ID:        doc.ID,
		UserID:    store.StringField(doc.Fields, "userId"),
		Title:     store.StringField(doc.Fields, "title"),
		Direction: direction,
		Amount:    amount,
		Remaining: remaining,
		DueDate:   store.StringField(doc.Fields, "dueDate"),
		Paid:      remaining == 0,
		CreatedAt: createdAt,
	}
}

// Fields serializes a debt back to document fields. Paid is intentionally
// not persisted; it is recomputed from remaining on every read.
func Fields(d DebtCredit) map[string]any {
	return map[string]any{
		"userId":    d.UserID,
		"title":     d.Title,
		"direction": d.Direction,
		"amount":    d.Amount,
		"remaining": d.Remaining,
		"dueDate":   d.DueDate,
		"createdAt": d.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// PayInstallment returns the debt after paying amount off it.
// The caller validates 0 < amount <= Remaining first.
func (d DebtCredit) PayInstallment(amount int64) DebtCredit {
	d.Remaining -= amount
	d.Paid = d.Remaining == 0
	return d
}

// SetPaid is the manual toggle transition: marking paid settles the
// remaining amount to zero, marking unpaid restores the original amount.
func (d DebtCredit) SetPaid(paid bool) DebtCredit {
	if paid {
		d.Remaining = 0
	} else {
		d.Remaining = d.Amount
	}
	d.Paid = d.Remaining == 0
	return d
}
