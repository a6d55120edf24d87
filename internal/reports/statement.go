// Package reports builds account statements: the merged income/expense
// history for a date range, as JSON or a downloadable PDF.
package reports

import (
	"context"

	"github.com/artosku/duitku-backend/internal/ledger"
	"github.com/artosku/duitku-backend/internal/transactions"
)

type StatementItem struct {
	Type     string `json:"type"` // income | expense
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
	Date     string `json:"date"`
}

type Statement struct {
	Currency     string          `json:"currency"`
	From         string          `json:"from"`
	To           string          `json:"to"`
	TotalIncome  int64           `json:"total_income"`
	TotalExpense int64           `json:"total_expense"`
	Items        []StatementItem `json:"items"`
}

type Service struct {
	Ledger *ledger.Ledger
}

// Build assembles the statement for [from, to], both YYYY-MM-DD inclusive.
// Lexicographic comparison works because the dates are zero-padded.
func (s Service) Build(ctx context.Context, userID, from, to string) (Statement, error) {
	txns, err := s.Ledger.ListTransactions(ctx, userID)
	if err != nil {
		return Statement{}, err
	}

	out := Statement{Currency: "IDR", From: from, To: to}
	for _, t := range txns {
		if t.Date < from || t.Date > to {
			continue
		}
		out.Items = append(out.Items, StatementItem{
			Type:     t.Type,
			ID:       t.ID,
			Title:    t.Title,
			Category: t.Category,
			Amount:   t.Amount,
			Date:     t.Date,
		})
		switch t.Type {
		case transactions.TypeIncome:
			out.TotalIncome += t.Amount
		case transactions.TypeExpense:
			out.TotalExpense += t.Amount
		}
	}
	return out, nil
}
