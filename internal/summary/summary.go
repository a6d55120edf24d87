// Package summary computes the dashboard numbers: total balance across
// wallets and income/expense totals, optionally narrowed to one month.
package summary

import (
	"context"
	"strings"

	"github.com/artosku/duitku-backend/internal/ledger"
	"github.com/artosku/duitku-backend/internal/transactions"
)

type Summary struct {
	TotalBalance int64  `json:"total_balance"`
	TotalIncome  int64  `json:"total_income"`
	TotalExpense int64  `json:"total_expense"`
	Net          int64  `json:"net"`
	Wallets      int    `json:"wallets"`
	Transactions int    `json:"transactions"`
	Currency     string `json:"currency"`
}

type Service struct {
	Ledger *ledger.Ledger
}

// GetByUser aggregates wallet balances and transaction totals. month is
// "YYYY-MM" or empty for all time; it filters transaction totals only,
// since balances are point-in-time values.
func (s Service) GetByUser(ctx context.Context, userID, month string) (Summary, error) {
	wallets, err := s.Ledger.ListWallets(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	txns, err := s.Ledger.ListTransactions(ctx, userID)
	if err != nil {
		return Summary{}, err
	}

	out := Summary{Wallets: len(wallets), Currency: "IDR"}
	for _, w := range wallets {
		out.TotalBalance += w.Balance
	}
	for _, t := range txns {
		if month != "" && !strings.HasPrefix(t.Date, month) {
			continue
		}
		out.Transactions++
		switch t.Type {
		case transactions.TypeIncome:
			out.TotalIncome += t.Amount
		case transactions.TypeExpense:
			out.TotalExpense += t.Amount
		}
	}
	out.Net = out.TotalIncome - out.TotalExpense
	return out, nil
}
