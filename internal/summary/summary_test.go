package summary

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artosku/duitku-backend/internal/ledger"
	"github.com/artosku/duitku-backend/internal/store"
)

func TestGetByUser(t *testing.T) {
	l := ledger.New(store.NewMemory())
	s := Service{Ledger: l}
	ctx := context.Background()

	walletID, _, err := l.RecordIncome(ctx, "u1", ledger.IncomeParams{
		Source: "Cash", Amount: 500_000, Category: "Gaji",
	})
	require.NoError(t, err)
	_, _, err = l.RecordIncome(ctx, "u1", ledger.IncomeParams{
		Source: "Bank BCA", Amount: 1_000_000, Category: "Gaji",
	})
	require.NoError(t, err)
	_, err = l.RecordExpense(ctx, "u1", ledger.ExpenseParams{
		WalletID: walletID, Amount: 200_000, Category: "Food",
	})
	require.NoError(t, err)

	got, err := s.GetByUser(ctx, "u1", "")
	require.NoError(t, err)

	assert.Equal(t, int64(1_300_000), got.TotalBalance)
	assert.Equal(t, int64(1_500_000), got.TotalIncome)
	assert.Equal(t, int64(200_000), got.TotalExpense)
	assert.Equal(t, int64(1_300_000), got.Net)
	assert.Equal(t, 2, got.Wallets)
	assert.Equal(t, 3, got.Transactions)
	assert.Equal(t, "IDR", got.Currency)
}

func TestGetByUserMonthFilter(t *testing.T) {
	l := ledger.New(store.NewMemory())
	s := Service{Ledger: l}
	ctx := context.Background()

	walletID, _, err := l.RecordIncome(ctx, "u1", ledger.IncomeParams{
		Source: "Cash", Amount: 500_000, Category: "Gaji",
	})
	require.NoError(t, err)
	_, err = l.RecordExpense(ctx, "u1", ledger.ExpenseParams{
		WalletID: walletID, Amount: 100_000, Date: "2020-07-10",
	})
	require.NoError(t, err)
	_, err = l.RecordExpense(ctx, "u1", ledger.ExpenseParams{
		WalletID: walletID, Amount: 50_000, Date: "2020-08-02",
	})
	require.NoError(t, err)

	got, err := s.GetByUser(ctx, "u1", "2020-07")
	require.NoError(t, err)

	assert.Equal(t, int64(100_000), got.TotalExpense, "only July transactions counted")
	assert.Equal(t, 1, got.Transactions)
	assert.Equal(t, int64(350_000), got.TotalBalance, "balance ignores the month filter")
}

func TestGetByUserEmpty(t *testing.T) {
	s := Service{Ledger: ledger.New(store.NewMemory())}

	got, err := s.GetByUser(context.Background(), "nobody", "")
	require.NoError(t, err)
	assert.Zero(t, got.TotalBalance)
	assert.Zero(t, got.Wallets)
	assert.Zero(t, got.Transactions)
}
