package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artosku/duitku-backend/internal/debt"
	"github.com/artosku/duitku-backend/internal/store"
	"github.com/artosku/duitku-backend/internal/transactions"
)

const userID = "user-1"

func newTestLedger(t *testing.T) (*Ledger, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	return New(mem), mem
}

func seedWallet(t *testing.T, l *Ledger, amount int64) string {
	t.Helper()
	walletID, _, err := l.RecordIncome(context.Background(), userID, IncomeParams{
		Source:   "Cash",
		Amount:   amount,
		Category: "Gaji",
		Title:    "Salary",
	})
	require.NoError(t, err)
	return walletID
}

func TestRecordIncomeCreatesWallet(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	walletID, txnID, err := l.RecordIncome(ctx, userID, IncomeParams{
		Source:   "Bank BCA",
		Amount:   500_000,
		Category: "Gaji",
	})
	require.NoError(t, err)
	require.NotEmpty(t, walletID)
	require.NotEmpty(t, txnID)

	w, err := l.GetWallet(ctx, userID, walletID)
	require.NoError(t, err)
	assert.Equal(t, int64(500_000), w.Balance)
	assert.Equal(t, "Bank BCA", w.Source)

	txns, err := l.ListTransactions(ctx, userID)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, transactions.TypeIncome, txns[0].Type)
	assert.Equal(t, "Gaji - Bank BCA", txns[0].Title, "title defaults to category - source")
}

func TestRecordIncomeUpsertsExistingWallet(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	first := seedWallet(t, l, 500_000)
	second, _, err := l.RecordIncome(ctx, userID, IncomeParams{
		Source:   "Cash",
		Amount:   250_000,
		Category: "Bonus",
	})
	require.NoError(t, err)
	assert.Equal(t, first, second, "same source reuses the wallet")

	w, err := l.GetWallet(ctx, userID, first)
	require.NoError(t, err)
	assert.Equal(t, int64(750_000), w.Balance)

	wallets, err := l.ListWallets(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, wallets, 1)
}

func TestRecordIncomeValidation(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	_, _, err := l.RecordIncome(ctx, userID, IncomeParams{Source: "Cash", Amount: 0})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, _, err = l.RecordIncome(ctx, userID, IncomeParams{Source: "Cash", Amount: -5})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, _, err = l.RecordIncome(ctx, userID, IncomeParams{Source: "   ", Amount: 100})
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestRecordExpenseDebitsWallet(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	walletID := seedWallet(t, l, 500_000)

	txnID, err := l.RecordExpense(ctx, userID, ExpenseParams{
		WalletID: walletID,
		Amount:   150_000,
		Category: "Food",
		Title:    "Lunch",
	})
	require.NoError(t, err)
	require.NotEmpty(t, txnID)

	w, err := l.GetWallet(ctx, userID, walletID)
	require.NoError(t, err)
	assert.Equal(t, int64(350_000), w.Balance)
}

func TestRecordExpenseInsufficientFunds(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	walletID := seedWallet(t, l, 100_000)

	before, err := l.ListTransactions(ctx, userID)
	require.NoError(t, err)

	_, err = l.RecordExpense(ctx, userID, ExpenseParams{WalletID: walletID, Amount: 100_001})
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	w, err := l.GetWallet(ctx, userID, walletID)
	require.NoError(t, err)
	assert.Equal(t, int64(100_000), w.Balance, "failed expense must not touch the balance")

	after, err := l.ListTransactions(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, after, len(before), "failed expense must not leave a transaction")
}

func TestRecordExpenseExactBalance(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	walletID := seedWallet(t, l, 100_000)

	_, err := l.RecordExpense(ctx, userID, ExpenseParams{WalletID: walletID, Amount: 100_000})
	require.NoError(t, err, "spending the exact balance is allowed")

	w, err := l.GetWallet(ctx, userID, walletID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), w.Balance)
}

func TestRecordExpenseValidation(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	walletID := seedWallet(t, l, 100_000)

	_, err := l.RecordExpense(ctx, userID, ExpenseParams{WalletID: walletID, Amount: 0})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = l.RecordExpense(ctx, userID, ExpenseParams{WalletID: "missing", Amount: 10})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = l.RecordExpense(ctx, "someone-else", ExpenseParams{WalletID: walletID, Amount: 10})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestDeleteExpenseRestoresBalance(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	walletID := seedWallet(t, l, 500_000)

	txnID, err := l.RecordExpense(ctx, userID, ExpenseParams{
		WalletID: walletID,
		Amount:   150_000,
		Category: "Food",
		Title:    "Lunch",
	})
	require.NoError(t, err)

	require.NoError(t, l.DeleteTransaction(ctx, userID, txnID))

	w, err := l.GetWallet(ctx, userID, walletID)
	require.NoError(t, err)
	assert.Equal(t, int64(500_000), w.Balance, "delete must restore exactly what was spent")

	txns, err := l.ListTransactions(ctx, userID)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, transactions.TypeIncome, txns[0].Type)
}

func TestDeleteIncomeRejectedByDefault(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	walletID := seedWallet(t, l, 500_000)

	txns, err := l.ListTransactions(ctx, userID)
	require.NoError(t, err)
	require.Len(t, txns, 1)

	err = l.DeleteTransaction(ctx, userID, txns[0].ID)
	assert.ErrorIs(t, err, ErrInvalidOperation)

	w, err := l.GetWallet(ctx, userID, walletID)
	require.NoError(t, err)
	assert.Equal(t, int64(500_000), w.Balance)
}

func TestDeleteIncomeAllowedByPolicy(t *testing.T) {
	mem := store.NewMemory()
	l := NewWithPolicy(mem, Policy{AllowIncomeDelete: true})
	ctx := context.Background()

	walletID, txnID, err := l.RecordIncome(ctx, userID, IncomeParams{
		Source: "Cash", Amount: 500_000, Category: "Gaji",
	})
	require.NoError(t, err)

	require.NoError(t, l.DeleteTransaction(ctx, userID, txnID))

	w, err := l.GetWallet(ctx, userID, walletID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), w.Balance, "deleting income debits the credit back out")
}

func TestDeleteTransactionAlreadyGone(t *testing.T) {
	l, _ := newTestLedger(t)
	err := l.DeleteTransaction(context.Background(), userID, "does-not-exist")
	assert.NoError(t, err, "deleting a missing transaction is a no-op")
}

func TestDeleteTransactionUnauthorized(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	walletID := seedWallet(t, l, 500_000)

	txnID, err := l.RecordExpense(ctx, userID, ExpenseParams{WalletID: walletID, Amount: 10_000})
	require.NoError(t, err)

	err = l.DeleteTransaction(ctx, "someone-else", txnID)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestDeleteWalletCascades(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	walletID := seedWallet(t, l, 500_000)

	_, err := l.RecordExpense(ctx, userID, ExpenseParams{WalletID: walletID, Amount: 10_000})
	require.NoError(t, err)
	_, err = l.RecordExpense(ctx, userID, ExpenseParams{WalletID: walletID, Amount: 20_000})
	require.NoError(t, err)

	require.NoError(t, l.DeleteWallet(ctx, userID, walletID))

	_, err = l.GetWallet(ctx, userID, walletID)
	assert.ErrorIs(t, err, ErrNotFound)

	txns, err := l.ListTransactions(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, txns, "wallet delete takes its history with it")
}

func TestDeleteWalletUnauthorized(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	walletID := seedWallet(t, l, 500_000)

	err := l.DeleteWallet(ctx, "someone-else", walletID)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = l.GetWallet(ctx, userID, walletID)
	assert.NoError(t, err, "wallet survives a failed delete")
}

func TestConcurrentExpensesLoseNoUpdate(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	walletID := seedWallet(t, l, 1_000_000)

	const workers = 10
	const perWorker = int64(10_000)

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = l.RecordExpense(ctx, userID, ExpenseParams{
				WalletID: walletID,
				Amount:   perWorker,
				Category: "Food",
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "worker %d", i)
	}

	w, err := l.GetWallet(ctx, userID, walletID)
	require.NoError(t, err)
	assert.Equal(t, 1_000_000-int64(workers)*perWorker, w.Balance,
		"every concurrent debit must land")
}

func TestDebtLifecycle(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	id, err := l.AddDebt(ctx, userID, DebtParams{
		Title:     "Pinjam Budi",
		Amount:    200_000,
		Direction: debt.DirectionDebt,
		DueDate:   "2026-10-01",
	})
	require.NoError(t, err)

	require.NoError(t, l.PayInstallment(ctx, userID, id, 50_000))

	debts, err := l.ListDebts(ctx, userID)
	require.NoError(t, err)
	require.Len(t, debts, 1)
	assert.Equal(t, int64(150_000), debts[0].Remaining)
	assert.False(t, debts[0].Paid)

	require.NoError(t, l.PayInstallment(ctx, userID, id, 150_000))

	debts, err = l.ListDebts(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), debts[0].Remaining)
	assert.True(t, debts[0].Paid, "paying down to zero marks the debt paid")

	err = l.PayInstallment(ctx, userID, id, 1)
	assert.ErrorIs(t, err, ErrInvalidAmount, "overpaying a settled debt fails")
}

func TestPayInstallmentOverpayLeavesDebtUntouched(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	id, err := l.AddDebt(ctx, userID, DebtParams{
		Title: "Pinjam Budi", Amount: 200_000, Direction: debt.DirectionDebt,
	})
	require.NoError(t, err)

	err = l.PayInstallment(ctx, userID, id, 200_001)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	debts, err := l.ListDebts(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(200_000), debts[0].Remaining)
}

func TestSetDebtPaidToggle(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	id, err := l.AddDebt(ctx, userID, DebtParams{
		Title: "Piutang Sari", Amount: 75_000, Direction: debt.DirectionCredit,
	})
	require.NoError(t, err)

	require.NoError(t, l.SetDebtPaid(ctx, userID, id, true))
	debts, err := l.ListDebts(ctx, userID)
	require.NoError(t, err)
	assert.True(t, debts[0].Paid)
	assert.Equal(t, int64(0), debts[0].Remaining)

	require.NoError(t, l.SetDebtPaid(ctx, userID, id, false))
	debts, err = l.ListDebts(ctx, userID)
	require.NoError(t, err)
	assert.False(t, debts[0].Paid)
	assert.Equal(t, int64(75_000), debts[0].Remaining, "unmarking restores the original amount")
}

func TestAddDebtValidation(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := l.AddDebt(ctx, userID, DebtParams{Title: "x", Amount: 0, Direction: debt.DirectionDebt})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = l.AddDebt(ctx, userID, DebtParams{Title: "", Amount: 100, Direction: debt.DirectionDebt})
	assert.ErrorIs(t, err, ErrInvalidOperation)

	_, err = l.AddDebt(ctx, userID, DebtParams{Title: "x", Amount: 100, Direction: "loan"})
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestTargetLifecycle(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	id, err := l.CreateTarget(ctx, userID, TargetParams{
		Name:     "Liburan",
		Total:    2_000_000,
		Deadline: "2026-12-31",
		Seed:     500_000,
	})
	require.NoError(t, err)

	tg, err := l.GetTarget(ctx, userID, id)
	require.NoError(t, err)
	assert.Equal(t, int64(500_000), tg.Current)
	require.Len(t, tg.SavingRecords, 1, "seed creates the first saving record")

	require.NoError(t, l.AddSaving(ctx, userID, id, 1_600_000))

	tg, err = l.GetTarget(ctx, userID, id)
	require.NoError(t, err)
	assert.Equal(t, int64(2_100_000), tg.Current, "overshooting the goal is allowed")
	assert.Len(t, tg.SavingRecords, 2)
	assert.Equal(t, float64(100), tg.Progress())

	require.NoError(t, l.DeleteTarget(ctx, userID, id))
	_, err = l.GetTarget(ctx, userID, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddSavingValidation(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	id, err := l.CreateTarget(ctx, userID, TargetParams{Name: "Dana Darurat", Total: 1_000_000})
	require.NoError(t, err)

	assert.ErrorIs(t, l.AddSaving(ctx, userID, id, 0), ErrInvalidAmount)
	assert.ErrorIs(t, l.AddSaving(ctx, userID, "missing", 100), ErrNotFound)
	assert.ErrorIs(t, l.AddSaving(ctx, "someone-else", id, 100), ErrUnauthorized)
}

func TestListTransactionsNewestFirst(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	walletID := seedWallet(t, l, 1_000_000)

	_, err := l.RecordExpense(ctx, userID, ExpenseParams{WalletID: walletID, Amount: 1_000, Date: "2026-08-01"})
	require.NoError(t, err)
	_, err = l.RecordExpense(ctx, userID, ExpenseParams{WalletID: walletID, Amount: 2_000, Date: "2026-08-15"})
	require.NoError(t, err)

	txns, err := l.ListTransactions(ctx, userID)
	require.NoError(t, err)
	require.Len(t, txns, 3)
	assert.True(t, txns[0].Date >= txns[1].Date && txns[1].Date >= txns[2].Date)
}

func TestReadsScopedToOwner(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()
	seedWallet(t, l, 500_000)

	wallets, err := l.ListWallets(ctx, "someone-else")
	require.NoError(t, err)
	assert.Empty(t, wallets)

	txns, err := l.ListTransactions(ctx, "someone-else")
	require.NoError(t, err)
	assert.Empty(t, txns)
}
