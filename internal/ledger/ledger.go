// Package ledger implements the balance-consistency bookkeeping for DuitKu.
// Every mutation that touches a wallet balance together with a secondary
// record (transaction, debt installment, saving record) is applied as one
// atomic read-modify-write against the document store, so two browser
// sessions racing on the same wallet can never lose an update.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/artosku/duitku-backend/internal/debt"
	"github.com/artosku/duitku-backend/internal/store"
	"github.com/artosku/duitku-backend/internal/target"
	"github.com/artosku/duitku-backend/internal/transactions"
	"github.com/artosku/duitku-backend/internal/wallet"
)

// Policy holds the business rules that are configurable rather than
// hardcoded per screen.
type Policy struct {
	// AllowIncomeDelete permits deleting income transactions (with the
	// compensating wallet debit). The product default forbids it.
	AllowIncomeDelete bool
}

// Ledger applies wallet, transaction, debt and savings mutations against a
// document store, keeping every wallet's cached balance equal to its
// initial funding plus the sum of signed transaction amounts.
type Ledger struct {
	store  store.Store
	policy Policy
	now    func() time.Time
}

// New creates a Ledger over the given store with the default policy.
func New(st store.Store) *Ledger {
	return NewWithPolicy(st, Policy{})
}

// NewWithPolicy creates a Ledger with an explicit policy.
func NewWithPolicy(st store.Store, policy Policy) *Ledger {
	return &Ledger{store: st, policy: policy, now: time.Now}
}

// ExpenseParams describes a new expense against an existing wallet.
type ExpenseParams struct {
	WalletID string
	Amount   int64
	Category string
	Title    string
	Date     string // YYYY-MM-DD, defaults to today
}

// RecordExpense debits the wallet and creates the expense transaction as a
// single atomic unit. Fails with ErrInsufficientFunds when the balance
// cannot cover the amount, leaving no partial state.
func (l *Ledger) RecordExpense(ctx context.Context, userID string, p ExpenseParams) (string, error) {
	if p.Amount <= 0 {
		return "", ErrInvalidAmount
	}
	p.WalletID = strings.TrimSpace(p.WalletID)
	if p.WalletID == "" {
		return "", ErrNotFound
	}
	if p.Date == "" {
		p.Date = l.now().Format("2006-01-02")
	}

	walletRef := store.Ref{Collection: wallet.Collection, ID: p.WalletID}
	var txnID string
	err := l.store.RunAtomic(ctx, []store.Ref{walletRef}, func(tx store.Tx) error {
		doc, ok := tx.Get(walletRef)
		if !ok {
			return ErrNotFound
		}
		w := wallet.FromDocument(doc)
		if w.UserID != userID {
			return ErrUnauthorized
		}
		if w.Balance < p.Amount {
			return ErrInsufficientFunds
		}

		tx.Update(walletRef, map[string]any{"balance": w.Balance - p.Amount})
		txnID = tx.Create(transactions.Collection, transactions.Fields(transactions.Transaction{
			UserID:    userID,
			WalletID:  w.ID,
			Type:      transactions.TypeExpense,
			Amount:    p.Amount,
			Category:  p.Category,
			Title:     p.Title,
			Date:      p.Date,
			CreatedAt: l.now(),
		}))
		return nil
	})
	if err != nil {
		return "", wrapStore(err)
	}
	return txnID, nil
}

// IncomeParams describes income flowing into a wallet, named by its source
// label ("Bank BCA", "SeaBank", "Dompet Fisik", ...).
type IncomeParams struct {
	Source   string
	Icon     string
	Amount   int64
	Category string
	Title    string
}

// RecordIncome credits the wallet named by Source, creating it with an
// initial balance equal to the amount when it does not yet exist, and
// records the income transaction. Upsert and transaction creation are one
// atomic unit.
func (l *Ledger) RecordIncome(ctx context.Context, userID string, p IncomeParams) (walletID, txnID string, err error) {
	if p.Amount <= 0 {
		return "", "", ErrInvalidAmount
	}
	p.Source = strings.TrimSpace(p.Source)
	if p.Source == "" {
		return "", "", fmt.Errorf("%w: source required", ErrInvalidOperation)
	}
	if p.Title == "" {
		p.Title = p.Category + " - " + p.Source
	}

	existing, err := l.findWalletBySource(ctx, userID, p.Source)
	if err != nil {
		return "", "", err
	}

	var refs []store.Ref
	if existing != nil {
		refs = append(refs, store.Ref{Collection: wallet.Collection, ID: existing.ID})
	}

	err = l.store.RunAtomic(ctx, refs, func(tx store.Tx) error {
		now := l.now()
		if existing != nil {
			ref := store.Ref{Collection: wallet.Collection, ID: existing.ID}
			doc, ok := tx.Get(ref)
			if !ok {
				// Wallet vanished between the lookup and the lock;
				// fall through to creating a fresh one.
				walletID = tx.Create(wallet.Collection, wallet.Fields(wallet.Wallet{
					UserID: userID, Source: p.Source, Icon: p.Icon, Balance: p.Amount, CreatedAt: now,
				}))
			} else {
				w := wallet.FromDocument(doc)
				if w.UserID != userID {
					return ErrUnauthorized
				}
				tx.Update(ref, map[string]any{"balance": w.Balance + p.Amount})
				walletID = w.ID
			}
		} else {
			walletID = tx.Create(wallet.Collection, wallet.Fields(wallet.Wallet{
				UserID: userID, Source: p.Source, Icon: p.Icon, Balance: p.Amount, CreatedAt: now,
			}))
		}

		txnID = tx.Create(transactions.Collection, transactions.Fields(transactions.Transaction{
			UserID:    userID,
			WalletID:  walletID,
			Type:      transactions.TypeIncome,
			Amount:    p.Amount,
			Category:  p.Category,
			Title:     p.Title,
			Date:      now.Format("2006-01-02"),
			CreatedAt: now,
		}))
		return nil
	})
	if err != nil {
		return "", "", wrapStore(err)
	}
	return walletID, txnID, nil
}

// DeleteTransaction removes a transaction and applies the inverse wallet
// mutation. Income transactions are rejected with ErrInvalidOperation
// unless the policy allows deleting them. A transaction that is already
// gone is an explicit no-op success. The wallet balance is re-read inside
// the atomic unit, never taken from state the caller holds.
func (l *Ledger) DeleteTransaction(ctx context.Context, userID, txnID string) error {
	txnID = strings.TrimSpace(txnID)
	if txnID == "" {
		return ErrNotFound
	}

	doc, err := l.store.Get(ctx, transactions.Collection, txnID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil // already deleted
		}
		return wrapStore(err)
	}
	txn := transactions.FromDocument(doc)
	if txn.UserID != userID {
		return ErrUnauthorized
	}
	if txn.Type == transactions.TypeIncome && !l.policy.AllowIncomeDelete {
		return fmt.Errorf("%w: income transactions cannot be deleted", ErrInvalidOperation)
	}

	txnRef := store.Ref{Collection: transactions.Collection, ID: txnID}
	walletRef := store.Ref{Collection: wallet.Collection, ID: txn.WalletID}
	err = l.store.RunAtomic(ctx, []store.Ref{txnRef, walletRef}, func(tx store.Tx) error {
		current, ok := tx.Get(txnRef)
		if !ok {
			return nil // lost the race to another delete: nothing to undo
		}
		txn := transactions.FromDocument(current)

		tx.Delete(txnRef)
		if wdoc, ok := tx.Get(walletRef); ok {
			w := wallet.FromDocument(wdoc)
			tx.Update(walletRef, map[string]any{"balance": w.Balance - txn.Signed()})
		}
		return nil
	})
	return wrapStore(err)
}

// DeleteWallet removes a wallet and all transactions referencing it as one
// atomic unit. If the cascade cannot be applied the wallet survives.
func (l *Ledger) DeleteWallet(ctx context.Context, userID, walletID string) error {
	w, err := l.GetWallet(ctx, userID, walletID)
	if err != nil {
		return err
	}

	txns, err := l.store.QueryByField(ctx, transactions.Collection, "walletId", w.ID)
	if err != nil {
		return wrapStore(err)
	}

	walletRef := store.Ref{Collection: wallet.Collection, ID: w.ID}
	refs := []store.Ref{walletRef}
	for _, t := range txns {
		refs = append(refs, store.Ref{Collection: transactions.Collection, ID: t.ID})
	}

	err = l.store.RunAtomic(ctx, refs, func(tx store.Tx) error {
		doc, ok := tx.Get(walletRef)
		if !ok {
			return nil // already deleted
		}
		if wallet.FromDocument(doc).UserID != userID {
			return ErrUnauthorized
		}
		for _, ref := range refs[1:] {
			if _, ok := tx.Get(ref); ok {
				tx.Delete(ref)
			}
		}
		tx.Delete(walletRef)
		return nil
	})
	return wrapStore(err)
}

// DebtParams describes a new debt or credit entry.
type DebtParams struct {
	Title     string
	Amount    int64
	DueDate   string // YYYY-MM-DD
	Direction string // debt | credit
}

// AddDebt records a debt/credit entry. Debts are informational: they never
// touch a wallet balance.
func (l *Ledger) AddDebt(ctx context.Context, userID string, p DebtParams) (string, error) {
	if p.Amount <= 0 {
		return "", ErrInvalidAmount
	}
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return "", fmt.Errorf("%w: title required", ErrInvalidOperation)
	}
	if p.Direction != debt.DirectionDebt && p.Direction != debt.DirectionCredit {
		return "", fmt.Errorf("%w: direction must be debt or credit", ErrInvalidOperation)
	}

	id, err := l.store.Create(ctx, debt.Collection, debt.Fields(debt.DebtCredit{
		UserID:    userID,
		Title:     p.Title,
		Direction: p.Direction,
		Amount:    p.Amount,
		Remaining: p.Amount,
		DueDate:   p.DueDate,
		CreatedAt: l.now(),
	}))
	return id, wrapStore(err)
}

// PayInstallment reduces a debt's remaining amount. Paying it down to zero
// marks it paid; overpaying fails with ErrInvalidAmount and changes nothing.
func (l *Ledger) PayInstallment(ctx context.Context, userID, debtID string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	ref := store.Ref{Collection: debt.Collection, ID: debtID}
	err := l.store.RunAtomic(ctx, []store.Ref{ref}, func(tx store.Tx) error {
		doc, ok := tx.Get(ref)
		if !ok {
			return ErrNotFound
		}
		d := debt.FromDocument(doc)
		if d.UserID != userID {
			return ErrUnauthorized
		}
		if amount > d.Remaining {
			return fmt.Errorf("%w: amount exceeds remaining", ErrInvalidAmount)
		}
		tx.Update(ref, map[string]any{"remaining": d.PayInstallment(amount).Remaining})
		return nil
	})
	return wrapStore(err)
}

// SetDebtPaid is the manual paid toggle, expressed as a transition on the
// remaining amount so the derived paid state stays the single source of
// truth.
func (l *Ledger) SetDebtPaid(ctx context.Context, userID, debtID string, paid bool) error {
	ref := store.Ref{Collection: debt.Collection, ID: debtID}
	err := l.store.RunAtomic(ctx, []store.Ref{ref}, func(tx store.Tx) error {
		doc, ok := tx.Get(ref)
		if !ok {
			return ErrNotFound
		}
		d := debt.FromDocument(doc)
		if d.UserID != userID {
			return ErrUnauthorized
		}
		tx.Update(ref, map[string]any{"remaining": d.SetPaid(paid).Remaining})
		return nil
	})
	return wrapStore(err)
}

// TargetParams describes a new savings target.
type TargetParams struct {
	Name     string
	Total    int64
	Deadline string // YYYY-MM-DD
	Seed     int64  // optional initial amount already saved
}

// CreateTarget records a savings target.
func (l *Ledger) CreateTarget(ctx context.Context, userID string, p TargetParams) (string, error) {
	if p.Total <= 0 || p.Seed < 0 {
		return "", ErrInvalidAmount
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return "", fmt.Errorf("%w: name required", ErrInvalidOperation)
	}

	t := target.Target{
		UserID:    userID,
		Name:      p.Name,
		Current:   p.Seed,
		Total:     p.Total,
		Deadline:  p.Deadline,
		CreatedAt: l.now(),
	}
	if p.Seed > 0 {
		t.SavingRecords = []target.SavingRecord{{Amount: p.Seed, Time: l.now().UTC().Format(time.RFC3339)}}
	}
	id, err := l.store.Create(ctx, target.Collection, target.Fields(t))
	return id, wrapStore(err)
}

// AddSaving appends a saving record and grows the accumulated amount.
// Overshooting the goal is allowed, not an error.
func (l *Ledger) AddSaving(ctx context.Context, userID, targetID string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	ref := store.Ref{Collection: target.Collection, ID: targetID}
	err := l.store.RunAtomic(ctx, []store.Ref{ref}, func(tx store.Tx) error {
		doc, ok := tx.Get(ref)
		if !ok {
			return ErrNotFound
		}
		t := target.FromDocument(doc)
		if t.UserID != userID {
			return ErrUnauthorized
		}
		t.Current += amount
		t.SavingRecords = append(t.SavingRecords, target.SavingRecord{
			Amount: amount,
			Time:   l.now().UTC().Format(time.RFC3339),
		})
		tx.Update(ref, target.Fields(t))
		return nil
	})
	return wrapStore(err)
}

// DeleteTarget removes a savings target and its history.
func (l *Ledger) DeleteTarget(ctx context.Context, userID, targetID string) error {
	ref := store.Ref{Collection: target.Collection, ID: targetID}
	err := l.store.RunAtomic(ctx, []store.Ref{ref}, func(tx store.Tx) error {
		doc, ok := tx.Get(ref)
		if !ok {
			return ErrNotFound
		}
		if target.FromDocument(doc).UserID != userID {
			return ErrUnauthorized
		}
		tx.Delete(ref)
		return nil
	})
	return wrapStore(err)
}

// GetWallet returns one owned wallet.
func (l *Ledger) GetWallet(ctx context.Context, userID, walletID string) (wallet.Wallet, error) {
	doc, err := l.store.Get(ctx, wallet.Collection, walletID)
	if err != nil {
		return wallet.Wallet{}, wrapStore(err)
	}
	w := wallet.FromDocument(doc)
	if w.UserID != userID {
		return wallet.Wallet{}, ErrUnauthorized
	}
	return w, nil
}

// ListWallets returns the caller's wallets, oldest first.
func (l *Ledger) ListWallets(ctx context.Context, userID string) ([]wallet.Wallet, error) {
	docs, err := l.store.QueryByField(ctx, wallet.Collection, "userId", userID)
	if err != nil {
		return nil, wrapStore(err)
	}
	out := make([]wallet.Wallet, 0, len(docs))
	for _, doc := range docs {
		out = append(out, wallet.FromDocument(doc))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Source < out[j].Source
	})
	return out, nil
}

// ListTransactions returns the caller's transactions, newest date first.
func (l *Ledger) ListTransactions(ctx context.Context, userID string) ([]transactions.Transaction, error) {
	docs, err := l.store.QueryByField(ctx, transactions.Collection, "userId", userID)
	if err != nil {
		return nil, wrapStore(err)
	}
	out := make([]transactions.Transaction, 0, len(docs))
	for _, doc := range docs {
		out = append(out, transactions.FromDocument(doc))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// ListDebts returns the caller's debt/credit entries, nearest due date first.
func (l *Ledger) ListDebts(ctx context.Context, userID string) ([]debt.DebtCredit, error) {
	docs, err := l.store.QueryByField(ctx, debt.Collection, "userId", userID)
	if err != nil {
		return nil, wrapStore(err)
	}
	out := make([]debt.DebtCredit, 0, len(docs))
	for _, doc := range docs {
		out = append(out, debt.FromDocument(doc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate < out[j].DueDate })
	return out, nil
}

// GetTarget returns one owned savings target.
func (l *Ledger) GetTarget(ctx context.Context, userID, targetID string) (target.Target, error) {
	doc, err := l.store.Get(ctx, target.Collection, targetID)
	if err != nil {
		return target.Target{}, wrapStore(err)
	}
	t := target.FromDocument(doc)
	if t.UserID != userID {
		return target.Target{}, ErrUnauthorized
	}
	return t, nil
}

// ListTargets returns the caller's savings targets, nearest deadline first.
func (l *Ledger) ListTargets(ctx context.Context, userID string) ([]target.Target, error) {
	docs, err := l.store.QueryByField(ctx, target.Collection, "userId", userID)
	if err != nil {
		return nil, wrapStore(err)
	}
	out := make([]target.Target, 0, len(docs))
	for _, doc := range docs {
		out = append(out, target.FromDocument(doc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Deadline < out[j].Deadline })
	return out, nil
}

func (l *Ledger) findWalletBySource(ctx context.Context, userID, source string) (*wallet.Wallet, error) {
	docs, err := l.store.QueryByField(ctx, wallet.Collection, "userId", userID)
	if err != nil {
		return nil, wrapStore(err)
	}
	for _, doc := range docs {
		w := wallet.FromDocument(doc)
		if w.Source == source {
			return &w, nil
		}
	}
	return nil, nil
}
