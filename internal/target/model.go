// Package target defines the savings target entity: a named goal with a
// deadline and an append-only history of saving records. The accumulated
// amount only ever grows and may overshoot the goal.
package target

import (
	"time"

	"github.com/artosku/duitku-backend/internal/store"
)

// Collection is the document collection savings targets live in.
const Collection = "targets"

type SavingRecord struct {
	Amount int64  `json:"amount"`
	Time   string `json:"time"` // RFC 3339
}

type Target struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	Name          string         `json:"name"`
	Current       int64          `json:"current"`
	Total         int64          `json:"total"`
	Deadline      string         `json:"deadline"` // YYYY-MM-DD
	SavingRecords []SavingRecord `json:"saving_records"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Progress returns completion as a percentage, capped at 100.
func (t Target) Progress() float64 {
	if t.Total <= 0 {
		return 0
	}
	p := float64(t.Current) / float64(t.Total) * 100
	if p > 100 {
		p = 100
	}
	return p
}

// FromDocument is the single deserialization boundary for savings targets.
// Malformed history entries are dropped rather than poisoning the list.
func FromDocument(doc store.Document) Target {
	var records []SavingRecord
	for _, raw := range store.SliceField(doc.Fields, "savingRecords") {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		amount := store.Int64Field(entry, "amount")
		if amount <= 0 {
			continue
		}
		records = append(records, SavingRecord{
			Amount: amount,
			Time:   store.StringField(entry, "time"),
		})
	}
	createdAt, _ := time.Parse(time.RFC3339, store.StringField(doc.Fields, "createdAt"))
	return Target{
		ID:            doc.ID,
		UserID:        store.StringField(doc.Fields, "userId"),
		Name:          store.StringField(doc.Fields, "name"),
		Current:       store.Int64Field(doc.Fields, "current"),
		Total:         store.Int64Field(doc.Fields, "total"),
		Deadline:      store.StringField(doc.Fields, "deadline"),
		SavingRecords: records,
		CreatedAt:     createdAt,
	}
}

// Fields serializes a target back to document fields.
func Fields(t Target) map[string]any {
	records := make([]any, 0, len(t.SavingRecords))
	for _, r := range t.SavingRecords {
		records = append(records, map[string]any{"amount": r.Amount, "time": r.Time})
	}
	return map[string]any{
		"userId":        t.UserID,
		"name":          t.Name,
		"current":       t.Current,
		"total":         t.Total,
		"deadline":      t.Deadline,
		"savingRecords": records,
		"createdAt":     t.CreatedAt.UTC().Format(time.RFC3339),
	}
}
