package target

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/artosku/duitku-backend/internal/store"
)

func TestProgress(t *testing.T) {
	tests := []struct {
		name    string
		current int64
		total   int64
		want    float64
	}{
		{"halfway", 500_000, 1_000_000, 50},
		{"complete", 1_000_000, 1_000_000, 100},
		{"overshoot caps at 100", 1_500_000, 1_000_000, 100},
		{"zero total", 100, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tg := Target{Current: tt.current, Total: tt.total}
			assert.Equal(t, tt.want, tg.Progress())
		})
	}
}

func TestFromDocumentDropsMalformedRecords(t *testing.T) {
	doc := store.Document{ID: "t1", Fields: map[string]any{
		"userId":  "u1",
		"name":    "Liburan",
		"current": float64(300_000),
		"total":   float64(2_000_000),
		"savingRecords": []any{
			map[string]any{"amount": float64(100_000), "time": "2026-08-01T10:00:00Z"},
			map[string]any{"amount": float64(0), "time": "2026-08-02T10:00:00Z"},
			"garbage",
			map[string]any{"amount": float64(200_000), "time": "2026-08-03T10:00:00Z"},
		},
	}}

	tg := FromDocument(doc)
	assert.Len(t, tg.SavingRecords, 2, "zero-amount and malformed entries dropped")
	assert.Equal(t, int64(300_000), tg.Current)
	assert.Equal(t, int64(100_000), tg.SavingRecords[0].Amount)
	assert.Equal(t, int64(200_000), tg.SavingRecords[1].Amount)
}

func TestFieldsRoundTripsRecords(t *testing.T) {
	tg := Target{
		UserID:  "u1",
		Name:    "Dana Darurat",
		Current: 150_000,
		Total:   1_000_000,
		SavingRecords: []SavingRecord{
			{Amount: 150_000, Time: "2026-08-01T10:00:00Z"},
		},
	}

	got := FromDocument(store.Document{ID: "t1", Fields: Fields(tg)})
	assert.Equal(t, tg.SavingRecords, got.SavingRecords)
	assert.Equal(t, tg.Current, got.Current)
}
