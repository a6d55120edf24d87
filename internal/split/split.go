// Package split implements the bill-splitting calculator: equal mode
// divides the whole bill across everyone, custom mode charges each item to
// the people sharing it, and tax is distributed proportionally to each
// person's pre-tax share.
package split

import (
	"errors"

	"github.com/shopspring/decimal"
)

const (
	ModeEqual  = "equal"
	ModeCustom = "custom"
)

var (
	ErrNoParticipants = errors.New("at least one participant required")
	ErrNoItems        = errors.New("at least one item required")
	ErrBadItem        = errors.New("item price must be positive and sharers non-empty")
)

type Item struct {
	Name     string   `json:"name"`
	Price    int64    `json:"price"`
	SharedBy []string `json:"shared_by"` // participant names; custom mode only
}

type PersonShare struct {
	Participant string `json:"participant"`
	Subtotal    int64  `json:"subtotal"`
	Tax         int64  `json:"tax"`
	Total       int64  `json:"total"`
}

type Result struct {
	Mode     string        `json:"mode"`
	Subtotal int64         `json:"subtotal"`
	Tax      int64         `json:"tax"`
	Total    int64         `json:"total"`
	Shares   []PersonShare `json:"shares"`
}

// Calculate splits the bill. taxPercent is e.g. 11 for PPN 11%. Amounts are
// rupiah; per-person results are rounded to whole rupiah with decimal
// arithmetic so shares do not drift the way float math does.
func Calculate(mode string, participants []string, items []Item, taxPercent float64) (Result, error) {
	if len(participants) == 0 {
		return Result{}, ErrNoParticipants
	}
	if len(items) == 0 {
		return Result{}, ErrNoItems
	}
	if mode != ModeCustom {
		mode = ModeEqual
	}

	subtotals := make(map[string]decimal.Decimal, len(participants))
	for _, p := range participants {
		subtotals[p] = decimal.Zero
	}

	total := decimal.Zero
	for _, item := range items {
		if item.Price <= 0 {
			return Result{}, ErrBadItem
		}
		price := decimal.NewFromInt(item.Price)
		total = total.Add(price)

		if mode == ModeCustom {
			if len(item.SharedBy) == 0 {
				return Result{}, ErrBadItem
			}
			perPerson := price.DivRound(decimal.NewFromInt(int64(len(item.SharedBy))), 4)
			for _, name := range item.SharedBy {
				if _, ok := subtotals[name]; !ok {
					return Result{}, ErrBadItem
				}
				subtotals[name] = subtotals[name].Add(perPerson)
			}
		}
	}

	if mode == ModeEqual {
		perPerson := total.DivRound(decimal.NewFromInt(int64(len(participants))), 4)
		for _, p := range participants {
			subtotals[p] = perPerson
		}
	}

	taxRate := decimal.NewFromFloat(taxPercent).Div(decimal.NewFromInt(100))
	totalTax := total.Mul(taxRate)

	result := Result{
		Mode:     mode,
		Subtotal: total.Round(0).IntPart(),
		Tax:      totalTax.Round(0).IntPart(),
		Total:    total.Add(totalTax).Round(0).IntPart(),
	}

	// Tax is proportional to each person's pre-tax share.
	for _, p := range participants {
		sub := subtotals[p]
		var tax decimal.Decimal
		if total.IsPositive() {
			tax = sub.Div(total).Mul(totalTax)
		}
		result.Shares = append(result.Shares, PersonShare{
			Participant: p,
			Subtotal:    sub.Round(0).IntPart(),
			Tax:         tax.Round(0).IntPart(),
			Total:       sub.Add(tax).Round(0).IntPart(),
		})
	}
	return result, nil
}
