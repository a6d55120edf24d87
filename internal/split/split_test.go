package split

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateEqual(t *testing.T) {
	result, err := Calculate(ModeEqual,
		[]string{"Andi", "Budi", "Citra"},
		[]Item{
			{Name: "Nasi Goreng", Price: 45_000},
			{Name: "Es Teh", Price: 15_000},
		},
		0,
	)
	require.NoError(t, err)

	assert.Equal(t, int64(60_000), result.Subtotal)
	assert.Equal(t, int64(0), result.Tax)
	require.Len(t, result.Shares, 3)
	for _, s := range result.Shares {
		assert.Equal(t, int64(20_000), s.Total)
	}
}

func TestCalculateEqualWithTax(t *testing.T) {
	result, err := Calculate(ModeEqual,
		[]string{"Andi", "Budi"},
		[]Item{{Name: "Pizza", Price: 100_000}},
		11, // PPN
	)
	require.NoError(t, err)

	assert.Equal(t, int64(100_000), result.Subtotal)
	assert.Equal(t, int64(11_000), result.Tax)
	assert.Equal(t, int64(111_000), result.Total)
	for _, s := range result.Shares {
		assert.Equal(t, int64(50_000), s.Subtotal)
		assert.Equal(t, int64(5_500), s.Tax)
		assert.Equal(t, int64(55_500), s.Total)
	}
}

func TestCalculateCustom(t *testing.T) {
	result, err := Calculate(ModeCustom,
		[]string{"Andi", "Budi"},
		[]Item{
			{Name: "Steak", Price: 90_000, SharedBy: []string{"Andi"}},
			{Name: "Kentang", Price: 30_000, SharedBy: []string{"Andi", "Budi"}},
		},
		0,
	)
	require.NoError(t, err)

	assert.Equal(t, int64(120_000), result.Subtotal)
	require.Len(t, result.Shares, 2)

	byName := map[string]PersonShare{}
	for _, s := range result.Shares {
		byName[s.Participant] = s
	}
	assert.Equal(t, int64(105_000), byName["Andi"].Total)
	assert.Equal(t, int64(15_000), byName["Budi"].Total)
}

func TestCalculateCustomTaxProportional(t *testing.T) {
	result, err := Calculate(ModeCustom,
		[]string{"Andi", "Budi"},
		[]Item{
			{Name: "Mahal", Price: 75_000, SharedBy: []string{"Andi"}},
			{Name: "Murah", Price: 25_000, SharedBy: []string{"Budi"}},
		},
		10,
	)
	require.NoError(t, err)

	byName := map[string]PersonShare{}
	for _, s := range result.Shares {
		byName[s.Participant] = s
	}
	assert.Equal(t, int64(7_500), byName["Andi"].Tax, "tax follows the pre-tax share")
	assert.Equal(t, int64(2_500), byName["Budi"].Tax)
	assert.Equal(t, result.Tax, byName["Andi"].Tax+byName["Budi"].Tax)
}

func TestCalculateValidation(t *testing.T) {
	_, err := Calculate(ModeEqual, nil, []Item{{Price: 100}}, 0)
	assert.ErrorIs(t, err, ErrNoParticipants)

	_, err = Calculate(ModeEqual, []string{"Andi"}, nil, 0)
	assert.ErrorIs(t, err, ErrNoItems)

	_, err = Calculate(ModeEqual, []string{"Andi"}, []Item{{Price: 0}}, 0)
	assert.ErrorIs(t, err, ErrBadItem)

	_, err = Calculate(ModeCustom, []string{"Andi"}, []Item{{Price: 100}}, 0)
	assert.ErrorIs(t, err, ErrBadItem, "custom items need sharers")

	_, err = Calculate(ModeCustom, []string{"Andi"}, []Item{{Price: 100, SharedBy: []string{"Dian"}}}, 0)
	assert.ErrorIs(t, err, ErrBadItem, "sharers must be participants")
}

func TestCalculateUnknownModeFallsBackToEqual(t *testing.T) {
	result, err := Calculate("whatever", []string{"Andi"}, []Item{{Price: 100}}, 0)
	require.NoError(t, err)
	assert.Equal(t, ModeEqual, result.Mode)
}
