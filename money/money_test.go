package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndSub(t *testing.T) {
	a := INR(50000)
	b := INR(12550)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(62550), sum.Paise)

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, int64(37450), diff.Paise)
}

func TestSubRejectsNegativeResult(t *testing.T) {
	_, err := INR(100).Sub(INR(101))
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCurrencyMismatch(t *testing.T) {
	inr := INR(100)
	usd := New(100, "USD")

	_, err := inr.Add(usd)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	_, err = inr.Sub(usd)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	_, err = inr.Cmp(usd)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestMulPercentRoundsHalfUp(t *testing.T) {
	tests := []struct {
		name        string
		paise       int64
		basisPoints int64
		want        int64
	}{
		{"20% of 1179 rounds up", 1179, 2000, 236},
		{"20% of whole amount", 50000, 2000, 10000},
		{"exact half rounds up", 25, 1000, 3}, // 2.5 → 3
		{"just below half rounds down", 124, 1000, 12},
		{"zero rate", 50000, 0, 0},
		{"full rate", 50000, 10000, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := INR(tt.paise).MulPercent(tt.basisPoints)
			assert.Equal(t, tt.want, got.Paise)
			assert.Equal(t, "INR", got.Currency)
		})
	}
}

func TestMulRateZeroDenominator(t *testing.T) {
	got := INR(500).MulRate(1, 0)
	assert.Equal(t, int64(0), got.Paise)
}

func TestCmp(t *testing.T) {
	small := INR(100)
	big := INR(200)

	cmp, err := small.Cmp(big)
	require.NoError(t, err)
	assert.Equal(t, -1, cmp)

	cmp, err = big.Cmp(small)
	require.NoError(t, err)
	assert.Equal(t, 1, cmp)

	cmp, err = small.Cmp(INR(100))
	require.NoError(t, err)
	assert.Equal(t, 0, cmp)
}

func TestPredicates(t *testing.T) {
	assert.True(t, Zero("INR").IsZero())
	assert.False(t, INR(1).IsZero())
	assert.True(t, New(-1, "INR").IsNegative())
	assert.False(t, INR(1).IsNegative())
}
