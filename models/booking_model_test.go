package models

import (
	"testing"
	"time"

	"github.com/dheerajgaurgithub/swachhcare/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotal(t *testing.T) {
	booking := Booking{
		BasePrice: money.INR(50000),
		Discount:  money.INR(13000),
		AddOns: []BookingAddOn{
			{Name: "Sofa Shampoo", Price: money.INR(15000)},
			{Name: "Balcony", Price: money.INR(5000)},
		},
	}

	require.NoError(t, booking.ComputeTotal())
	assert.Equal(t, int64(57000), booking.TotalAmount.Paise)
}

func TestComputeTotalDiscountCannotExceedSubtotal(t *testing.T) {
	booking := Booking{
		BasePrice: money.INR(10000),
		Discount:  money.INR(20000),
	}

	err := booking.ComputeTotal()
	assert.ErrorIs(t, err, money.ErrInvalidAmount)
}

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	booking := Booking{ScheduledAt: base, DurationMinutes: 120}

	assert.Equal(t, base.Add(2*time.Hour), booking.End())

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"identical window", base, base.Add(2 * time.Hour), true},
		{"starts inside", base.Add(time.Hour), base.Add(3 * time.Hour), true},
		{"ends inside", base.Add(-time.Hour), base.Add(time.Hour), true},
		{"contains", base.Add(-time.Hour), base.Add(3 * time.Hour), true},
		{"back to back after", base.Add(2 * time.Hour), base.Add(4 * time.Hour), false},
		{"back to back before", base.Add(-2 * time.Hour), base, false},
		{"disjoint", base.Add(5 * time.Hour), base.Add(6 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, booking.Overlaps(tt.start, tt.end))
		})
	}
}
