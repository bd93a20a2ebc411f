//go:build unit

package booking_test

import (
	"testing"
	"time"

	"rentwheels/internal/domain/booking"
	"rentwheels/internal/domain/vehicle"
	"rentwheels/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote(t *testing.T) {
	base := builder.BaseTime

	slot := func(d time.Duration) booking.TimeSlot {
		s, err := booking.NewTimeSlot(base, base.Add(d))
		require.NoError(t, err)
		return s
	}

	daily := func(cents int64) vehicle.RateCard { return vehicle.RateCard{DailyCents: &cents} }
	hourly := func(cents int64) vehicle.RateCard { return vehicle.RateCard{HourlyCents: &cents} }

	cases := []struct {
		name     string
		rates    vehicle.RateCard
		duration time.Duration
		want     int64
	}{
		{"daily rate, partial day rounds up", daily(1000), 25 * time.Hour, 2000},
		{"daily rate, exact days", daily(1500), 48 * time.Hour, 3000},
		{"daily rate, single partial day", daily(1500), 6 * time.Hour, 1500},
		{"hourly rate, partial hour rounds up", hourly(100), 90 * time.Minute, 200},
		{"hourly rate, exact hours", hourly(100), 3 * time.Hour, 300},
		{"hourly rate, sub-hour minimum", hourly(250), time.Minute, 250},
		{"daily rate wins when both present", vehicle.RateCard{DailyCents: ptr(int64(1000)), HourlyCents: ptr(int64(1))}, 25 * time.Hour, 2000},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := booking.Quote(tc.rates, slot(tc.duration))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Cents())
		})
	}

	t.Run("no rate configured", func(t *testing.T) {
		_, err := booking.Quote(vehicle.RateCard{}, slot(24*time.Hour))
		assert.ErrorIs(t, err, booking.ErrNoRate)
	})

	t.Run("deterministic", func(t *testing.T) {
		s := slot(36 * time.Hour)
		first, err := booking.Quote(daily(1500), s)
		require.NoError(t, err)
		second, err := booking.Quote(daily(1500), s)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func ptr[T any](v T) *T { return &v }
