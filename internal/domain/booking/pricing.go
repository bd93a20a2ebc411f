package booking

import (
	"errors"
	"time"

	"rentwheels/internal/domain/vehicle"
)

// ErrNoRate is returned when a vehicle carries neither a daily nor an hourly
// rate. A booking is never priced at zero by default.
var ErrNoRate = errors.New("vehicle has no pricing rate configured")

// Quote computes the cost of renting at the given rates for the given slot.
// Daily rate wins when both are present; any partial billing unit rounds up.
// Pure function: no I/O, deterministic given inputs.
func Quote(rates vehicle.RateCard, slot TimeSlot) (Money, error) {
	switch {
	case rates.DailyCents != nil:
		units := ceilUnits(slot.Duration(), 24*time.Hour)
		return NewMoney(*rates.DailyCents * units)
	case rates.HourlyCents != nil:
		units := ceilUnits(slot.Duration(), time.Hour)
		return NewMoney(*rates.HourlyCents * units)
	default:
		return Money{}, ErrNoRate
	}
}

func ceilUnits(d, unit time.Duration) int64 {
	units := int64(d / unit)
	if d%unit != 0 {
		units++
	}
	return units
}
