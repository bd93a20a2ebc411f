//go:build unit || integration || e2e

package builder

import (
	"time"

	"rentwheels/internal/domain/booking"
	"rentwheels/internal/domain/vehicle"
	"rentwheels/internal/pkg/clock"

	"github.com/google/uuid"
)

// BaseTime is the fixed "now" all builder-produced fixtures are anchored to.
var BaseTime = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

type BookingBuilder struct {
	vehicleID uuid.UUID
	userID    uuid.UUID
	start     time.Time
	end       time.Time
	now       time.Time
	rates     vehicle.RateCard
	make      string
	model     string
}

func NewBookingBuilder() *BookingBuilder {
	daily := int64(150000)
	return &BookingBuilder{
		vehicleID: uuid.New(),
		userID:    uuid.New(),
		start:     BaseTime.Add(48 * time.Hour),
		end:       BaseTime.Add(96 * time.Hour),
		now:       BaseTime,
		rates:     vehicle.RateCard{DailyCents: &daily},
		make:      "Toyota",
		model:     "Corolla",
	}
}

func (b *BookingBuilder) WithVehicleID(id uuid.UUID) *BookingBuilder { b.vehicleID = id; return b }
func (b *BookingBuilder) WithUserID(id uuid.UUID) *BookingBuilder    { b.userID = id; return b }
func (b *BookingBuilder) WithNow(now time.Time) *BookingBuilder      { b.now = now; return b }

func (b *BookingBuilder) WithSlot(start, end time.Time) *BookingBuilder {
	b.start = start
	b.end = end
	return b
}

func (b *BookingBuilder) WithDailyRate(cents int64) *BookingBuilder {
	b.rates = vehicle.RateCard{DailyCents: &cents}
	return b
}

func (b *BookingBuilder) WithHourlyRate(cents int64) *BookingBuilder {
	b.rates = vehicle.RateCard{HourlyCents: &cents}
	return b
}

func (b *BookingBuilder) WithNoRates() *BookingBuilder {
	b.rates = vehicle.RateCard{}
	return b
}

func (b *BookingBuilder) BuildVehicle() (*vehicle.Vehicle, error) {
	return vehicle.NewVehicle(b.vehicleID, uuid.New(), b.make, b.model, b.rates)
}

func (b *BookingBuilder) BuildSlot() (booking.TimeSlot, error) {
	return booking.NewTimeSlot(b.start, b.end)
}

func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	v, err := b.BuildVehicle()
	if err != nil {
		return nil, err
	}
	slot, err := b.BuildSlot()
	if err != nil {
		return nil, err
	}
	factory := booking.NewFactory(clock.NewMockClock(b.now))
	return factory.NewPendingBooking(v, b.userID, slot)
}
