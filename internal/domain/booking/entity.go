package booking

import (
	"errors"
	"time"

	"rentwheels/internal/domain/vehicle"
	"rentwheels/internal/pkg/clock"

	"github.com/google/uuid"
)

// MinCancelLead is the minimum lead time before a booking's start at which
// cancellation is still permitted.
const MinCancelLead = 24 * time.Hour

var (
	ErrAlreadyFinalized         = errors.New("booking is already cancelled or completed")
	ErrCancellationWindowClosed = errors.New("cancellation window has closed")
)

type Booking struct {
	id            uuid.UUID
	vehicleID     uuid.UUID
	userID        uuid.UUID
	slot          TimeSlot
	totalCost     Money
	status        Status
	paymentStatus PaymentStatus
	paymentRef    *string
	createdAt     time.Time
	updatedAt     time.Time
}

// Factory builds new bookings. Price and the not-in-the-past check both need
// collaborators, so creation goes through here rather than a bare constructor.
type Factory struct {
	Clock clock.Clock
}

func NewFactory(clk clock.Clock) *Factory {
	return &Factory{Clock: clk}
}

// NewPendingBooking validates the slot against the current time, prices it
// from the vehicle's rates, and returns a booking in (pending, pending).
// The id is assigned by storage on insert.
func (f *Factory) NewPendingBooking(v *vehicle.Vehicle, userID uuid.UUID, slot TimeSlot) (*Booking, error) {
	if err := slot.ValidateNotPast(f.Clock.Now()); err != nil {
		return nil, err
	}

	cost, err := Quote(v.Rates(), slot)
	if err != nil {
		return nil, err
	}

	return &Booking{
		vehicleID:     v.ID(),
		userID:        userID,
		slot:          slot,
		totalCost:     cost,
		status:        StatusPending,
		paymentStatus: PaymentPending,
	}, nil
}

func Reconstruct(
	id, vehicleID, userID uuid.UUID,
	slot TimeSlot,
	totalCost Money,
	status Status,
	paymentStatus PaymentStatus,
	paymentRef *string,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:            id,
		vehicleID:     vehicleID,
		userID:        userID,
		slot:          slot,
		totalCost:     totalCost,
		status:        status,
		paymentStatus: paymentStatus,
		paymentRef:    paymentRef,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// ValidateCancellableAt checks the cancellation rules against now. Ownership
// is checked by the caller together with existence, so a non-owner cannot
// learn whether the booking exists.
func (b *Booking) ValidateCancellableAt(now time.Time) error {
	if b.status.IsTerminal() {
		return ErrAlreadyFinalized
	}
	if b.slot.Start().Sub(Normalize(now)) <= MinCancelLead {
		return ErrCancellationWindowClosed
	}
	return nil
}

func (b *Booking) IsActive() bool {
	return b.status == StatusPending || b.status == StatusConfirmed
}

func (b *Booking) ID() uuid.UUID                { return b.id }
func (b *Booking) VehicleID() uuid.UUID         { return b.vehicleID }
func (b *Booking) UserID() uuid.UUID            { return b.userID }
func (b *Booking) Slot() TimeSlot               { return b.slot }
func (b *Booking) TotalCost() Money             { return b.totalCost }
func (b *Booking) Status() Status               { return b.status }
func (b *Booking) PaymentStatus() PaymentStatus { return b.paymentStatus }
func (b *Booking) PaymentRef() *string          { return b.paymentRef }
func (b *Booking) CreatedAt() time.Time         { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time         { return b.updatedAt }
