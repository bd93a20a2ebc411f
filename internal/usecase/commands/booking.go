package commands

import (
	"context"
	"fmt"
	"log/slog"

	"rentwheels/internal/domain/booking"
	"rentwheels/internal/domain/vehicle"
	"rentwheels/internal/infra"
	"rentwheels/internal/infra/db"
	"rentwheels/internal/pkg/clock"
	"rentwheels/internal/pkg/config"
	"rentwheels/internal/pkg/errs"
	"rentwheels/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrVehicleNotFound         = errs.New("vehicle not found")
	ErrBookingNotFound         = errs.New("booking not found")
	ErrInvalidTimeSlot         = errs.New("invalid time slot")
	ErrBookingConflict         = errs.New("booking conflict")
	ErrVehicleNotPriceable     = errs.New("vehicle has no rate configured")
	ErrBookingFinalized        = errs.New("booking is already cancelled or completed")
	ErrCancellationWindow      = errs.New("cancellation window has closed")
	ErrConcurrentModification  = errs.New("booking was modified concurrently")
	ErrPaymentGatewayFailed    = errs.New("payment gateway request failed")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type BookingCommands interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*BookingReceipt, error)
	CancelBooking(ctx context.Context, bookingID, requestingUserID uuid.UUID) error
}

type bookingCommandsImpl struct {
	uow      shared.UnitOfWork
	bookings shared.BookingRepository
	catalog  shared.VehicleCatalog
	gateway  PaymentGateway
	factory  *booking.Factory
	clock    clock.Clock
	payment  config.PaymentConfig
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	bookings shared.BookingRepository,
	catalog shared.VehicleCatalog,
	gateway PaymentGateway,
	factory *booking.Factory,
	clk clock.Clock,
	payment config.PaymentConfig,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:      uow,
		bookings: bookings,
		catalog:  catalog,
		gateway:  gateway,
		factory:  factory,
		clock:    clk,
		payment:  payment,
	}
}

// CreateBooking drives one booking-creation attempt: validate, resolve the
// vehicle and price, then a single transaction that inserts the pending row,
// creates the payment intent, and records the intent reference. Any failure
// after the insert rolls the local transaction back; the remote intent, if
// one was created, is left to expire at the gateway (see the reconciler).
func (c *bookingCommandsImpl) CreateBooking(ctx context.Context, in CreateBookingInput) (*BookingReceipt, error) {
	slot, err := booking.NewTimeSlot(in.StartTime, in.EndTime)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidTimeSlot)
	}
	// Time validation precedes the vehicle lookup so a request that is both
	// stale and for an unknown vehicle reports the slot problem.
	if err := slot.ValidateNotPast(c.clock.Now()); err != nil {
		return nil, errs.Mark(err, ErrInvalidTimeSlot)
	}

	vehicleEntity, err := c.resolveVehicle(ctx, in.VehicleID)
	if err != nil {
		return nil, err
	}

	pending, err := c.factory.NewPendingBooking(vehicleEntity, in.UserID, slot)
	if err != nil {
		switch {
		case errs.Is(err, booking.ErrStartInPast):
			return nil, errs.Mark(err, ErrInvalidTimeSlot)
		case errs.Is(err, booking.ErrNoRate):
			return nil, errs.Mark(err, ErrVehicleNotPriceable)
		default:
			return nil, errs.Mark(err, ErrInvalidTimeSlot)
		}
	}

	// Advisory pre-check only: the exclusion constraint re-verifies at insert
	// time under the per-vehicle lock.
	if err := c.checkAvailability(ctx, in.VehicleID, slot); err != nil {
		return nil, err
	}

	return c.executeBookingTransaction(ctx, pending, vehicleEntity, in)
}

func (c *bookingCommandsImpl) executeBookingTransaction(
	ctx context.Context,
	pending *booking.Booking,
	vehicleEntity *vehicle.Vehicle,
	in CreateBookingInput,
) (*BookingReceipt, error) {
	var receipt *BookingReceipt

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.LockVehicle(ctx, in.VehicleID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		overlapping, err := tx.Bookings().CountOverlapping(ctx, tx.DB(), in.VehicleID, pending.Slot(), booking.ActiveStatuses())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if overlapping > 0 {
			return ErrBookingConflict
		}

		bookingID, err := tx.Bookings().InsertPending(ctx, tx.DB(), pending)
		if err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrBookingConflict
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		intent, err := c.gateway.CreateIntent(ctx, PaymentIntentInput{
			AmountCents: pending.TotalCost().Cents(),
			Currency:    c.payment.Currency,
			Description: intentDescription(vehicleEntity, pending.Slot()),
			MethodType:  in.PaymentMethodType,
			SuccessURL:  c.payment.SuccessURL,
			FailureURL:  c.payment.FailureURL,
			Metadata: map[string]string{
				"booking_id": bookingID.String(),
				"user_id":    in.UserID.String(),
			},
		})
		if err != nil {
			slog.Error("payment intent creation failed, rolling back booking",
				"vehicle_id", in.VehicleID.String(),
				"user_id", in.UserID.String(),
				"error", err.Error())
			return errs.Mark(err, ErrPaymentGatewayFailed)
		}

		if err := tx.Bookings().UpdatePaymentReference(ctx, tx.DB(), bookingID, intent.ID, booking.PaymentAwaitingPayment); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		receipt = &BookingReceipt{
			BookingID:     bookingID,
			VehicleID:     in.VehicleID,
			StartTime:     pending.Slot().Start(),
			EndTime:       pending.Slot().End(),
			TotalCents:    pending.TotalCost().Cents(),
			Status:        booking.StatusPending.String(),
			PaymentStatus: booking.PaymentAwaitingPayment.String(),
			PaymentRef:    intent.ID,
			RedirectURL:   intent.RedirectURL,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return receipt, nil
}

// CancelBooking enforces the cancellation policy and applies the transition
// with a conditional update so a concurrent state change is detected instead
// of silently overwritten.
func (c *bookingCommandsImpl) CancelBooking(ctx context.Context, bookingID, requestingUserID uuid.UUID) error {
	snap, err := c.uow.CommandReads().BookingByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrBookingNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	// Ownership and existence fail identically so non-owners cannot probe for
	// booking ids.
	if snap.UserID != requestingUserID {
		return ErrBookingNotFound
	}

	current := booking.Status(snap.Status)
	if current.IsTerminal() {
		return ErrBookingFinalized
	}
	if snap.StartTime.Sub(booking.Normalize(c.clock.Now())) <= booking.MinCancelLead {
		return ErrCancellationWindow
	}

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		affected, err := tx.Bookings().UpdateStatusIfCurrent(ctx, tx.DB(), bookingID, current, booking.StatusCancelled)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if affected == 0 {
			return ErrConcurrentModification
		}
		return nil
	})
}

func (c *bookingCommandsImpl) resolveVehicle(ctx context.Context, vehicleID uuid.UUID) (*vehicle.Vehicle, error) {
	snap, err := c.catalog.GetByID(ctx, vehicleID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	v, err := vehicle.NewVehicle(snap.ID, snap.OwnerID, snap.Make, snap.Model, vehicle.RateCard{
		DailyCents:  snap.DailyCents,
		HourlyCents: snap.HourlyCents,
	})
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return v, nil
}

func (c *bookingCommandsImpl) checkAvailability(ctx context.Context, vehicleID uuid.UUID, slot booking.TimeSlot) error {
	return c.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		overlapping, err := c.bookings.CountOverlapping(ctx, dbtx, vehicleID, slot, booking.ActiveStatuses())
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if overlapping > 0 {
			return ErrBookingConflict
		}
		return nil
	})
}

func intentDescription(v *vehicle.Vehicle, slot booking.TimeSlot) string {
	return fmt.Sprintf("%s %s rental %s", v.Make(), v.Model(), slot.String())
}
