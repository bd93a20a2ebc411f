package shared

import (
	"context"
	"time"

	"rentwheels/internal/domain/booking"
	"rentwheels/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Reads() CommandReads
	// LockVehicle takes a transaction-scoped advisory lock on the vehicle so
	// that availability check and insert are linearizable per vehicle.
	LockVehicle(ctx context.Context, vehicleID uuid.UUID) error
	DB() db.DBTX
}

type CommandReads interface {
	BookingByID(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
}

// BookingRepository is the write-side store contract for bookings.
type BookingRepository interface {
	InsertPending(ctx context.Context, dbtx db.DBTX, b *booking.Booking) (uuid.UUID, error)
	UpdatePaymentReference(ctx context.Context, dbtx db.DBTX, id uuid.UUID, ref string, status booking.PaymentStatus) error
	// UpdateStatusIfCurrent performs a conditional status transition and
	// returns the number of affected rows. Zero means a concurrent writer won.
	UpdateStatusIfCurrent(ctx context.Context, dbtx db.DBTX, id uuid.UUID, expected, next booking.Status) (int64, error)
	CountOverlapping(ctx context.Context, dbtx db.DBTX, vehicleID uuid.UUID, slot booking.TimeSlot, statuses []booking.Status) (int64, error)
	SelectStuckPending(ctx context.Context, dbtx db.DBTX, olderThan time.Time) ([]uuid.UUID, error)
}

// VehicleCatalog resolves a vehicle id to rate and descriptive data. It is an
// external collaborator from the booking core's point of view.
type VehicleCatalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*VehicleSnapshot, error)
}
