package repository

import (
	"context"
	"time"

	"rentwheels/internal/domain/booking"
	"rentwheels/internal/infra"
	"rentwheels/internal/infra/db"

	"github.com/google/uuid"
)

// BookingRepository is the write side of booking storage. All statements run
// against the DBTX handed in by the unit of work, so the same code serves
// pooled and transactional execution.
type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

const insertPendingSQL = `
INSERT INTO bookings (vehicle_id, user_id, start_time, end_time, total_cents, status, payment_status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`

func (r *BookingRepository) InsertPending(ctx context.Context, dbtx db.DBTX, b *booking.Booking) (uuid.UUID, error) {
	var id uuid.UUID
	err := dbtx.QueryRow(ctx, insertPendingSQL,
		b.VehicleID(),
		b.UserID(),
		b.Slot().Start(),
		b.Slot().End(),
		b.TotalCost().Cents(),
		b.Status().String(),
		b.PaymentStatus().String(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to insert pending booking", err)
	}
	return id, nil
}

const updatePaymentRefSQL = `
UPDATE bookings
SET payment_ref = $2, payment_status = $3, updated_at = now()
WHERE id = $1`

func (r *BookingRepository) UpdatePaymentReference(ctx context.Context, dbtx db.DBTX, id uuid.UUID, ref string, status booking.PaymentStatus) error {
	tag, err := dbtx.Exec(ctx, updatePaymentRefSQL, id, ref, status.String())
	if err != nil {
		return infra.WrapRepoErr("failed to update payment reference", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found for payment reference update", nil, infra.KindNotFound)
	}
	return nil
}

const updateStatusIfCurrentSQL = `
UPDATE bookings
SET status = $3, updated_at = now()
WHERE id = $1 AND status = $2`

// UpdateStatusIfCurrent transitions only when the stored status still matches
// the one the caller decided on. Zero affected rows means a concurrent writer
// changed the booking first.
func (r *BookingRepository) UpdateStatusIfCurrent(ctx context.Context, dbtx db.DBTX, id uuid.UUID, expected, next booking.Status) (int64, error) {
	tag, err := dbtx.Exec(ctx, updateStatusIfCurrentSQL, id, expected.String(), next.String())
	if err != nil {
		return 0, infra.WrapRepoErr("failed to update booking status", err)
	}
	return tag.RowsAffected(), nil
}

const countOverlappingSQL = `
SELECT count(*)
FROM bookings
WHERE vehicle_id = $1
  AND status = ANY($4)
  AND start_time < $3
  AND end_time > $2`

// CountOverlapping applies the half-open interval test: an existing booking
// overlaps [start, end) when existing.start < end AND existing.end > start.
func (r *BookingRepository) CountOverlapping(ctx context.Context, dbtx db.DBTX, vehicleID uuid.UUID, slot booking.TimeSlot, statuses []booking.Status) (int64, error) {
	var count int64
	err := dbtx.QueryRow(ctx, countOverlappingSQL,
		vehicleID,
		slot.Start(),
		slot.End(),
		statusStrings(statuses),
	).Scan(&count)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count overlapping bookings", err)
	}
	return count, nil
}

const selectStuckPendingSQL = `
SELECT id
FROM bookings
WHERE status = 'pending'
  AND payment_status = 'pending'
  AND created_at < $1
ORDER BY created_at
LIMIT 100`

// SelectStuckPending returns bookings that never progressed past intent
// creation; the reconciler sweeps them.
func (r *BookingRepository) SelectStuckPending(ctx context.Context, dbtx db.DBTX, olderThan time.Time) ([]uuid.UUID, error) {
	rows, err := dbtx.Query(ctx, selectStuckPendingSQL, olderThan)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to select stuck pending bookings", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan stuck pending booking id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate stuck pending bookings", err)
	}
	return ids, nil
}

func statusStrings(statuses []booking.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.String()
	}
	return out
}
