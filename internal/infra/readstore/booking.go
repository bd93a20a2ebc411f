package readstore

import (
	"context"

	"rentwheels/internal/infra"
	"rentwheels/internal/infra/db"
	"rentwheels/internal/pkg/pgconv"
	"rentwheels/internal/usecase/queries"
	"rentwheels/internal/usecase/shared"

	"github.com/google/uuid"
)

// BookingReadStore serves both the query side (joined views) and the command
// side's pre-write snapshot reads. It runs against whatever DBTX it is bound
// to, so the same store works on the pool and inside a transaction.
type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

const findBookingByIDSQL = `
SELECT b.id, b.vehicle_id, v.make, v.model, b.user_id,
       b.start_time, b.end_time, b.total_cents,
       b.status, b.payment_status, b.payment_ref,
       b.created_at, b.updated_at
FROM bookings b
JOIN vehicles v ON v.id = b.vehicle_id
WHERE b.id = $1`

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	var view queries.BookingView
	err := r.db.QueryRow(ctx, findBookingByIDSQL, id).Scan(
		&view.ID, &view.VehicleID, &view.VehicleMake, &view.VehicleModel, &view.UserID,
		&view.StartTime, &view.EndTime, &view.TotalCents,
		&view.Status, &view.PaymentStatus, &view.PaymentRef,
		&view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}
	return &view, nil
}

const findBookingsByUserSQL = `
SELECT b.id, b.vehicle_id, v.make, v.model,
       b.start_time, b.end_time, b.total_cents, b.status, b.created_at
FROM bookings b
JOIN vehicles v ON v.id = b.vehicle_id
WHERE b.user_id = $1
ORDER BY b.created_at DESC, b.id DESC
LIMIT $2`

func (r *BookingReadStore) FindByUserID(ctx context.Context, userID uuid.UUID, limit int32) ([]*queries.BookingListItem, error) {
	rows, err := r.db.Query(ctx, findBookingsByUserSQL, userID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find bookings by user", err)
	}
	defer rows.Close()

	var result []*queries.BookingListItem
	for rows.Next() {
		var item queries.BookingListItem
		if err := rows.Scan(
			&item.ID, &item.VehicleID, &item.VehicleMake, &item.VehicleModel,
			&item.StartTime, &item.EndTime, &item.TotalCents, &item.Status, &item.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking list row", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking list rows", err)
	}
	return result, nil
}

const findBookingsByOwnerSQL = `
SELECT b.id, b.vehicle_id, b.user_id,
       b.start_time, b.end_time, b.total_cents, b.status
FROM bookings b
JOIN vehicles v ON v.id = b.vehicle_id
WHERE v.owner_id = $1
ORDER BY b.start_time DESC, b.id DESC
LIMIT $2`

func (r *BookingReadStore) FindByOwnerID(ctx context.Context, ownerID uuid.UUID, limit int32) ([]*queries.OwnerBookingItem, error) {
	rows, err := r.db.Query(ctx, findBookingsByOwnerSQL, ownerID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find bookings by owner", err)
	}
	defer rows.Close()

	var result []*queries.OwnerBookingItem
	for rows.Next() {
		var item queries.OwnerBookingItem
		if err := rows.Scan(
			&item.ID, &item.VehicleID, &item.UserID,
			&item.StartTime, &item.EndTime, &item.TotalCents, &item.Status,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan owner booking row", err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate owner booking rows", err)
	}
	return result, nil
}

const findBookingSnapshotSQL = `
SELECT id, vehicle_id, user_id, status, payment_status, start_time, end_time
FROM bookings
WHERE id = $1`

// FindSnapshotByID is the command side's view: just the fields cancellation
// and reconciliation decisions depend on.
func (r *BookingReadStore) FindSnapshotByID(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	var snap shared.BookingSnapshot
	err := r.db.QueryRow(ctx, findBookingSnapshotSQL, id).Scan(
		&snap.ID, &snap.VehicleID, &snap.UserID,
		&snap.Status, &snap.PaymentStatus, &snap.StartTime, &snap.EndTime,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking snapshot", err)
	}
	return &snap, nil
}
