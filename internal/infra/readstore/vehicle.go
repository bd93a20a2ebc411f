package readstore

import (
	"context"

	"rentwheels/internal/infra"
	"rentwheels/internal/infra/db"
	"rentwheels/internal/pkg/pgconv"
	"rentwheels/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// VehicleReadStore resolves vehicle ids to rate and descriptive data for the
// booking flow.
type VehicleReadStore struct {
	db db.DBTX
}

func NewVehicleReadStore(dbtx db.DBTX) *VehicleReadStore {
	return &VehicleReadStore{db: dbtx}
}

const findVehicleByIDSQL = `
SELECT id, owner_id, make, model, daily_rate_cents, hourly_rate_cents
FROM vehicles
WHERE id = $1`

func (r *VehicleReadStore) GetByID(ctx context.Context, id uuid.UUID) (*shared.VehicleSnapshot, error) {
	var (
		snap   shared.VehicleSnapshot
		daily  pgtype.Int8
		hourly pgtype.Int8
	)
	err := r.db.QueryRow(ctx, findVehicleByIDSQL, id).Scan(
		&snap.ID, &snap.OwnerID, &snap.Make, &snap.Model, &daily, &hourly,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("vehicle not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find vehicle by ID", err)
	}

	snap.DailyCents = pgconv.Int64PtrFromPgtype(daily)
	snap.HourlyCents = pgconv.Int64PtrFromPgtype(hourly)
	return &snap, nil
}
