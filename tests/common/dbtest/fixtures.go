//go:build unit || integration || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// CreateTestVehicle inserts a vehicle with the given rate card and returns
// its id. Nil rates insert as NULL.
func CreateTestVehicle(t *testing.T, db DBLike, ownerID uuid.UUID, make, model string, dailyCents, hourlyCents *int64) uuid.UUID {
	t.Helper()

	vehicleID := uuid.New()
	ctx := context.Background()
	_, err := db.Exec(ctx,
		`INSERT INTO vehicles (id, owner_id, make, model, daily_rate_cents, hourly_rate_cents)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		vehicleID, ownerID, make, model, dailyCents, hourlyCents)
	require.NoError(t, err)

	return vehicleID
}

// CreateTestBooking inserts a booking row directly, bypassing the command
// flow, for tests that need a row in a specific state.
func CreateTestBooking(t *testing.T, db DBLike, vehicleID, userID uuid.UUID, start, end time.Time, totalCents int64, status, paymentStatus string) uuid.UUID {
	t.Helper()

	bookingID := uuid.New()
	ctx := context.Background()
	_, err := db.Exec(ctx,
		`INSERT INTO bookings (id, vehicle_id, user_id, start_time, end_time, total_cents, status, payment_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		bookingID, vehicleID, userID, start, end, totalCents, status, paymentStatus)
	require.NoError(t, err)

	return bookingID
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// ResetDB truncates all public tables so tests sharing a database start clean.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
