package jobs

import (
	"context"
	"log/slog"
	"time"

	"rentwheels/internal/domain/booking"
	"rentwheels/internal/pkg/clock"
	"rentwheels/internal/usecase/shared"
)

// Reconciler sweeps bookings that were inserted but whose creation flow never
// finished recording a payment intent. Such rows stay (pending, pending)
// forever and keep their slot blocked, so after a grace period they are
// cancelled. The conditional update means a booking that progressed in the
// meantime is left alone.
type Reconciler struct {
	uow          shared.UnitOfWork
	clock        clock.Clock
	stuckTimeout time.Duration
}

func NewReconciler(uow shared.UnitOfWork, clk clock.Clock, stuckTimeout time.Duration) *Reconciler {
	return &Reconciler{
		uow:          uow,
		clock:        clk,
		stuckTimeout: stuckTimeout,
	}
}

func (r *Reconciler) Run(ctx context.Context) {
	cutoff := r.clock.Now().Add(-r.stuckTimeout)

	var swept, skipped int
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ids, err := tx.Bookings().SelectStuckPending(ctx, tx.DB(), cutoff)
		if err != nil {
			return err
		}

		for _, id := range ids {
			affected, err := tx.Bookings().UpdateStatusIfCurrent(ctx, tx.DB(), id, booking.StatusPending, booking.StatusCancelled)
			if err != nil {
				return err
			}
			if affected == 0 {
				skipped++
				continue
			}
			swept++
			slog.Info("cancelled stuck pending booking", "booking_id", id.String())
		}
		return nil
	})
	if err != nil {
		slog.Error("booking reconciliation sweep failed", "error", err.Error())
		return
	}

	if swept > 0 || skipped > 0 {
		slog.Info("booking reconciliation sweep finished", "cancelled", swept, "skipped", skipped)
	}
}
