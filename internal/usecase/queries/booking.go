package queries

import (
	"context"
	"time"

	"rentwheels/internal/infra"
	"rentwheels/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrBookingNotFound = errs.New("booking not found")

// Read models (DTO for read side)
type BookingView struct {
	ID            uuid.UUID `json:"id"`
	VehicleID     uuid.UUID `json:"vehicle_id"`
	VehicleMake   string    `json:"vehicle_make"`
	VehicleModel  string    `json:"vehicle_model"`
	UserID        uuid.UUID `json:"user_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	TotalCents    int64     `json:"total_cents"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	PaymentRef    *string   `json:"payment_ref,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type BookingListItem struct {
	ID           uuid.UUID `json:"id"`
	VehicleID    uuid.UUID `json:"vehicle_id"`
	VehicleMake  string    `json:"vehicle_make"`
	VehicleModel string    `json:"vehicle_model"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	TotalCents   int64     `json:"total_cents"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// OwnerBookingItem is the owner-facing listing row: it includes the renter id
// so an owner can see who holds each slot on their fleet.
type OwnerBookingItem struct {
	ID         uuid.UUID `json:"id"`
	VehicleID  uuid.UUID `json:"vehicle_id"`
	UserID     uuid.UUID `json:"user_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	TotalCents int64     `json:"total_cents"`
	Status     string    `json:"status"`
}

type BookingQueries interface {
	GetByID(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*BookingView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*BookingListItem, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]*OwnerBookingItem, error)
}

type BookingViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit int32) ([]*BookingListItem, error)
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID, limit int32) ([]*OwnerBookingItem, error)
}

type bookingQueriesImpl struct {
	repo BookingViewRepo
}

func NewBookingQueries(repo BookingViewRepo) BookingQueries {
	return &bookingQueriesImpl{repo: repo}
}

// GetByID returns the booking only to the user who placed it; anyone else
// gets the same not-found as a nonexistent id.
func (q *bookingQueriesImpl) GetByID(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*BookingView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if view.UserID != actor {
		return nil, ErrBookingNotFound
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*BookingListItem, error) {
	if limit <= 0 {
		limit = 50
	}
	return q.repo.FindByUserID(ctx, userID, int32(limit))
}

func (q *bookingQueriesImpl) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]*OwnerBookingItem, error) {
	if limit <= 0 {
		limit = 50
	}
	return q.repo.FindByOwnerID(ctx, ownerID, int32(limit))
}
