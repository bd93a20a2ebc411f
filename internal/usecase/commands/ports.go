package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PaymentIntentInput carries everything the gateway needs to create an
// authorization-to-charge. Amount is in the smallest currency unit.
type PaymentIntentInput struct {
	AmountCents int64
	Currency    string
	Description string
	MethodType  string
	SuccessURL  string
	FailureURL  string
	Metadata    map[string]string
}

type PaymentIntent struct {
	ID          string
	RedirectURL *string
}

// PaymentGateway crosses a process boundary; calls may be slow or fail
// independently of local storage.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, in PaymentIntentInput) (*PaymentIntent, error)
	GetIntent(ctx context.Context, id string) (*PaymentIntent, error)
}

type CreateBookingInput struct {
	VehicleID         uuid.UUID
	UserID            uuid.UUID
	StartTime         time.Time
	EndTime           time.Time
	PaymentMethodType string
}

// BookingReceipt is the result of a successful booking creation.
type BookingReceipt struct {
	BookingID     uuid.UUID
	VehicleID     uuid.UUID
	StartTime     time.Time
	EndTime       time.Time
	TotalCents    int64
	Status        string
	PaymentStatus string
	PaymentRef    string
	RedirectURL   *string
}
