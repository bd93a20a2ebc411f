package shared

import (
	"time"

	"github.com/google/uuid"
)

// Write-side snapshots prevent dependency on Read-side query types (CQRS separation)
type VehicleSnapshot struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Make        string
	Model       string
	DailyCents  *int64
	HourlyCents *int64
}

type BookingSnapshot struct {
	ID            uuid.UUID
	VehicleID     uuid.UUID
	UserID        uuid.UUID
	Status        string
	PaymentStatus string
	StartTime     time.Time
	EndTime       time.Time
}
