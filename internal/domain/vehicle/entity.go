package vehicle

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyMake    = errors.New("vehicle make cannot be empty")
	ErrEmptyModel   = errors.New("vehicle model cannot be empty")
	ErrNegativeRate = errors.New("rate cannot be negative")
)

// RateCard holds the flat rental rates in minor units. Either rate may be
// absent; pricing decides what that means.
type RateCard struct {
	DailyCents  *int64
	HourlyCents *int64
}

func (r RateCard) Validate() error {
	if r.DailyCents != nil && *r.DailyCents < 0 {
		return ErrNegativeRate
	}
	if r.HourlyCents != nil && *r.HourlyCents < 0 {
		return ErrNegativeRate
	}
	return nil
}

type Vehicle struct {
	id        uuid.UUID
	ownerID   uuid.UUID
	make      string
	model     string
	rates     RateCard
	createdAt time.Time
	updatedAt time.Time
}

func NewVehicle(id, ownerID uuid.UUID, makeName, model string, rates RateCard) (*Vehicle, error) {
	makeName = strings.TrimSpace(makeName)
	model = strings.TrimSpace(model)

	if makeName == "" {
		return nil, ErrEmptyMake
	}
	if model == "" {
		return nil, ErrEmptyModel
	}
	if err := rates.Validate(); err != nil {
		return nil, err
	}

	return &Vehicle{
		id:      id,
		ownerID: ownerID,
		make:    makeName,
		model:   model,
		rates:   rates,
	}, nil
}

func (v *Vehicle) ID() uuid.UUID        { return v.id }
func (v *Vehicle) OwnerID() uuid.UUID   { return v.ownerID }
func (v *Vehicle) Make() string         { return v.make }
func (v *Vehicle) Model() string        { return v.model }
func (v *Vehicle) Rates() RateCard      { return v.rates }
func (v *Vehicle) CreatedAt() time.Time { return v.createdAt }
func (v *Vehicle) UpdatedAt() time.Time { return v.updatedAt }
