package request

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	VehicleID         uuid.UUID `json:"vehicle_id" binding:"required"`
	StartTime         time.Time `json:"start_time" binding:"required"`
	EndTime           time.Time `json:"end_time" binding:"required"`
	PaymentMethodType *string   `json:"payment_method_type,omitempty"`
}

func (r CreateBookingRequest) GetPaymentMethodType() string {
	if r.PaymentMethodType == nil {
		return ""
	}
	return strings.TrimSpace(*r.PaymentMethodType)
}
