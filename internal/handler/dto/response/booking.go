package response

import (
	"time"

	"rentwheels/internal/usecase/commands"
	"rentwheels/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingReceiptResponse struct {
	BookingID     uuid.UUID `json:"bookingId"`
	VehicleID     uuid.UUID `json:"vehicleId"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	TotalCents    int64     `json:"totalCents"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	PaymentRef    string    `json:"paymentRef"`
	RedirectURL   *string   `json:"redirectUrl,omitempty"`
}

type BookingResponse struct {
	ID            uuid.UUID `json:"id"`
	VehicleID     uuid.UUID `json:"vehicleId"`
	VehicleMake   string    `json:"vehicleMake"`
	VehicleModel  string    `json:"vehicleModel"`
	UserID        uuid.UUID `json:"userId"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	TotalCents    int64     `json:"totalCents"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	PaymentRef    *string   `json:"paymentRef,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type BookingListResponse struct {
	ID           uuid.UUID `json:"id"`
	VehicleID    uuid.UUID `json:"vehicleId"`
	VehicleMake  string    `json:"vehicleMake"`
	VehicleModel string    `json:"vehicleModel"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	TotalCents   int64     `json:"totalCents"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

type OwnerBookingResponse struct {
	ID         uuid.UUID `json:"id"`
	VehicleID  uuid.UUID `json:"vehicleId"`
	UserID     uuid.UUID `json:"userId"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	TotalCents int64     `json:"totalCents"`
	Status     string    `json:"status"`
}

func FromBookingReceipt(receipt *commands.BookingReceipt) *BookingReceiptResponse {
	var resp BookingReceiptResponse
	_ = copier.Copy(&resp, receipt)
	return &resp
}

func FromBookingView(view *queries.BookingView) *BookingResponse {
	var resp BookingResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromBookingListItem(item *queries.BookingListItem) *BookingListResponse {
	var resp BookingListResponse
	_ = copier.Copy(&resp, item)
	return &resp
}

func FromOwnerBookingItem(item *queries.OwnerBookingItem) *OwnerBookingResponse {
	var resp OwnerBookingResponse
	_ = copier.Copy(&resp, item)
	return &resp
}
