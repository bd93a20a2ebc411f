package booking

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further booking-status transition is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// ActiveStatuses are the statuses that claim a vehicle's time slot exclusively.
func ActiveStatuses() []Status {
	return []Status{StatusPending, StatusConfirmed}
}

type PaymentStatus string

const (
	PaymentPending         PaymentStatus = "pending"
	PaymentAwaitingPayment PaymentStatus = "awaiting_payment"
	PaymentPaid            PaymentStatus = "paid"
	PaymentFailed          PaymentStatus = "failed"
)

func (p PaymentStatus) String() string {
	return string(p)
}

func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentPending, PaymentAwaitingPayment, PaymentPaid, PaymentFailed:
		return true
	default:
		return false
	}
}
