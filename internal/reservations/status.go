package reservations

import "github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/lifecycle"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPartial  PaymentStatus = "partial"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

var statusMachine = lifecycle.NewMachine("reservation status", map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCompleted, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}, StatusCompleted, StatusCancelled)

var paymentMachine = lifecycle.NewMachine("reservation payment", map[PaymentStatus][]PaymentStatus{
	PaymentPending: {PaymentPartial, PaymentPaid, PaymentRefunded},
	PaymentPartial: {PaymentPaid, PaymentRefunded},
	PaymentPaid:    {PaymentRefunded},
}, PaymentRefunded)

func CheckStatus(from, to Status) error { return statusMachine.Check(from, to) }

func CheckPayment(from, to PaymentStatus) error { return paymentMachine.Check(from, to) }

func (s Status) Valid() bool { return statusMachine.Known(s) }

func (p PaymentStatus) Valid() bool { return paymentMachine.Known(p) }

func Statuses() []Status {
	return []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}
}

func PaymentStatuses() []PaymentStatus {
	return []PaymentStatus{PaymentPending, PaymentPartial, PaymentPaid, PaymentRefunded}
}
