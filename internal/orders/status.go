package orders

import "github.com/marrakechreviews/Marrakech.Reviews-sub001/internal/lifecycle"

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Forward moves may skip steps (pending -> shipped). Cancel only before shipping.
var fulfillment = lifecycle.NewMachine("order status", map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusDelivered, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}, StatusDelivered, StatusCancelled)

func CheckTransition(from, to Status) error { return fulfillment.Check(from, to) }

func CanTransition(from, to Status) bool { return fulfillment.Allowed(from, to) }

func (s Status) Valid() bool { return fulfillment.Known(s) }

func (s Status) Terminal() bool { return fulfillment.Terminal(s) }

// PaymentState mirrors Order.IsPaid. It only moves forward through an external
// payment confirmation; refunds happen outside this service.
type PaymentState string

const (
	PaymentPending PaymentState = "pending"
	PaymentPaid    PaymentState = "paid"
)

var payment = lifecycle.NewMachine("order payment", map[PaymentState][]PaymentState{
	PaymentPending: {PaymentPaid},
	PaymentPaid:    {},
})

func PaymentStateOf(isPaid bool) PaymentState {
	if isPaid {
		return PaymentPaid
	}
	return PaymentPending
}

func CheckPaymentTransition(from, to PaymentState) error { return payment.Check(from, to) }

// Statuses lists every fulfillment status in forward order.
func Statuses() []Status {
	return []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}
}
