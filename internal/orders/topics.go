package orders

const (
	TopicOrderStatusChanged  = "booking.order.status.changed"
	TopicOrderPaid           = "booking.order.paid"
	TopicPaymentReminder     = "booking.order.payment.reminder"
	TopicReservationChanged  = "booking.reservation.changed"
	TopicGenerationRequested = "booking.generation.requested"
)

// Partition key = id record, supaya semua event satu record tetap berurutan.
func PartitionKey(id string) []byte { return []byte(id) }
