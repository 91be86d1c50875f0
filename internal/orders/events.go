package orders

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventOrderStatusChanged  = "OrderStatusChanged"
	EventOrderPaid           = "OrderPaid"
	EventPaymentReminder     = "PaymentReminder"
	EventReservationChanged  = "ReservationChanged"
	EventGenerationRequested = "GenerationRequested"
	EnvelopeVersion          = 1
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // salah satu const di atas
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"` // e.g., "booking-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // id record yang berubah
	Payload       json.RawMessage `json:"payload"`
}

func NewEnvelope(eventType, producer, correlationID, traceID string, payload any) (Envelope, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  EnvelopeVersion,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		TraceID:       traceID,
		CorrelationID: correlationID,
		Payload:       b,
	}, nil
}

type StatusChangedPayload struct {
	OrderID string `json:"order_id"`
	From    Status `json:"from"`
	To      Status `json:"to"`
}

type OrderPaidPayload struct {
	OrderID       string         `json:"order_id"`
	PaymentResult *PaymentResult `json:"payment_result,omitempty"`
}

type PaymentReminderPayload struct {
	OrderID       string `json:"order_id"`
	OrderNumber   string `json:"order_number"`
	CustomerEmail string `json:"customer_email"`
	TotalPrice    string `json:"total_price"`
}

type ReservationChangedPayload struct {
	ReservationID string `json:"reservation_id"`
	Variant       string `json:"variant"`
	Status        string `json:"status,omitempty"`
	PaymentStatus string `json:"payment_status,omitempty"`
	Deleted       bool   `json:"deleted,omitempty"`
}

type GenerationRequestedPayload struct {
	TaskID string `json:"task_id"`
	URL    string `json:"url"`
}
