package kafka

import "time"

// PaymentResultEvent is emitted when a payment reaches a terminal state.
type PaymentResultEvent struct {
	EventID        string    `json:"event_id"`
	EventType      string    `json:"event_type"`
	PaymentID      uint      `json:"payment_id"`
	Reference      string    `json:"reference"`
	UserID         uint      `json:"user_id"`
	ConsultationID uint      `json:"consultation_id,omitempty"`
	Amount         float64   `json:"amount"`
	Currency       string    `json:"currency"`
	PaymentMethod  string    `json:"payment_method"`
	ReceiptNumber  string    `json:"receipt_number,omitempty"`
	ResultDesc     string    `json:"result_desc,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypePaymentCompleted = "payment.completed"
	EventTypePaymentFailed    = "payment.failed"
)

// Kafka topics
const (
	TopicPaymentResults = "payment-results"
)
