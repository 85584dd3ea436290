package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Metadata is a free-form JSON map persisted alongside the payment. It carries
// auxiliary provider fields (normalized phone, account reference, receipt,
// result codes, timestamps); correlation happens on the dedicated indexed
// columns, not here.
type Metadata map[string]interface{}

// Value implements driver.Valuer for the JSON column.
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for the JSON column.
func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = Metadata{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported metadata column type %T", value)
	}

	return json.Unmarshal(raw, m)
}

// Merge copies src keys into the map. Keys already holding a value are left
// untouched, so a callback can never clobber what the initiator stored (the
// original account reference, the normalized phone).
func (m Metadata) Merge(src Metadata) {
	for k, v := range src {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		if existing, ok := m[k]; ok {
			if s, isStr := existing.(string); !isStr || s != "" {
				continue
			}
		}
		m[k] = v
	}
}

// Payment is a money movement initiated through an external provider.
type Payment struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	Reference      string `json:"reference" gorm:"not null;uniqueIndex"`
	UserID         uint   `json:"user_id" gorm:"index"`
	ConsultationID uint   `json:"consultation_id"`
	Amount         float64 `json:"amount" gorm:"not null"`
	Currency       string  `json:"currency" gorm:"default:'KES'"`
	Status         string  `json:"status" gorm:"default:'PENDING';index"`
	PaymentMethod  string  `json:"payment_method"`
	TransactionID  string  `json:"transaction_id"`

	// Provider correlation pair. The asynchronous callback locates the row by
	// these two values together.
	MerchantRequestID string `json:"merchant_request_id" gorm:"index"`
	CheckoutRequestID string `json:"checkout_request_id" gorm:"index"`

	Metadata Metadata `json:"metadata" gorm:"type:jsonb"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Payment) TableName() string {
	return "payments"
}

// Payment statuses
const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
	StatusRefunded  = "REFUNDED"
)

// IsTerminal reports whether the status admits no further transitions.
// COMPLETED and FAILED are sticky; a late or duplicate callback must not
// resurrect such a payment to PENDING.
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusFailed || status == StatusRefunded
}

// PaymentRepository defines the contract for payment data access
type PaymentRepository interface {
	Create(payment *Payment) error
	FindByID(id uint) (*Payment, error)
	FindByCorrelation(merchantRequestID, checkoutRequestID string) (*Payment, error)
	FindByCheckoutRequestID(checkoutRequestID string) (*Payment, error)
	FindAll(limit, offset int) ([]Payment, error)
	Update(payment *Payment) error
	UpdateStatus(id uint, status string) error
}
