package domain

import "time"

type ReceiptStatus string

const (
	ReceiptCompleted ReceiptStatus = "completed"
	ReceiptPending   ReceiptStatus = "pending"
	ReceiptRefunded  ReceiptStatus = "refunded"
	ReceiptFailed    ReceiptStatus = "failed"
)

func ParseReceiptStatus(s string) (ReceiptStatus, bool) {
	switch ReceiptStatus(s) {
	case ReceiptCompleted, ReceiptPending, ReceiptRefunded, ReceiptFailed:
		return ReceiptStatus(s), true
	default:
		return "", false
	}
}

// Receipt is one persisted transaction record. Rows are written once by
// the seeding path and only ever read by the serving path.
type Receipt struct {
	ID        int64  `json:"id"`
	ReceiptID string `json:"receipt_id"`

	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	CustomerEmail string `json:"customer_email,omitempty"`

	Amount        float64       `json:"amount"`
	Description   string        `json:"description,omitempty"`
	PaymentMethod string        `json:"payment_method,omitempty"`
	Status        ReceiptStatus `json:"status"`

	CreatedAt time.Time `json:"created_at"`
}
