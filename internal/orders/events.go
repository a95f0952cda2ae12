package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCommitted = "OrderCommitted"
	EventOrderFailed    = "OrderFailed"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

type OrderCommittedPayload struct {
	OrderID    string       `json:"order_id"`
	UserID     int64        `json:"user_id"`
	Lines      []PlacedLine `json:"lines"`
	TotalCents int          `json:"total_cents"`
}

type OrderFailedPayload struct {
	OrderID string `json:"order_id"`
	UserID  int64  `json:"user_id"`
	Reason  string `json:"reason"` // e.g. OUT_OF_STOCK
}
