package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // salah satu const di atas
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "shop-orders"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_num
	Payload       json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderNum   string `json:"order_num"`
	UserID     string `json:"user_id"`
	Items      []Item `json:"items"`
	TotalPrice string `json:"total_price"`
}

type OrderStatusChangedPayload struct {
	OrderNum string `json:"order_num"`
	UserID   string `json:"user_id"`
	Status   Status `json:"status"`
	Items    []Item `json:"items"`
}
