package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文が完了/取消になったときに外へ流すイベント
type OrderClosedEvent struct {
	OrderID   string          `json:"order_id"`
	TableID   string          `json:"table_id"`
	Status    OrderStatus     `json:"status"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
	ClosedAt  time.Time       `json:"closed_at"`
	ClosedBy  string          `json:"closed_by,omitempty"`
}

// NewOrderClosedEvent は終端の注文からイベントを作る。
func NewOrderClosedEvent(o Order) OrderClosedEvent {
	ev := OrderClosedEvent{
		OrderID:   o.ID,
		TableID:   o.TableID,
		Status:    o.Status,
		Total:     o.Total,
		ItemCount: o.ItemCount(),
	}
	switch {
	case o.CompletedAt != nil:
		ev.ClosedAt = *o.CompletedAt
	case o.CancelledAt != nil:
		ev.ClosedAt = *o.CancelledAt
	}
	return ev
}
