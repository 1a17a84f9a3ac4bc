package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文を閉じた操作の種類
type AuditAction string

const (
	//会計した
	AuditActionOrderCompleted AuditAction = "ORDER_COMPLETED"
	//取り消した
	AuditActionOrderCancelled AuditAction = "ORDER_CANCELLED"
)

func (a AuditAction) Valid() bool {
	return a == AuditActionOrderCompleted || a == AuditActionOrderCancelled
}

// 監査ログ（注文を閉じた記録）。
// 「誰が」「どの注文を」「いくらで」閉じたかを残す。スナップショットとは別テーブル。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作したスタッフ（認証なしのときは空）
	ActorStaffID string `gorm:"type:varchar(64);index" json:"actor_staff_id,omitempty"`

	Action AuditAction `gorm:"type:varchar(32);not null;index" json:"action"`

	OrderID string `gorm:"type:varchar(64);not null;index" json:"order_id"`
	TableID string `gorm:"type:varchar(64);not null" json:"table_id"`

	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	ItemCount int             `gorm:"not null" json:"item_count"`

	//作成時刻（注文を閉じた時刻）
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

// NewAuditLog は注文イベントから監査ログを作る。
func NewAuditLog(ev OrderClosedEvent) AuditLog {
	action := AuditActionOrderCompleted
	if ev.Status == OrderStatusCancelled {
		action = AuditActionOrderCancelled
	}
	return AuditLog{
		ActorStaffID: ev.ClosedBy,
		Action:       action,
		OrderID:      ev.OrderID,
		TableID:      ev.TableID,
		Total:        ev.Total,
		ItemCount:    ev.ItemCount,
		CreatedAt:    ev.ClosedAt,
	}
}
