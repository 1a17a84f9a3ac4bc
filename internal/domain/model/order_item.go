package model

import "github.com/shopspring/decimal"

// 注文の明細。
// ID は明細ごとのインスタンスID（MenuItemID とは別）。
// Name / UnitPrice は追加時点のスナップショット。
type OrderLineItem struct {
	ID         string          `json:"id"`
	MenuItemID string          `json:"menu_item_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	Note       string          `json:"note,omitempty"`
}

// 明細の小計（単価×数量）
func (it OrderLineItem) LineTotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}
