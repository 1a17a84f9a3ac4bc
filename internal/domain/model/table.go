package model

type TableStatus string

const (
	TableStatusAvailable TableStatus = "available"
	TableStatusOccupied  TableStatus = "occupied"
)

// 店内のテーブル。
// occupied のときだけ CurrentOrderID を持つ（注文への弱い参照、所有はしない）。
type Table struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Capacity       int         `json:"capacity"`
	Status         TableStatus `json:"status"`
	CurrentOrderID string      `json:"current_order_id,omitempty"`
}

func (t Table) IsOccupied() bool {
	return t.Status == TableStatusOccupied && t.CurrentOrderID != ""
}
