package model

import (
	"fmt"
	"time"

	"restobill/internal/domain/billing"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusActive    OrderStatus = "active"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// 注文。
// 金額系（Subtotal〜Total）は明細が変わるたびに再計算する派生値で、直接書き換えない。
// Order は値として扱う：変更メソッドは新しい Order を返し、元の値（Items含む）は変えない。
type Order struct {
	ID                  string          `json:"id"`
	TableID             string          `json:"table_id"`
	Items               []OrderLineItem `json:"items"`
	Status              OrderStatus     `json:"status"`
	CreatedAt           time.Time       `json:"created_at"`
	CompletedAt         *time.Time      `json:"completed_at,omitempty"`
	CancelledAt         *time.Time      `json:"cancelled_at,omitempty"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	TaxAmount           decimal.Decimal `json:"tax_amount"`
	ServiceChargeAmount decimal.Decimal `json:"service_charge_amount"`
	DiscountAmount      decimal.Decimal `json:"discount_amount"`
	// 入力された値引き。DiscountAmount はこれを総額で切り詰めた適用額
	RequestedDiscount   decimal.Decimal `json:"requested_discount"`
	Total               decimal.Decimal `json:"total"`
	CustomerName        string          `json:"customer_name,omitempty"`
	Note                string          `json:"note,omitempty"`
}

// NewOrder は空のアクティブ注文を作る。
func NewOrder(id, tableID string, now time.Time) Order {
	return Order{
		ID:                  id,
		TableID:             tableID,
		Items:               []OrderLineItem{},
		Status:              OrderStatusActive,
		CreatedAt:           now,
		Subtotal:            decimal.Zero,
		TaxAmount:           decimal.Zero,
		ServiceChargeAmount: decimal.Zero,
		DiscountAmount:      decimal.Zero,
		RequestedDiscount:   decimal.Zero,
		Total:               decimal.Zero,
	}
}

func (o Order) IsActive() bool {
	return o.Status == OrderStatusActive
}

func (o Order) IsTerminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
}

// 全明細の数量合計
func (o Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// Clone は Items を含めてコピーする。
func (o Order) Clone() Order {
	c := o
	c.Items = make([]OrderLineItem, len(o.Items))
	copy(c.Items, o.Items)
	if o.CompletedAt != nil {
		t := *o.CompletedAt
		c.CompletedAt = &t
	}
	if o.CancelledAt != nil {
		t := *o.CancelledAt
		c.CancelledAt = &t
	}
	return c
}

// total == subtotal + tax + service - discount
func (o Order) TotalsConsistent() bool {
	want := o.Subtotal.Add(o.TaxAmount).Add(o.ServiceChargeAmount).Sub(o.DiscountAmount)
	return o.Total.Equal(want)
}

func (o Order) ensureActive(op string) error {
	if !o.IsActive() {
		return fmt.Errorf("%w: cannot %s order %s in status %s", ErrInvalidTransition, op, o.ID, o.Status)
	}
	return nil
}

// WithItemAdded はメニューを1つ追加する。
// 同じ MenuItemID の明細があれば数量+1（メモはそのまま）、無ければ lineID で新しい明細を作る。
func (o Order) WithItemAdded(lineID string, item MenuItem, settings StoreSettings) (Order, error) {
	if err := o.ensureActive("add item to"); err != nil {
		return o, err
	}

	next := o.Clone()
	for i := range next.Items {
		if next.Items[i].MenuItemID == item.ID {
			next.Items[i].Quantity++
			return next.recalculated(settings), nil
		}
	}

	for _, it := range next.Items {
		if it.ID == lineID {
			return o, fmt.Errorf("%w: duplicate line id %s", ErrValidation, lineID)
		}
	}

	next.Items = append(next.Items, OrderLineItem{
		ID:         lineID,
		MenuItemID: item.ID,
		Name:       item.Name,
		UnitPrice:  item.Price,
		Quantity:   1,
	})
	return next.recalculated(settings), nil
}

// WithQuantityAdjusted は数量を delta だけ変える。0以下になった明細は削除する。
// 明細が見つからなければ注文をそのまま返す。
func (o Order) WithQuantityAdjusted(lineID string, delta int, settings StoreSettings) (Order, error) {
	if err := o.ensureActive("adjust"); err != nil {
		return o, err
	}

	idx := o.lineIndex(lineID)
	if idx < 0 {
		return o, nil
	}

	next := o.Clone()
	q := next.Items[idx].Quantity + delta
	if q <= 0 {
		next.Items = append(next.Items[:idx], next.Items[idx+1:]...)
	} else {
		next.Items[idx].Quantity = q
	}
	return next.recalculated(settings), nil
}

// WithLineNote はメモだけ差し替える（金額は変わらない）。
func (o Order) WithLineNote(lineID, note string) (Order, error) {
	if err := o.ensureActive("annotate"); err != nil {
		return o, err
	}

	idx := o.lineIndex(lineID)
	if idx < 0 {
		return o, nil
	}

	next := o.Clone()
	next.Items[idx].Note = note
	return next, nil
}

// WithDiscount は値引きを設定して再計算する。
func (o Order) WithDiscount(amount decimal.Decimal, settings StoreSettings) (Order, error) {
	if err := o.ensureActive("discount"); err != nil {
		return o, err
	}
	if amount.IsNegative() {
		return o, fmt.Errorf("%w: discount must be >= 0", ErrValidation)
	}

	next := o.Clone()
	next.RequestedDiscount = amount
	return next.recalculated(settings), nil
}

// WithDetails は客名と注文メモを更新する。
func (o Order) WithDetails(customerName, note string) (Order, error) {
	if err := o.ensureActive("update"); err != nil {
		return o, err
	}

	next := o.Clone()
	next.CustomerName = customerName
	next.Note = note
	return next, nil
}

// Completed は会計済みにする。明細0件は完了できない。
func (o Order) Completed(now time.Time) (Order, error) {
	if err := o.ensureActive("complete"); err != nil {
		return o, err
	}
	if len(o.Items) == 0 {
		return o, fmt.Errorf("%w: order %s has no items", ErrInvalidTransition, o.ID)
	}

	next := o.Clone()
	next.Status = OrderStatusCompleted
	next.CompletedAt = &now
	return next, nil
}

// Cancelled は破棄する（completed とは別の終端）。
func (o Order) Cancelled(now time.Time) (Order, error) {
	if err := o.ensureActive("cancel"); err != nil {
		return o, err
	}

	next := o.Clone()
	next.Status = OrderStatusCancelled
	next.CancelledAt = &now
	return next, nil
}

func (o Order) lineIndex(lineID string) int {
	for i, it := range o.Items {
		if it.ID == lineID {
			return i
		}
	}
	return -1
}

// 金額を計算し直す。丸めはしない。
func (o Order) recalculated(settings StoreSettings) Order {
	lines := make([]billing.Line, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, billing.Line{UnitPrice: it.UnitPrice, Quantity: it.Quantity})
	}

	t := billing.ComputeTotals(lines, settings.GSTRate, settings.ServiceChargeRate, o.RequestedDiscount)
	o.Subtotal = t.Subtotal
	o.TaxAmount = t.TaxAmount
	o.ServiceChargeAmount = t.ServiceChargeAmount
	o.DiscountAmount = t.DiscountAmount
	o.Total = t.Total
	return o
}
