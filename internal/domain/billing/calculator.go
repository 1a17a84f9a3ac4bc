package billing

import (
	"github.com/shopspring/decimal"
)

// 計算対象の1明細（単価と数量だけ）
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// 注文の金額一式。
// DiscountAmount は実際に適用された値引き（総額を超える分は切り捨て済み）。
type Totals struct {
	Subtotal            decimal.Decimal
	TaxAmount           decimal.Decimal
	ServiceChargeAmount decimal.Decimal
	DiscountAmount      decimal.Decimal
	Total               decimal.Decimal
}

// ComputeTotals は明細と税率・サービス料率（%）から金額を計算する。
// 内部は decimal のまま計算し、丸めは表示時（Format）だけで行う。
func ComputeTotals(lines []Line, taxRatePct, serviceRatePct, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		//数量0以下は計算に含めない
		if l.Quantity <= 0 {
			continue
		}
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	tax := percentOf(subtotal, taxRatePct)
	service := percentOf(subtotal, serviceRatePct)
	gross := subtotal.Add(tax).Add(service)

	// 値引きは 0〜gross に収める（合計がマイナスにならない）
	applied := discount
	if applied.IsNegative() {
		applied = decimal.Zero
	}
	if applied.GreaterThan(gross) {
		applied = gross
	}

	return Totals{
		Subtotal:            subtotal,
		TaxAmount:           tax,
		ServiceChargeAmount: service,
		DiscountAmount:      applied,
		Total:               gross.Sub(applied),
	}
}

// amount × pct / 100
func percentOf(amount, pct decimal.Decimal) decimal.Decimal {
	if pct.IsNegative() {
		return decimal.Zero
	}
	return amount.Mul(pct).Shift(-2)
}

// Format は表示用に小数2桁へ丸める。
func Format(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
