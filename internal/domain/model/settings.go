package model

import "github.com/shopspring/decimal"

// 店舗設定。税率・サービス料率は%。
type StoreSettings struct {
	Name              string          `json:"name"`
	Address           string          `json:"address"`
	Phone             string          `json:"phone"`
	GSTRate           decimal.Decimal `json:"gst_rate"`
	ServiceChargeRate decimal.Decimal `json:"service_charge_rate"`
	Currency          string          `json:"currency"`
}
