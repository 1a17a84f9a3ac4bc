package model

import "github.com/shopspring/decimal"

// メニュー（参照データ）。
// 注文明細には追加時点の名前と価格がコピーされるので、ここを変えても過去の注文は変わらない。
type MenuItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
}

// Categories は "All" + メニューに出てくるカテゴリ（出現順、重複なし）
func Categories(menu []MenuItem) []string {
	out := []string{"All"}
	seen := map[string]bool{}
	for _, m := range menu {
		if m.Category == "" || seen[m.Category] {
			continue
		}
		seen[m.Category] = true
		out = append(out, m.Category)
	}
	return out
}
