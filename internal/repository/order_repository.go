package repository

import (
	"context"
	"time"

	"restobill/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 注文一覧の絞り込み（ゼロ値は条件なし）
type OrderListFilter struct {
	Status  model.OrderStatus
	TableID string
	// CompletedAt が [CompletedFrom, CompletedTo) に入るもの
	CompletedFrom *time.Time
	CompletedTo   *time.Time
}

// 注文をIDで引くだけの約束（テーブル側から注文を確認するときに使う）
type OrderFinder interface {
	FindByID(ctx context.Context, orderID string) (model.Order, error)
}

// 注文の保持と変更。
// 変更系は新しい Order の値を返す。アクティブでない注文の変更は model.ErrInvalidTransition。
type OrderRepository interface {
	OrderFinder
	FindActiveByTableID(ctx context.Context, tableID string) (model.Order, bool, error)
	List(ctx context.Context, f OrderListFilter) ([]model.Order, error)

	// テーブルのアクティブ注文を返す。無ければ作る（created=true）。
	// currentOrderID はテーブルが今指している注文。別のアクティブ注文があれば model.ErrAlreadyOccupied。
	StartOrCreate(ctx context.Context, tableID, currentOrderID string) (order model.Order, created bool, err error)

	AddLineItem(ctx context.Context, orderID string, item model.MenuItem) (model.Order, error)
	AdjustQuantity(ctx context.Context, orderID, lineItemID string, delta int) (model.Order, error)
	SetLineNote(ctx context.Context, orderID, lineItemID, note string) (model.Order, error)
	ApplyDiscount(ctx context.Context, orderID string, amount decimal.Decimal) (model.Order, error)
	SetDetails(ctx context.Context, orderID, customerName, note string) (model.Order, error)

	Complete(ctx context.Context, orderID string) (model.Order, error)
	Cancel(ctx context.Context, orderID string) (model.Order, error)
}
