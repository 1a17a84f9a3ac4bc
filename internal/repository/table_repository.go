package repository

import (
	"context"

	"restobill/internal/domain/model"
)

// テーブルの保持と占有状態。
// テーブルが空くのは注文の完了/取消（または壊れた参照の回復）のときだけ。
type TableRepository interface {
	List(ctx context.Context) ([]model.Table, error)
	FindByID(ctx context.Context, tableID string) (model.Table, error)

	// 別のアクティブ注文を指していれば model.ErrAlreadyOccupied。同じ注文なら何もしない。
	BindOrder(ctx context.Context, tableID, orderID string) (model.Table, error)
	Release(ctx context.Context, tableID string) (model.Table, error)

	// 参照先が存在してアクティブなときだけ ok=true
	ResolveActiveOrder(ctx context.Context, tableID string, orders OrderFinder) (model.Order, bool, error)
}
