package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"restobill/internal/domain/model"
	repo "restobill/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// 注文の完了/取消を外に知らせる
type OrderEventPublisher interface {
	PublishOrderClosed(ctx context.Context, ev model.OrderClosedEvent) error
}

// POSUsecase はテーブルと注文の操作をまとめる。
// 1つの操作は1トランザクションで、注文とテーブルの変更は一緒に commit される。
type POSUsecase struct {
	tx     repo.TransactionManager
	events OrderEventPublisher
}

func NewPOSUsecase(tx repo.TransactionManager, events OrderEventPublisher) *POSUsecase {
	return &POSUsecase{tx: tx, events: events}
}

const (
	maxNoteLen = 500
	maxNameLen = 100

	publishTimeout = 5 * time.Second
)

type OrderSummary struct {
	ID        string          `json:"id"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

type TableOutput struct {
	model.Table
	Order *OrderSummary `json:"order,omitempty"`
}

type TableOrderOutput struct {
	Table   model.Table  `json:"table"`
	Order   *model.Order `json:"order"`
	Created bool         `json:"created,omitempty"`
}

// 完了/取消の結果（注文とテーブルを一緒に返す）
type CloseOrderOutput struct {
	Order model.Order `json:"order"`
	Table model.Table `json:"table"`
}

type OrderListInput struct {
	Status  string
	TableID string
}

// ListTables は占有状態を注文まで確認して返す。
// アクティブな注文に解決できない参照は空きとして見せる。
func (u *POSUsecase) ListTables(ctx context.Context) ([]TableOutput, error) {
	var out []TableOutput
	err := u.tx.View(ctx, func(ctx context.Context, r repo.TxRepos) error {
		tables, err := r.Tables().List(ctx)
		if err != nil {
			return err
		}

		out = make([]TableOutput, 0, len(tables))
		for _, t := range tables {
			o, ok, err := r.Tables().ResolveActiveOrder(ctx, t.ID, r.Orders())
			if err != nil {
				return err
			}
			if !ok {
				if t.CurrentOrderID != "" {
					log.Debug().Str("table_id", t.ID).Str("order_id", t.CurrentOrderID).Msg("stale table reference shown as available")
				}
				t.Status = model.TableStatusAvailable
				t.CurrentOrderID = ""
				out = append(out, TableOutput{Table: t})
				continue
			}
			out = append(out, TableOutput{Table: t, Order: &OrderSummary{
				ID:        o.ID,
				ItemCount: o.ItemCount(),
				Total:     o.Total,
				CreatedAt: o.CreatedAt,
			}})
		}
		return nil
	})
	if err != nil {
		return nil, toHTTPError(err)
	}
	return out, nil
}

// OpenTable はテーブルのアクティブ注文を返す。無ければ作って紐付ける。
func (u *POSUsecase) OpenTable(ctx context.Context, tableID string) (TableOrderOutput, error) {
	if strings.TrimSpace(tableID) == "" {
		return TableOrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid table_id")
	}

	var out TableOrderOutput
	err := u.tx.WithinTx(ctx, func(ctx context.Context, r repo.TxRepos) error {
		o, t, created, err := openInTx(ctx, r, tableID)
		if err != nil {
			return err
		}
		out = TableOrderOutput{Table: t, Order: &o, Created: created}
		return nil
	})
	if err != nil {
		return TableOrderOutput{}, toHTTPError(err)
	}
	if out.Created {
		log.Info().Str("table_id", tableID).Str("order_id", out.Order.ID).Msg("table opened")
	}
	return out, nil
}

// openInTx は壊れた参照を解放してから startOrCreate → bind する。
func openInTx(ctx context.Context, r repo.TxRepos, tableID string) (model.Order, model.Table, bool, error) {
	t, err := r.Tables().FindByID(ctx, tableID)
	if err != nil {
		return model.Order{}, model.Table{}, false, err
	}

	current := ""
	live, ok, err := r.Tables().ResolveActiveOrder(ctx, tableID, r.Orders())
	if err != nil {
		return model.Order{}, model.Table{}, false, err
	}
	switch {
	case ok:
		current = live.ID
	case t.CurrentOrderID != "" || t.Status == model.TableStatusOccupied:
		log.Warn().Str("table_id", tableID).Str("order_id", t.CurrentOrderID).Err(model.ErrStaleReference).Msg("releasing stale table reference")
		if _, err := r.Tables().Release(ctx, tableID); err != nil {
			return model.Order{}, model.Table{}, false, err
		}
	}

	o, created, err := r.Orders().StartOrCreate(ctx, tableID, current)
	if err != nil {
		return model.Order{}, model.Table{}, false, err
	}
	t, err = r.Tables().BindOrder(ctx, tableID, o.ID)
	if err != nil {
		return model.Order{}, model.Table{}, false, err
	}
	return o, t, created, nil
}

// CurrentOrder はテーブルのアクティブ注文（無ければ order=null）を返す。作らない。
func (u *POSUsecase) CurrentOrder(ctx context.Context, tableID string) (TableOrderOutput, error) {
	var out TableOrderOutput
	err := u.tx.View(ctx, func(ctx context.Context, r repo.TxRepos) error {
		t, err := r.Tables().FindByID(ctx, tableID)
		if err != nil {
			return err
		}
		o, ok, err := r.Tables().ResolveActiveOrder(ctx, tableID, r.Orders())
		if err != nil {
			return err
		}
		if !ok {
			t.Status = model.TableStatusAvailable
			t.CurrentOrderID = ""
			out = TableOrderOutput{Table: t}
			return nil
		}
		out = TableOrderOutput{Table: t, Order: &o}
		return nil
	})
	if err != nil {
		return TableOrderOutput{}, toHTTPError(err)
	}
	return out, nil
}

// AddItem はメニューを1つ追加する。テーブルが空いていれば注文を作る。
func (u *POSUsecase) AddItem(ctx context.Context, tableID, menuItemID string) (model.Order, error) {
	if strings.TrimSpace(menuItemID) == "" {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid menu_item_id")
	}

	var out model.Order
	err := u.tx.WithinTx(ctx, func(ctx context.Context, r repo.TxRepos) error {
		item, err := r.Menu().FindByID(ctx, menuItemID)
		if err != nil {
			return err
		}
		o, _, _, err := openInTx(ctx, r, tableID)
		if err != nil {
			return err
		}
		out, err = r.Orders().AddLineItem(ctx, o.ID, item)
		return err
	})
	if err != nil {
		return model.Order{}, toHTTPError(err)
	}
	return out, nil
}

func (u *POSUsecase) GetOrder(ctx context.Context, orderID string) (model.Order, error) {
	var out model.Order
	err := u.tx.View(ctx, func(ctx context.Context, r repo.TxRepos) error {
		var err error
		out, err = r.Orders().FindByID(ctx, orderID)
		return err
	})
	if err != nil {
		return model.Order{}, toHTTPError(err)
	}
	return out, nil
}

func (u *POSUsecase) ListOrders(ctx context.Context, in OrderListInput) ([]model.Order, error) {
	f := repo.OrderListFilter{TableID: in.TableID}
	switch model.OrderStatus(in.Status) {
	case "":
	case model.OrderStatusActive, model.OrderStatusCompleted, model.OrderStatusCancelled:
		f.Status = model.OrderStatus(in.Status)
	default:
		return nil, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var out []model.Order
	err := u.tx.View(ctx, func(ctx context.Context, r repo.TxRepos) error {
		var err error
		out, err = r.Orders().List(ctx, f)
		return err
	})
	if err != nil {
		return nil, toHTTPError(err)
	}
	return out, nil
}

func (u *POSUsecase) AdjustQuantity(ctx context.Context, orderID, lineItemID string, delta int) (model.Order, error) {
	// delta 0 は何も変えずに今の注文を返す
	return u.mutate(ctx, func(ctx context.Context, orders repo.OrderRepository) (model.Order, error) {
		return orders.AdjustQuantity(ctx, orderID, lineItemID, delta)
	})
}

func (u *POSUsecase) SetLineNote(ctx context.Context, orderID, lineItemID, note string) (model.Order, error) {
	note = strings.TrimSpace(note)
	if len(note) > maxNoteLen {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "note too long")
	}
	return u.mutate(ctx, func(ctx context.Context, orders repo.OrderRepository) (model.Order, error) {
		return orders.SetLineNote(ctx, orderID, lineItemID, note)
	})
}

func (u *POSUsecase) ApplyDiscount(ctx context.Context, orderID string, amount decimal.Decimal) (model.Order, error) {
	if amount.IsNegative() {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid discount")
	}
	return u.mutate(ctx, func(ctx context.Context, orders repo.OrderRepository) (model.Order, error) {
		return orders.ApplyDiscount(ctx, orderID, amount)
	})
}

func (u *POSUsecase) SetDetails(ctx context.Context, orderID, customerName, note string) (model.Order, error) {
	customerName = strings.TrimSpace(customerName)
	note = strings.TrimSpace(note)
	if len(customerName) > maxNameLen || len(note) > maxNoteLen {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid details")
	}
	return u.mutate(ctx, func(ctx context.Context, orders repo.OrderRepository) (model.Order, error) {
		return orders.SetDetails(ctx, orderID, customerName, note)
	})
}

// CompleteOrder は会計。注文の完了とテーブルの解放を一緒に commit する。
func (u *POSUsecase) CompleteOrder(ctx context.Context, orderID string) (CloseOrderOutput, error) {
	return u.closeOrder(ctx, orderID, func(ctx context.Context, orders repo.OrderRepository) (model.Order, error) {
		return orders.Complete(ctx, orderID)
	})
}

// CancelOrder は破棄。completed とは別の終端として残る。
func (u *POSUsecase) CancelOrder(ctx context.Context, orderID string) (CloseOrderOutput, error) {
	return u.closeOrder(ctx, orderID, func(ctx context.Context, orders repo.OrderRepository) (model.Order, error) {
		return orders.Cancel(ctx, orderID)
	})
}

func (u *POSUsecase) mutate(ctx context.Context, fn func(ctx context.Context, orders repo.OrderRepository) (model.Order, error)) (model.Order, error) {
	var out model.Order
	err := u.tx.WithinTx(ctx, func(ctx context.Context, r repo.TxRepos) error {
		var err error
		out, err = fn(ctx, r.Orders())
		return err
	})
	if err != nil {
		return model.Order{}, toHTTPError(err)
	}
	return out, nil
}

func (u *POSUsecase) closeOrder(ctx context.Context, orderID string, fn func(ctx context.Context, orders repo.OrderRepository) (model.Order, error)) (CloseOrderOutput, error) {
	var out CloseOrderOutput
	err := u.tx.WithinTx(ctx, func(ctx context.Context, r repo.TxRepos) error {
		o, err := fn(ctx, r.Orders())
		if err != nil {
			return err
		}

		t, err := r.Tables().FindByID(ctx, o.TableID)
		if err != nil {
			return err
		}
		// 別の注文を指しているテーブルは触らない
		if t.CurrentOrderID == o.ID {
			if t, err = r.Tables().Release(ctx, o.TableID); err != nil {
				return err
			}
		} else {
			log.Warn().Str("table_id", t.ID).Str("order_id", o.ID).Str("current_order_id", t.CurrentOrderID).Msg("closed order was not bound to its table")
		}

		out = CloseOrderOutput{Order: o, Table: t}
		return nil
	})
	if err != nil {
		return CloseOrderOutput{}, toHTTPError(err)
	}

	log.Info().
		Str("order_id", out.Order.ID).
		Str("table_id", out.Order.TableID).
		Str("status", string(out.Order.Status)).
		Str("total", out.Order.Total.StringFixed(2)).
		Msg("order closed")

	// イベントは commit 後。失敗しても状態は戻さない。
	if u.events != nil {
		ev := model.NewOrderClosedEvent(out.Order)
		ev.ClosedBy = ActorFrom(ctx)
		// commit 済みなのでクライアントが切れても送る
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		if err := u.events.PublishOrderClosed(pubCtx, ev); err != nil {
			log.Warn().Err(err).Str("order_id", out.Order.ID).Msg("order event publish failed")
		}
	}
	return out, nil
}
