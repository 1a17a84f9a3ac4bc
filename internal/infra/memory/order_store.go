package memory

import (
	"context"
	"fmt"
	"sort"

	"restobill/internal/domain/model"
	repo "restobill/internal/repository"

	"github.com/shopspring/decimal"
)

// OrderStore は集約の注文を持つ。
// 返す Order は常にコピーなので、呼び出し側が持っている値は後の変更で変わらない。
type OrderStore struct {
	st *state
}

func (s *OrderStore) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	o, ok := s.st.snap.Orders[orderID]
	if !ok {
		return model.Order{}, fmt.Errorf("order %s: %w", orderID, repo.ErrNotFound)
	}
	return o.Clone(), nil
}

// FindActiveByTableID はテーブルのアクティブ注文を探す。
// 壊れたデータで複数あれば一番新しいもの。
func (s *OrderStore) FindActiveByTableID(ctx context.Context, tableID string) (model.Order, bool, error) {
	var found model.Order
	ok := false
	for _, o := range s.st.snap.Orders {
		if o.TableID != tableID || !o.IsActive() {
			continue
		}
		if !ok || o.CreatedAt.After(found.CreatedAt) || (o.CreatedAt.Equal(found.CreatedAt) && o.ID > found.ID) {
			found = o
			ok = true
		}
	}
	if !ok {
		return model.Order{}, false, nil
	}
	return found.Clone(), true, nil
}

// List は新しい順に返す。
func (s *OrderStore) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, error) {
	out := make([]model.Order, 0)
	for _, o := range s.st.snap.Orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.TableID != "" && o.TableID != f.TableID {
			continue
		}
		if f.CompletedFrom != nil || f.CompletedTo != nil {
			if o.CompletedAt == nil {
				continue
			}
			if f.CompletedFrom != nil && o.CompletedAt.Before(*f.CompletedFrom) {
				continue
			}
			if f.CompletedTo != nil && !o.CompletedAt.Before(*f.CompletedTo) {
				continue
			}
		}
		out = append(out, o.Clone())
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *OrderStore) StartOrCreate(ctx context.Context, tableID, currentOrderID string) (model.Order, bool, error) {
	active, ok, err := s.FindActiveByTableID(ctx, tableID)
	if err != nil {
		return model.Order{}, false, err
	}
	if ok {
		if currentOrderID != "" && currentOrderID != active.ID {
			return model.Order{}, false, fmt.Errorf("%w: table %s references %s but order %s is active",
				model.ErrAlreadyOccupied, tableID, currentOrderID, active.ID)
		}
		return active, false, nil
	}

	if err := s.st.mutate(); err != nil {
		return model.Order{}, false, err
	}
	o := model.NewOrder(s.st.ids.NewID(), tableID, s.st.clock.Now())
	s.st.snap.Orders[o.ID] = o
	return o.Clone(), true, nil
}

func (s *OrderStore) AddLineItem(ctx context.Context, orderID string, item model.MenuItem) (model.Order, error) {
	return s.update(orderID, func(o model.Order) (model.Order, error) {
		return o.WithItemAdded(s.st.ids.NewID(), item, s.st.snap.Settings)
	})
}

func (s *OrderStore) AdjustQuantity(ctx context.Context, orderID, lineItemID string, delta int) (model.Order, error) {
	return s.update(orderID, func(o model.Order) (model.Order, error) {
		return o.WithQuantityAdjusted(lineItemID, delta, s.st.snap.Settings)
	})
}

func (s *OrderStore) SetLineNote(ctx context.Context, orderID, lineItemID, note string) (model.Order, error) {
	return s.update(orderID, func(o model.Order) (model.Order, error) {
		return o.WithLineNote(lineItemID, note)
	})
}

func (s *OrderStore) ApplyDiscount(ctx context.Context, orderID string, amount decimal.Decimal) (model.Order, error) {
	return s.update(orderID, func(o model.Order) (model.Order, error) {
		return o.WithDiscount(amount, s.st.snap.Settings)
	})
}

func (s *OrderStore) SetDetails(ctx context.Context, orderID, customerName, note string) (model.Order, error) {
	return s.update(orderID, func(o model.Order) (model.Order, error) {
		return o.WithDetails(customerName, note)
	})
}

func (s *OrderStore) Complete(ctx context.Context, orderID string) (model.Order, error) {
	return s.update(orderID, func(o model.Order) (model.Order, error) {
		return o.Completed(s.st.clock.Now())
	})
}

func (s *OrderStore) Cancel(ctx context.Context, orderID string) (model.Order, error) {
	return s.update(orderID, func(o model.Order) (model.Order, error) {
		return o.Cancelled(s.st.clock.Now())
	})
}

// update は読み→計算→書きをまとめる。fn がエラーなら何も書かない。
func (s *OrderStore) update(orderID string, fn func(model.Order) (model.Order, error)) (model.Order, error) {
	cur, ok := s.st.snap.Orders[orderID]
	if !ok {
		return model.Order{}, fmt.Errorf("order %s: %w", orderID, repo.ErrNotFound)
	}

	next, err := fn(cur)
	if err != nil {
		return model.Order{}, err
	}
	if err := s.st.mutate(); err != nil {
		return model.Order{}, err
	}
	s.st.snap.Orders[orderID] = next
	return next.Clone(), nil
}
