package memory

import (
	"context"
	"errors"
	"fmt"

	"restobill/internal/domain/model"
	repo "restobill/internal/repository"
)

// TableRegistry は集約のテーブルを持つ。
// 注文への参照はIDだけで、注文の中身は orders 経由で確認する。
type TableRegistry struct {
	st     *state
	orders repo.OrderFinder
}

func (r *TableRegistry) List(ctx context.Context) ([]model.Table, error) {
	out := make([]model.Table, len(r.st.snap.Tables))
	copy(out, r.st.snap.Tables)
	return out, nil
}

func (r *TableRegistry) FindByID(ctx context.Context, tableID string) (model.Table, error) {
	i := r.index(tableID)
	if i < 0 {
		return model.Table{}, fmt.Errorf("table %s: %w", tableID, repo.ErrNotFound)
	}
	return r.st.snap.Tables[i], nil
}

func (r *TableRegistry) BindOrder(ctx context.Context, tableID, orderID string) (model.Table, error) {
	i := r.index(tableID)
	if i < 0 {
		return model.Table{}, fmt.Errorf("table %s: %w", tableID, repo.ErrNotFound)
	}

	t := r.st.snap.Tables[i]
	if t.CurrentOrderID == orderID && t.Status == model.TableStatusOccupied {
		return t, nil
	}
	if t.CurrentOrderID != "" && t.CurrentOrderID != orderID {
		cur, err := r.orders.FindByID(ctx, t.CurrentOrderID)
		switch {
		case err == nil && cur.IsActive():
			return model.Table{}, fmt.Errorf("%w: table %s holds order %s", model.ErrAlreadyOccupied, tableID, cur.ID)
		case err != nil && !errors.Is(err, repo.ErrNotFound):
			return model.Table{}, err
		}
		// 終了済み/存在しない注文への参照は上書きする
	}

	if err := r.st.mutate(); err != nil {
		return model.Table{}, err
	}
	t.Status = model.TableStatusOccupied
	t.CurrentOrderID = orderID
	r.st.snap.Tables[i] = t
	return t, nil
}

func (r *TableRegistry) Release(ctx context.Context, tableID string) (model.Table, error) {
	i := r.index(tableID)
	if i < 0 {
		return model.Table{}, fmt.Errorf("table %s: %w", tableID, repo.ErrNotFound)
	}

	t := r.st.snap.Tables[i]
	if t.Status == model.TableStatusAvailable && t.CurrentOrderID == "" {
		return t, nil
	}
	if err := r.st.mutate(); err != nil {
		return model.Table{}, err
	}
	t.Status = model.TableStatusAvailable
	t.CurrentOrderID = ""
	r.st.snap.Tables[i] = t
	return t, nil
}

// ResolveActiveOrder はステータスだけを信用せず、参照先の注文がアクティブかまで確認する。
func (r *TableRegistry) ResolveActiveOrder(ctx context.Context, tableID string, orders repo.OrderFinder) (model.Order, bool, error) {
	t, err := r.FindByID(ctx, tableID)
	if err != nil {
		return model.Order{}, false, err
	}
	if t.CurrentOrderID == "" {
		return model.Order{}, false, nil
	}

	o, err := orders.FindByID(ctx, t.CurrentOrderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, false, nil
	}
	if err != nil {
		return model.Order{}, false, err
	}
	if !o.IsActive() {
		return model.Order{}, false, nil
	}
	return o, true, nil
}

func (r *TableRegistry) index(tableID string) int {
	for i, t := range r.st.snap.Tables {
		if t.ID == tableID {
			return i
		}
	}
	return -1
}
