package usecase

import (
	"context"
	"net/http"
	"strings"

	"restobill/internal/domain/model"
	repo "restobill/internal/repository"

	"github.com/shopspring/decimal"
)

type MenuUsecase struct {
	tx    repo.TransactionManager
	idGen IDGenerator
}

func NewMenuUsecase(tx repo.TransactionManager, idGen IDGenerator) *MenuUsecase {
	return &MenuUsecase{tx: tx, idGen: idGen}
}

type MenuItemInput struct {
	Name        string
	Price       decimal.Decimal
	Category    string
	Description string
}

func (in MenuItemInput) toModel(id string) (model.MenuItem, error) {
	item := model.MenuItem{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Price:       in.Price,
		Category:    strings.TrimSpace(in.Category),
		Description: strings.TrimSpace(in.Description),
	}
	if item.Name == "" || len(item.Name) > maxNameLen {
		return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "invalid name")
	}
	if item.Price.IsNegative() {
		return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "invalid price")
	}
	if item.Category == "" || item.Category == "All" {
		return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "invalid category")
	}
	return item, nil
}

func (u *MenuUsecase) List(ctx context.Context, category string) ([]model.MenuItem, error) {
	var out []model.MenuItem
	err := u.tx.View(ctx, func(ctx context.Context, r repo.TxRepos) error {
		menu, err := r.Menu().List(ctx)
		if err != nil {
			return err
		}
		if category == "" || category == "All" {
			out = menu
			return nil
		}
		out = make([]model.MenuItem, 0, len(menu))
		for _, m := range menu {
			if m.Category == category {
				out = append(out, m)
			}
		}
		return nil
	})
	if err != nil {
		return nil, toHTTPError(err)
	}
	return out, nil
}

// Categories は "All" を先頭にしたカテゴリ一覧。
func (u *MenuUsecase) Categories(ctx context.Context) ([]string, error) {
	var out []string
	err := u.tx.View(ctx, func(ctx context.Context, r repo.TxRepos) error {
		menu, err := r.Menu().List(ctx)
		if err != nil {
			return err
		}
		out = model.Categories(menu)
		return nil
	})
	if err != nil {
		return nil, toHTTPError(err)
	}
	return out, nil
}

func (u *MenuUsecase) Create(ctx context.Context, in MenuItemInput) (model.MenuItem, error) {
	item, err := in.toModel(u.idGen.NewID())
	if err != nil {
		return model.MenuItem{}, err
	}

	err = u.tx.WithinTx(ctx, func(ctx context.Context, r repo.TxRepos) error {
		item, err = r.Menu().Create(ctx, item)
		return err
	})
	if err != nil {
		return model.MenuItem{}, toHTTPError(err)
	}
	return item, nil
}

// Update は既存の注文明細には影響しない（明細は追加時の名前と単価を持っている）。
func (u *MenuUsecase) Update(ctx context.Context, id string, in MenuItemInput) (model.MenuItem, error) {
	item, err := in.toModel(id)
	if err != nil {
		return model.MenuItem{}, err
	}

	err = u.tx.WithinTx(ctx, func(ctx context.Context, r repo.TxRepos) error {
		item, err = r.Menu().Update(ctx, item)
		return err
	})
	if err != nil {
		return model.MenuItem{}, toHTTPError(err)
	}
	return item, nil
}

func (u *MenuUsecase) Delete(ctx context.Context, id string) error {
	err := u.tx.WithinTx(ctx, func(ctx context.Context, r repo.TxRepos) error {
		return r.Menu().Delete(ctx, id)
	})
	return toHTTPError(err)
}
