package repository

import (
	"context"

	"restobill/internal/domain/model"
)

type MenuRepository interface {
	List(ctx context.Context) ([]model.MenuItem, error)
	FindByID(ctx context.Context, id string) (model.MenuItem, error)
	Create(ctx context.Context, item model.MenuItem) (model.MenuItem, error)
	Update(ctx context.Context, item model.MenuItem) (model.MenuItem, error)
	Delete(ctx context.Context, id string) error
}

type StaffRepository interface {
	List(ctx context.Context) ([]model.Staff, error)
	FindByID(ctx context.Context, id string) (model.Staff, error)
	Create(ctx context.Context, s model.Staff) (model.Staff, error)
	Update(ctx context.Context, s model.Staff) (model.Staff, error)
	Delete(ctx context.Context, id string) error
}

type SettingsRepository interface {
	Get(ctx context.Context) (model.StoreSettings, error)
	Update(ctx context.Context, s model.StoreSettings) (model.StoreSettings, error)
}
