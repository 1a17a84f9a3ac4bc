package usecase

import (
	"context"
	"net/http"
	"strings"

	"restobill/internal/domain/model"
	repo "restobill/internal/repository"

	"github.com/shopspring/decimal"
)

type SettingsUsecase struct {
	tx repo.TransactionManager
}

func NewSettingsUsecase(tx repo.TransactionManager) *SettingsUsecase {
	return &SettingsUsecase{tx: tx}
}

var hundred = decimal.NewFromInt(100)

func (u *SettingsUsecase) Get(ctx context.Context) (model.StoreSettings, error) {
	var out model.StoreSettings
	err := u.tx.View(ctx, func(ctx context.Context, r repo.TxRepos) error {
		var err error
		out, err = r.Settings().Get(ctx)
		return err
	})
	if err != nil {
		return model.StoreSettings{}, toHTTPError(err)
	}
	return out, nil
}

// Update は設定を丸ごと置き換える。
// 税率・サービス料率は次に明細が変わった注文から効く（完了済みの金額は変わらない）。
func (u *SettingsUsecase) Update(ctx context.Context, in model.StoreSettings) (model.StoreSettings, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Currency = strings.TrimSpace(in.Currency)
	if in.Name == "" {
		return model.StoreSettings{}, NewHTTPError(http.StatusBadRequest, "invalid name")
	}
	if in.Currency == "" {
		return model.StoreSettings{}, NewHTTPError(http.StatusBadRequest, "invalid currency")
	}
	if in.GSTRate.IsNegative() || in.GSTRate.GreaterThan(hundred) {
		return model.StoreSettings{}, NewHTTPError(http.StatusBadRequest, "invalid gst_rate")
	}
	if in.ServiceChargeRate.IsNegative() || in.ServiceChargeRate.GreaterThan(hundred) {
		return model.StoreSettings{}, NewHTTPError(http.StatusBadRequest, "invalid service_charge_rate")
	}

	var out model.StoreSettings
	err := u.tx.WithinTx(ctx, func(ctx context.Context, r repo.TxRepos) error {
		var err error
		out, err = r.Settings().Update(ctx, in)
		return err
	})
	if err != nil {
		return model.StoreSettings{}, toHTTPError(err)
	}
	return out, nil
}
