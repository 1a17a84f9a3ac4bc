package handler

import (
	"net/http"

	"restobill/internal/config"
	"restobill/internal/domain/model"
	"restobill/internal/middleware"
	"restobill/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type SettingsHandler struct {
	uc *usecase.SettingsUsecase
}

func NewSettingsHandler(uc *usecase.SettingsUsecase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

// 全項目を送る（部分更新はしない）
type SettingsRequest struct {
	Name              string          `json:"name" validate:"required,max=100"`
	Address           string          `json:"address" validate:"max=200"`
	Phone             string          `json:"phone" validate:"max=30"`
	GSTRate           decimal.Decimal `json:"gst_rate" validate:"gte=0,lte=100"`
	ServiceChargeRate decimal.Decimal `json:"service_charge_rate" validate:"gte=0,lte=100"`
	Currency          string          `json:"currency" validate:"required,max=8"`
}

func (h *SettingsHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/settings")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.get)
	g.PUT("", h.update, middleware.ManagerRoleGuard(cfg))
}

func (h *SettingsHandler) get(c echo.Context) error {
	out, err := h.uc.Get(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SettingsHandler) update(c echo.Context) error {
	var req SettingsRequest
	if err := bindRequest(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Update(c.Request().Context(), model.StoreSettings{
		Name:              req.Name,
		Address:           req.Address,
		Phone:             req.Phone,
		GSTRate:           req.GSTRate,
		ServiceChargeRate: req.ServiceChargeRate,
		Currency:          req.Currency,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
