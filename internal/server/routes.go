package server

import (
	"net/http"

	"restobill/internal/config"
	"restobill/internal/handler"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	Tables   *handler.TableHandler
	Orders   *handler.OrderHandler
	Menu     *handler.MenuHandler
	Staff    *handler.StaffHandler
	Settings *handler.SettingsHandler
	Reports  *handler.ReportHandler
	Audit    *handler.AuditHandler
}

// /health と /auth/login 以外は AuthJWT の後ろ
func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, handler.SuccessResponse{Message: "ok"})
	})

	h.Auth.RegisterRoutes(e)
	h.Tables.RegisterRoutes(e, cfg)
	h.Orders.RegisterRoutes(e, cfg)
	h.Menu.RegisterRoutes(e, cfg)
	h.Staff.RegisterRoutes(e, cfg)
	h.Settings.RegisterRoutes(e, cfg)
	h.Reports.RegisterRoutes(e, cfg)
	h.Audit.RegisterRoutes(e, cfg)
}
