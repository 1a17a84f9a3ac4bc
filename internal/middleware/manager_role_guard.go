package middleware

import (
	"net/http"

	"restobill/internal/config"
	"restobill/internal/domain/model"

	"github.com/labstack/echo/v4"
)

//contextに入っているroleがManagerかどうかを確認します。AuthJWT の後に置く。

func ManagerRoleGuard(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if !cfg.AuthEnabled() {
			return next
		}
		return func(c echo.Context) error {
			rawRole := c.Get(CtxStaffRoleKey)
			role, ok := rawRole.(string)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			if model.StaffRole(role) != model.StaffRoleManager {
				return c.JSON(http.StatusForbidden, errorJSON("manager only"))
			}

			return next(c)
		}
	}
}
