package handler

import (
	"net/http"
	"strconv"

	"restobill/internal/config"
	"restobill/internal/middleware"
	"restobill/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /audit-logs（Manager だけ）
type AuditHandler struct {
	uc *usecase.AuditUsecase
}

// DI
func NewAuditHandler(uc *usecase.AuditUsecase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

func (h *AuditHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/audit-logs")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.ManagerRoleGuard(cfg))

	g.GET("", h.list)
}

// ?action=ORDER_COMPLETED&order_id=&staff_id=&limit=50&offset=0
func (h *AuditHandler) list(c echo.Context) error {
	// limit（default 50）
	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	offset := 0
	if v := c.QueryParam("offset"); v != "" {
		o, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid offset"})
		}
		offset = o
	}

	out, err := h.uc.List(c.Request().Context(), usecase.AuditListInput{
		Action:  c.QueryParam("action"),
		OrderID: c.QueryParam("order_id"),
		StaffID: c.QueryParam("staff_id"),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
