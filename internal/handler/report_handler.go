package handler

import (
	"net/http"

	"restobill/internal/config"
	"restobill/internal/middleware"
	"restobill/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ReportHandler struct {
	uc *usecase.ReportUsecase
}

func NewReportHandler(uc *usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

func (h *ReportHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/reports")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("/daily", h.daily)
	g.GET("/insight", h.insight)
}

// ?date=2006-01-02（省略で今日）
func (h *ReportHandler) daily(c echo.Context) error {
	out, err := h.uc.Daily(c.Request().Context(), c.QueryParam("date"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 生成に失敗しても 200 で固定文（fallback=true）
func (h *ReportHandler) insight(c echo.Context) error {
	out, err := h.uc.Insight(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
