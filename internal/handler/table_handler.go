package handler

import (
	"net/http"

	"restobill/internal/config"
	"restobill/internal/middleware"
	"restobill/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /tables（フロアの操作）
type TableHandler struct {
	uc *usecase.POSUsecase
}

// DI
func NewTableHandler(uc *usecase.POSUsecase) *TableHandler {
	return &TableHandler{uc: uc}
}

type AddItemRequest struct {
	MenuItemID string `json:"menu_item_id" validate:"required"`
}

func (h *TableHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/tables")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.list)
	g.GET("/:id/order", h.currentOrder)
	g.POST("/:id/order", h.open)
	g.POST("/:id/order/items", h.addItem)
}

func (h *TableHandler) list(c echo.Context) error {
	out, err := h.uc.ListTables(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *TableHandler) currentOrder(c echo.Context) error {
	out, err := h.uc.CurrentOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 既に開いていれば 200、新しく作ったら 201
func (h *TableHandler) open(c echo.Context) error {
	out, err := h.uc.OpenTable(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	if out.Created {
		return c.JSON(http.StatusCreated, out)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *TableHandler) addItem(c echo.Context) error {
	var req AddItemRequest
	if err := bindRequest(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.AddItem(c.Request().Context(), c.Param("id"), req.MenuItemID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
