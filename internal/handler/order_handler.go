package handler

import (
	"net/http"

	"restobill/internal/config"
	"restobill/internal/middleware"
	"restobill/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	uc   *usecase.POSUsecase
	bill *usecase.BillUsecase
}

func NewOrderHandler(uc *usecase.POSUsecase, bill *usecase.BillUsecase) *OrderHandler {
	return &OrderHandler{uc: uc, bill: bill}
}

type AdjustQuantityRequest struct {
	Delta *int `json:"delta" validate:"required"`
}

type LineNoteRequest struct {
	Note string `json:"note" validate:"max=500"`
}

type DiscountRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"gte=0"`
}

type OrderDetailsRequest struct {
	CustomerName string `json:"customer_name" validate:"max=100"`
	Note         string `json:"note" validate:"max=500"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.GET("/:id/bill", h.renderBill)
	g.PATCH("/:id/items/:line_id", h.adjustQuantity)
	g.PUT("/:id/items/:line_id/note", h.setLineNote)
	g.PUT("/:id/discount", h.applyDiscount)
	g.PUT("/:id/details", h.setDetails)
	g.POST("/:id/complete", h.complete)
	g.POST("/:id/cancel", h.cancel)
}

// ?status=active|completed|cancelled&table_id=t1
func (h *OrderHandler) list(c echo.Context) error {
	out, err := h.uc.ListOrders(c.Request().Context(), usecase.OrderListInput{
		Status:  c.QueryParam("status"),
		TableID: c.QueryParam("table_id"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	out, err := h.uc.GetOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) adjustQuantity(c echo.Context) error {
	var req AdjustQuantityRequest
	if err := bindRequest(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.AdjustQuantity(c.Request().Context(), c.Param("id"), c.Param("line_id"), *req.Delta)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) setLineNote(c echo.Context) error {
	var req LineNoteRequest
	if err := bindRequest(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.SetLineNote(c.Request().Context(), c.Param("id"), c.Param("line_id"), req.Note)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) applyDiscount(c echo.Context) error {
	var req DiscountRequest
	if err := bindRequest(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.ApplyDiscount(c.Request().Context(), c.Param("id"), req.Amount)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) setDetails(c echo.Context) error {
	var req OrderDetailsRequest
	if err := bindRequest(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.SetDetails(c.Request().Context(), c.Param("id"), req.CustomerName, req.Note)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) complete(c echo.Context) error {
	out, err := h.uc.CompleteOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) cancel(c echo.Context) error {
	out, err := h.uc.CancelOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 伝票はそのまま印刷できるテキストで返す
func (h *OrderHandler) renderBill(c echo.Context) error {
	out, err := h.bill.Render(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.String(http.StatusOK, out)
}
