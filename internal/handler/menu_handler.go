package handler

import (
	"net/http"

	"restobill/internal/config"
	"restobill/internal/middleware"
	"restobill/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /menu（一覧は全員、変更は Manager だけ）
type MenuHandler struct {
	uc *usecase.MenuUsecase
}

// DI
func NewMenuHandler(uc *usecase.MenuUsecase) *MenuHandler {
	return &MenuHandler{uc: uc}
}

type MenuItemRequest struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Category    string          `json:"category" validate:"required,max=50"`
	Description string          `json:"description" validate:"max=500"`
}

func (r MenuItemRequest) toInput() usecase.MenuItemInput {
	return usecase.MenuItemInput{
		Name:        r.Name,
		Price:       r.Price,
		Category:    r.Category,
		Description: r.Description,
	}
}

func (h *MenuHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/menu")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.list)
	g.GET("/categories", h.categories)

	manager := middleware.ManagerRoleGuard(cfg)
	g.POST("", h.create, manager)
	g.PUT("/:id", h.update, manager)
	g.DELETE("/:id", h.delete, manager)
}

// ?category=Starters（空か All なら全部）
func (h *MenuHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *MenuHandler) categories(c echo.Context) error {
	out, err := h.uc.Categories(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *MenuHandler) create(c echo.Context) error {
	var req MenuItemRequest
	if err := bindRequest(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *MenuHandler) update(c echo.Context) error {
	var req MenuItemRequest
	if err := bindRequest(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Update(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *MenuHandler) delete(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}
