package handler

import (
	"net/http"

	"restobill/internal/config"
	"restobill/internal/middleware"
	"restobill/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /staff（一覧以外は Manager だけ）
type StaffHandler struct {
	uc *usecase.StaffUsecase
}

// DI
func NewStaffHandler(uc *usecase.StaffUsecase) *StaffHandler {
	return &StaffHandler{uc: uc}
}

type StaffCreateRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Role  string `json:"role" validate:"required,oneof=Manager Waiter Chef Cashier"`
	Phone string `json:"phone" validate:"max=30"`
	Email string `json:"email" validate:"omitempty,email"`
}

type StaffPINRequest struct {
	PIN string `json:"pin" validate:"required,numeric,min=4,max=8"`
}

func (h *StaffHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/staff")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.list)

	manager := middleware.ManagerRoleGuard(cfg)
	g.POST("", h.create, manager)
	g.DELETE("/:id", h.delete, manager)
	g.PUT("/:id/pin", h.setPIN, manager)
}

func (h *StaffHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *StaffHandler) create(c echo.Context) error {
	var req StaffCreateRequest
	if err := bindRequest(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Create(c.Request().Context(), usecase.StaffInput{
		Name:  req.Name,
		Role:  req.Role,
		Phone: req.Phone,
		Email: req.Email,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *StaffHandler) delete(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

func (h *StaffHandler) setPIN(c echo.Context) error {
	var req StaffPINRequest
	if err := bindRequest(c, &req); err != nil {
		return writeError(c, err)
	}

	if err := h.uc.SetPIN(c.Request().Context(), c.Param("id"), req.PIN); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "pin updated"})
}
