package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc      *usecase.OrderUsecase
	adminUC *usecase.AdminOrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase, adminUC *usecase.AdminOrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc, adminUC: adminUC}
}

type createOrderRequest struct {
	ShippingAddress string `json:"shippingAddress" validate:"required"`
}

// bodyは省略できる
type payOrderRequest struct {
	PaymentID string `json:"paymentId" validate:"max=255"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *OrderHandler) RegisterRoutes(api *echo.Group, guards Guards) {
	g := api.Group("/orders")

	g.POST("", h.create, guards.User...)
	g.GET("", h.list, guards.User...)
	// /:id より先に静的パスで拾われる
	g.GET("/all", h.listAll, guards.Admin...)
	g.GET("/:id", h.detail, guards.User...)
	g.PUT("/:id/pay", h.pay, guards.User...)
	g.PUT("/:id/status", h.updateStatus, guards.Admin...)
}

func (h *OrderHandler) create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.uc.CreateOrder(c.Request().Context(), p.UserID, usecase.CreateOrderInput{
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) list(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	page, err := pageQuery(c)
	if err != nil {
		return err
	}

	out, err := h.uc.GetUserOrders(c.Request().Context(), p.UserID, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	out, err := h.uc.GetOrderByID(c.Request().Context(), p.UserID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) pay(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req payOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.uc.PayOrder(c.Request().Context(), p.UserID, id, usecase.PayOrderInput{
		PaymentRef: req.PaymentID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) listAll(c echo.Context) error {
	page, err := pageQuery(c)
	if err != nil {
		return err
	}

	out, err := h.adminUC.List(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) updateStatus(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateOrderStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.adminUC.UpdateStatus(c.Request().Context(), p.UserID, id, usecase.AdminUpdateOrderStatusInput{
		Status: req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
