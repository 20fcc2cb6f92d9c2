package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/cartのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type addCartRequest struct {
	ProductID int64 `json:"productId" validate:"required"`
	Quantity  int64 `json:"quantity" validate:"min=1"`
}

type updateCartItemRequest struct {
	Quantity int64 `json:"quantity" validate:"min=1"`
}

// /api/cart, /api/cart/:id を登録
func (h *CartHandler) RegisterRoutes(api *echo.Group, guards Guards) {
	g := api.Group("/cart", guards.User...)

	g.GET("", h.list)
	g.POST("", h.add)
	g.DELETE("", h.clear)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.remove)
}

func (h *CartHandler) list(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	out, err := h.uc.ListItems(c.Request().Context(), p.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) add(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req addCartRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.uc.AddItem(c.Request().Context(), p.UserID, usecase.AddCartItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CartHandler) update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateCartItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	out, err := h.uc.UpdateItem(c.Request().Context(), p.UserID, id, usecase.UpdateCartItemInput{
		Quantity: req.Quantity,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) remove(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.RemoveItem(c.Request().Context(), p.UserID, id); err != nil {
		return err
	}
	return messageJSON(c, http.StatusOK, "Item removed from cart")
}

func (h *CartHandler) clear(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	if err := h.uc.ClearCart(c.Request().Context(), p.UserID); err != nil {
		return err
	}
	return messageJSON(c, http.StatusOK, "Cart cleared successfully")
}
