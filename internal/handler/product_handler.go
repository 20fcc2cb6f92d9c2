package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	uc *usecase.ProductUsecase
}

func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

type productRequest struct {
	Name          string           `json:"name" validate:"required,max=255"`
	Description   string           `json:"description"`
	Price         *decimal.Decimal `json:"price" validate:"required"`
	StockQuantity int64            `json:"stockQuantity" validate:"gte=0"`
	ImageURL      string           `json:"imageUrl" validate:"max=512"`
	CategoryID    *int64           `json:"categoryId"`
}

type updateStockRequest struct {
	StockQuantity *int64 `json:"stockQuantity" validate:"required"`
}

func (r productRequest) input() usecase.AdminProductInput {
	in := usecase.AdminProductInput{
		Name:          r.Name,
		Description:   r.Description,
		StockQuantity: r.StockQuantity,
		ImageURL:      r.ImageURL,
		CategoryID:    r.CategoryID,
	}
	if r.Price != nil {
		in.Price = *r.Price
	}
	return in
}

func (h *ProductHandler) RegisterRoutes(api *echo.Group, guards Guards) {
	g := api.Group("/products")

	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.GET("/:id/availability", h.availability)
	g.POST("", h.create, guards.Admin...)
	g.PUT("/:id", h.update, guards.Admin...)
	g.DELETE("/:id", h.delete, guards.Admin...)
	g.PUT("/:id/stock", h.updateStock, guards.Admin...)
}

// GET /api/products?page&size&categoryId&q
func (h *ProductHandler) list(c echo.Context) error {
	page, err := pageQuery(c)
	if err != nil {
		return err
	}
	categoryID, err := optionalInt64Query(c, "categoryId")
	if err != nil {
		return err
	}

	out, err := h.uc.List(c.Request().Context(), usecase.ListProductsInput{
		PageInput:  page,
		Q:          c.QueryParam("q"),
		CategoryID: categoryID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) availability(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	qty := int64(1)
	if v := c.QueryParam("quantity"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return usecase.NewValidation(map[string]string{"quantity": "must be an integer"})
		}
		qty = n
	}

	out, err := h.uc.CheckAvailability(c.Request().Context(), id, qty)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) create(c echo.Context) error {
	var req productRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := h.uc.AdminCreate(c.Request().Context(), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ProductHandler) update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req productRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := h.uc.AdminUpdate(c.Request().Context(), id, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.AdminDelete(c.Request().Context(), id); err != nil {
		return err
	}
	return messageJSON(c, http.StatusOK, "Product deleted successfully")
}

func (h *ProductHandler) updateStock(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateStockRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := h.uc.AdminUpdateStock(c.Request().Context(), p.UserID, id, *req.StockQuantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
