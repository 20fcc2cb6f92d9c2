package handler

import (
	"net/http"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 管理者向けのユーザー管理
type UserHandler struct {
	uc *usecase.UserUsecase
}

func NewUserHandler(uc *usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

// ["user","admin"] など。大文字小文字やROLE_接頭辞は問わない
type updateRolesRequest struct {
	Roles []string `json:"roles" validate:"required,min=1"`
}

func (h *UserHandler) RegisterRoutes(api *echo.Group, guards Guards) {
	g := api.Group("/users", guards.Admin...)

	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.PUT("/:id/roles", h.updateRoles)
}

func (h *UserHandler) list(c echo.Context) error {
	page, err := pageQuery(c)
	if err != nil {
		return err
	}
	out, err := h.uc.List(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) detail(c echo.Context) error {
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

func (h *UserHandler) updateRoles(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateRolesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := h.uc.UpdateRoles(c.Request().Context(), p.UserID, id, usecase.UpdateRolesInput{Roles: req.Roles})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
