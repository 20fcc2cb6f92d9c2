package server

import (
	"net/http"

	"storefront/internal/handler"
	"storefront/internal/infra/token"
	appmw "storefront/internal/middleware"
	repo "storefront/internal/repository"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Auth       *handler.AuthHandler
	Cart       *handler.CartHandler
	Orders     *handler.OrderHandler
	Categories *handler.CategoryHandler
	Products   *handler.ProductHandler
	Users      *handler.UserHandler
	AuditLogs  *handler.AuditLogHandler
}

// RegisterRoutes は /api 以下と /healthz を登録する
func RegisterRoutes(e *echo.Echo, h Handlers, jwt *token.JWTManager, userRepo repo.UserRepository) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	user := []echo.MiddlewareFunc{appmw.AuthJWT(jwt), appmw.CurrentUser(userRepo)}
	guards := handler.Guards{
		User:  user,
		Admin: append(append([]echo.MiddlewareFunc{}, user...), appmw.AdminRoleGuard()),
	}

	api := e.Group("/api")
	h.Auth.RegisterRoutes(api, guards)
	h.Cart.RegisterRoutes(api, guards)
	h.Orders.RegisterRoutes(api, guards)
	h.Categories.RegisterRoutes(api, guards)
	h.Products.RegisterRoutes(api, guards)
	h.Users.RegisterRoutes(api, guards)
	h.AuditLogs.RegisterRoutes(api, guards)
}
