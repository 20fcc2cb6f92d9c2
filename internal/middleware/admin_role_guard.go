package middleware

import (
	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// CurrentUserが解決したロールにADMINがあるかを確認します。
func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return usecase.NewUnauthorized("Full authentication is required to access this resource")
			}

			//USERは拒否、ADMINだけ許可
			if !p.HasRole(model.RoleAdmin) {
				return usecase.NewForbidden(usecase.MsgAccessDenied)
			}

			return next(c)
		}
	}
}
