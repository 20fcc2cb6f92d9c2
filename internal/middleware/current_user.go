package middleware

import (
	"errors"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// AuthJWTが入れたusernameをDBのユーザーに解決する。
// ロールはトークンではなくDBの現在値を使う
func CurrentUser(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			username, ok := c.Get(CtxUsernameKey).(string)
			if !ok || username == "" {
				return usecase.NewUnauthorized("Full authentication is required to access this resource")
			}

			user, err := userRepo.FindByUsername(c.Request().Context(), username)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return usecase.NewUnauthorized("User not found")
				}
				return err
			}

			roles := make([]model.RoleName, 0, len(user.Roles))
			for _, r := range user.Roles {
				roles = append(roles, r.Name)
			}

			c.Set(CtxPrincipalKey, Principal{
				UserID:   user.ID,
				Username: user.Username,
				Roles:    roles,
			})
			return next(c)
		}
	}
}
