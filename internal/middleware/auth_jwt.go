package middleware

import (
	"strings"

	"storefront/internal/infra/token"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// JWTを検証する約束
type TokenParser interface {
	Parse(raw string) (*token.Claims, error)
}

// bearerAuth用のJWT検証ミドルウェア。usernameだけをcontextへ入れる
func AuthJWT(parser TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			authz := c.Request().Header.Get(echo.HeaderAuthorization)
			if authz == "" {
				return usecase.NewUnauthorized("Full authentication is required to access this resource")
			}

			//Bearer形式か確認してtokenを抜く
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return usecase.NewUnauthorized("Invalid authorization header")
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				return usecase.NewUnauthorized("Invalid authorization header")
			}

			//JWTをパースして検証する
			claims, err := parser.Parse(rawToken)
			if err != nil {
				return usecase.NewUnauthorized("Invalid or expired token")
			}

			//contextへ保存
			c.Set(CtxUsernameKey, claims.Subject)
			return next(c)
		}
	}
}
