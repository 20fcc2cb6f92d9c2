package middleware

import (
	"storefront/internal/domain/model"

	"github.com/labstack/echo/v4"
)

const (
	CtxRequestIDKey = "request_id" // string
	CtxUsernameKey  = "username"   // string（JWTのsub）
	CtxPrincipalKey = "principal"  // Principal
)

// リクエストごとに1回だけ解決したログイン中ユーザー
type Principal struct {
	UserID   int64
	Username string
	Roles    []model.RoleName
}

func (p Principal) HasRole(name model.RoleName) bool {
	for _, r := range p.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// PrincipalFrom はCurrentUserが入れた値を取り出す
func PrincipalFrom(c echo.Context) (Principal, bool) {
	p, ok := c.Get(CtxPrincipalKey).(Principal)
	if !ok || p.UserID <= 0 {
		return Principal{}, false
	}
	return p, true
}

func RequestIDFrom(c echo.Context) string {
	id, _ := c.Get(CtxRequestIDKey).(string)
	return id
}
