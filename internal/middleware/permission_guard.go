package middleware

import (
	"github.com/shadinbyte/shopease/internal/authz"

	"github.com/labstack/echo/v4"
)

// contextに入っているroleで obj/act が許可されているか casbin で確認します。
// 未ログインで拒否なら401、ログイン済みなら403
func RequirePermission(enforcer *authz.Enforcer, obj string, act string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxUserRoleKey).(string)

			if enforcer.Can(role, obj, act) {
				return next(c)
			}
			if role == "" {
				return unauthorized(c)
			}
			return forbidden(c)
		}
	}
}
