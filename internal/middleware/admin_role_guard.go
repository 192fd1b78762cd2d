package middleware

import (
	"net/http"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// /admin配下のガード。AuthJWTがcontextに入れたroleがADMINであること。
func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxUserRoleKey).(string)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			if model.Role(role) != model.RoleAdmin {
				return c.JSON(http.StatusForbidden, errorJSON("admin only"))
			}

			return next(c)
		}
	}
}
