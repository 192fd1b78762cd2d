package middleware

import (
	"net/http"
	"strings"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey       = "user_id"       // int64
	CtxUserRoleKey     = "user_role"     // string
	CtxTokenVersionKey = "token_version" // int
)

// アクセストークンのclaims。subは数値のユーザーIDで発行している。
// tvはログイン時点のtoken_version（強制ログアウトの判定に使う）。
type accessTokenClaims struct {
	UserID       int64  `json:"sub"`
	Role         string `json:"role"`
	TokenVersion int    `json:"tv"`
	jwt.RegisteredClaims
}

// Bearerアクセストークンの検証ミドルウェア。
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawToken := bearerToken(c)
			if rawToken == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			claims := new(accessTokenClaims)
			token, err := jwt.ParseWithClaims(rawToken, claims, func(t *jwt.Token) (interface{}, error) {
				return []byte(cfg.JWTSecret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || token == nil || !token.Valid {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			if claims.UserID <= 0 || claims.Role == "" || claims.TokenVersion < 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//後段のハンドラとガード用にcontextへ保存
			c.Set(CtxUserIDKey, claims.UserID)
			c.Set(CtxUserRoleKey, claims.Role)
			c.Set(CtxTokenVersionKey, claims.TokenVersion)

			return next(c)
		}
	}
}

// Authorizationヘッダからtokenを抜く。Bearer形式以外は空を返す。
func bearerToken(c echo.Context) string {
	authz := c.Request().Header.Get("Authorization")
	if authz == "" {
		return ""
	}
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
