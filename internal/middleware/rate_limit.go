package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// ダウンロードURL発行の固定ウィンドウ制限。
// ログイン済みならuser単位、そうでなければIP単位でカウントする。
func DownloadThrottle(rdb *redis.Client, limit int64, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := throttleKey(c, window)

			n, err := rdb.Incr(c.Request().Context(), key).Result()
			if err != nil {
				//Redisが落ちていてもダウンロードは止めない
				return next(c)
			}
			if n == 1 {
				rdb.Expire(c.Request().Context(), key, window)
			}

			if n > limit {
				return c.JSON(http.StatusTooManyRequests, errorJSON("too many requests"))
			}

			return next(c)
		}
	}
}

func throttleKey(c echo.Context, window time.Duration) string {
	bucket := time.Now().Unix() / int64(window.Seconds())

	if rawUserID := c.Get(CtxUserIDKey); rawUserID != nil {
		if userID, ok := rawUserID.(int64); ok && userID > 0 {
			return fmt.Sprintf("throttle:dl:u:%d:%d", userID, bucket)
		}
	}
	return fmt.Sprintf("throttle:dl:ip:%s:%d", c.RealIP(), bucket)
}
