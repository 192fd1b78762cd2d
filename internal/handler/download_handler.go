package handler

import (
	"time"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/middleware"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// トークン引き換えでファイルを配信する。
// URL自体がケーパビリティなので認証は要らない。
type DownloadHandler struct {
	uc *usecase.DownloadUsecase
}

func NewDownloadHandler(uc *usecase.DownloadUsecase) *DownloadHandler {
	return &DownloadHandler{uc: uc}
}

func (h *DownloadHandler) RegisterRoutes(e *echo.Echo, rdb *redis.Client) {
	//未認証なのでIP単位で絞る
	e.GET("/download/:token", h.download, middleware.DownloadThrottle(rdb, 60, time.Minute))
}

func (h *DownloadHandler) download(c echo.Context) error {
	token := c.Param("token")

	out, err := h.uc.Redeem(
		c.Request().Context(),
		token,
		c.RealIP(),
		c.Request().UserAgent(),
	)
	if err != nil {
		return writeError(c, err)
	}

	return c.Attachment(out.Path, out.FileName)
}
