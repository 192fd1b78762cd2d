package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/config"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/middleware"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/repository"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// 購入済みの本とダウンロードURL発行のAPI
type LibraryHandler struct {
	uc *usecase.LibraryUsecase
}

func NewLibraryHandler(uc *usecase.LibraryUsecase) *LibraryHandler {
	return &LibraryHandler{uc: uc}
}

func (h *LibraryHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository, rdb *redis.Client) {
	g := e.Group("/library")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))

	g.GET("", h.list)

	//URL発行は1分30回まで
	g.POST("/:id/download-link", h.generateLink, middleware.DownloadThrottle(rdb, 30, time.Minute))
}

func (h *LibraryHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListMyLibrary(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *LibraryHandler) generateLink(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	purchaseItemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GenerateDownloadLink(c.Request().Context(), userID, purchaseItemID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}
