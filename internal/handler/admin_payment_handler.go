package handler

import (
	"net/http"
	"strconv"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/config"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/middleware"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/repository"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 手動決済の検証（管理者）
type AdminPaymentHandler struct {
	uc *usecase.PaymentUsecase
}

func NewAdminPaymentHandler(uc *usecase.PaymentUsecase) *AdminPaymentHandler {
	return &AdminPaymentHandler{uc: uc}
}

type VerifyPaymentRequest struct {
	//"SUCCESS" または "FAILED"
	Result string `json:"result"`
}

type BulkVerifyRequest struct {
	IDs    []int64 `json:"ids"`
	Result string  `json:"result"`
}

func (h *AdminPaymentHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := e.Group("/admin")
	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.TokenVersionGuard(userRepo))
	admin.Use(middleware.AdminRoleGuard())

	admin.GET("/payments", h.list)
	admin.POST("/payments/:id/verify", h.verify)
	admin.POST("/payments/bulk-verify", h.bulkVerify)
}

func (h *AdminPaymentHandler) list(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	out, err := h.uc.AdminListPayments(c.Request().Context(), adminID, usecase.AdminListPaymentsInput{
		Page:   page,
		Limit:  limit,
		Status: c.QueryParam("status"),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminPaymentHandler) verify(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	paymentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	switch req.Result {
	case "SUCCESS":
		err = h.uc.MarkSuccess(c.Request().Context(), adminID, paymentID)
	case "FAILED":
		err = h.uc.MarkFailed(c.Request().Context(), adminID, paymentID)
	default:
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "result must be SUCCESS or FAILED"})
	}

	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, usecase.SuccessResponse{Message: "payment verified"})
}

func (h *AdminPaymentHandler) bulkVerify(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req BulkVerifyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	var target model.PaymentStatus
	switch req.Result {
	case "SUCCESS":
		target = model.PaymentStatusSuccess
	case "FAILED":
		target = model.PaymentStatusFailed
	default:
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "result must be SUCCESS or FAILED"})
	}

	results, err := h.uc.BulkVerify(c.Request().Context(), adminID, req.IDs, target)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{"results": results})
}
