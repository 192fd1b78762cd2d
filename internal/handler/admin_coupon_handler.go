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
	"github.com/shopspring/decimal"
)

type AdminCouponHandler struct {
	uc *usecase.AdminCouponUsecase
}

func NewAdminCouponHandler(uc *usecase.AdminCouponUsecase) *AdminCouponHandler {
	return &AdminCouponHandler{uc: uc}
}

type AdminCouponRequest struct {
	Code         string  `json:"code"`
	Description  string  `json:"description"`
	DiscountType string  `json:"discount_type"`
	Amount       string  `json:"amount"`
	MaxUses      *int64  `json:"max_uses"`
	ValidFrom    string  `json:"valid_from"`
	ValidTo      *string `json:"valid_to"`
	IsActive     bool    `json:"is_active"`
}

func (h *AdminCouponHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := e.Group("/admin")
	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.TokenVersionGuard(userRepo))
	admin.Use(middleware.AdminRoleGuard())

	admin.GET("/coupons", h.list)
	admin.POST("/coupons", h.create)
	admin.PUT("/coupons/:id", h.update)
	admin.DELETE("/coupons/:id", h.delete)
}

func (h *AdminCouponHandler) list(c echo.Context) error {
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	items, total, err := h.uc.List(c.Request().Context(), page, limit)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": items,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (h *AdminCouponHandler) create(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req AdminCouponRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	in, err := toAdminCouponInput(req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	id, err := h.uc.Create(c.Request().Context(), adminID, in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]int64{"id": id})
}

func (h *AdminCouponHandler) update(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	couponID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req AdminCouponRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	in, err := toAdminCouponInput(req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.Update(c.Request().Context(), adminID, couponID, in); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, usecase.SuccessResponse{Message: "updated"})
}

func (h *AdminCouponHandler) delete(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	couponID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.Delete(c.Request().Context(), adminID, couponID); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, usecase.SuccessResponse{Message: "deleted"})
}

func toAdminCouponInput(req AdminCouponRequest) (usecase.AdminCouponInput, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return usecase.AdminCouponInput{}, err
	}

	validFrom, err := time.Parse(time.RFC3339, req.ValidFrom)
	if err != nil {
		return usecase.AdminCouponInput{}, err
	}

	var validTo *time.Time
	if req.ValidTo != nil && *req.ValidTo != "" {
		t, err := time.Parse(time.RFC3339, *req.ValidTo)
		if err != nil {
			return usecase.AdminCouponInput{}, err
		}
		validTo = &t
	}

	return usecase.AdminCouponInput{
		Code:         req.Code,
		Description:  req.Description,
		DiscountType: req.DiscountType,
		Amount:       amount,
		MaxUses:      req.MaxUses,
		ValidFrom:    validFrom,
		ValidTo:      validTo,
		IsActive:     req.IsActive,
	}, nil
}
