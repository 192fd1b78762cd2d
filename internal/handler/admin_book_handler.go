package handler

import (
	"net/http"
	"strconv"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/config"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/middleware"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/repository"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type AdminBookHandler struct {
	uc *usecase.BookUsecase
}

func NewAdminBookHandler(uc *usecase.BookUsecase) *AdminBookHandler {
	return &AdminBookHandler{uc: uc}
}

type AdminBookRequest struct {
	Title         string  `json:"title"`
	Slug          string  `json:"slug"`
	Description   string  `json:"description"`
	FilePath      string  `json:"file_path"`
	FileFormat    string  `json:"file_format"`
	PDFPassword   string  `json:"pdf_password"`
	Price         string  `json:"price"`
	DiscountPrice *string `json:"discount_price"`
	IsActive      bool    `json:"is_active"`
}

func (h *AdminBookHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := e.Group("/admin")
	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.TokenVersionGuard(userRepo))
	admin.Use(middleware.AdminRoleGuard())

	admin.POST("/books", h.create)
	admin.PUT("/books/:id", h.update)
	admin.DELETE("/books/:id", h.delete)
}

func (h *AdminBookHandler) create(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req AdminBookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	in, err := toAdminBookInput(req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid price"})
	}

	id, err := h.uc.AdminCreateBook(c.Request().Context(), adminID, in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]int64{"id": id})
}

func (h *AdminBookHandler) update(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req AdminBookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	in, err := toAdminBookInput(req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid price"})
	}

	if err := h.uc.AdminUpdateBook(c.Request().Context(), adminID, bookID, in); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, usecase.SuccessResponse{Message: "updated"})
}

func (h *AdminBookHandler) delete(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	bookID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.AdminDeleteBook(c.Request().Context(), adminID, bookID); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, usecase.SuccessResponse{Message: "deleted"})
}

// 価格は文字列で受けてdecimalに変換（floatの誤差を避ける）
func toAdminBookInput(req AdminBookRequest) (usecase.AdminBookInput, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return usecase.AdminBookInput{}, err
	}

	var discountPrice *decimal.Decimal
	if req.DiscountPrice != nil && *req.DiscountPrice != "" {
		d, err := decimal.NewFromString(*req.DiscountPrice)
		if err != nil {
			return usecase.AdminBookInput{}, err
		}
		discountPrice = &d
	}

	format := req.FileFormat
	if format == "" {
		format = "pdf"
	}

	return usecase.AdminBookInput{
		Title:         req.Title,
		Slug:          req.Slug,
		Description:   req.Description,
		FilePath:      req.FilePath,
		FileFormat:    format,
		PDFPassword:   req.PDFPassword,
		Price:         price,
		DiscountPrice: discountPrice,
		IsActive:      req.IsActive,
	}, nil
}
