package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
	repo "github.com/SwapnilSaha5768/one-heart-ebook-store/internal/repository"

	"github.com/shopspring/decimal"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

type BookUsecase struct {
	bookRepo repo.BookRepository
}

// DI
func NewBookUsecase(bookRepo repo.BookRepository) *BookUsecase {
	return &BookUsecase{bookRepo: bookRepo}
}

// GET /booksの入力DTO
type ListBooksInput struct {
	Page     int
	Limit    int
	Q        string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
}

type BookListOutput struct {
	Items []model.Book `json:"items"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

func (u *BookUsecase) ListPublicBooks(ctx context.Context, in ListBooksInput) (BookListOutput, error) {
	if in.Page < 1 {
		return BookListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return BookListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return BookListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	if in.MinPrice != nil && in.MinPrice.IsNegative() {
		return BookListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be >= 0")
	}
	if in.MaxPrice != nil && in.MaxPrice.IsNegative() {
		return BookListOutput{}, NewHTTPError(http.StatusBadRequest, "max_price must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && in.MinPrice.GreaterThan(*in.MaxPrice) {
		return BookListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be <= max_price")
	}
	switch in.Sort {
	case "", "new", "price_asc", "price_desc":
	default:
		return BookListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	items, total, err := u.bookRepo.ListPublic(ctx, repo.BookListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Q:        strings.TrimSpace(in.Q),
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
		Sort:     in.Sort,
	})
	if err != nil {
		return BookListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return BookListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *BookUsecase) GetBookDetail(ctx context.Context, bookID int64) (model.Book, error) {
	if bookID <= 0 {
		return model.Book{}, NewHTTPError(http.StatusBadRequest, "invalid book id")
	}

	b, err := u.bookRepo.FindByID(ctx, bookID)
	if err == repo.ErrNotFound {
		return model.Book{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Book{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//非公開の本は存在しない扱い
	if !b.IsActive {
		return model.Book{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return b, nil
}

type AdminBookInput struct {
	Title         string
	Slug          string
	Description   string
	FilePath      string
	FileFormat    string
	PDFPassword   string
	Price         decimal.Decimal
	DiscountPrice *decimal.Decimal
	IsActive      bool
}

func (u *BookUsecase) AdminCreateBook(ctx context.Context, adminUserID int64, in AdminBookInput) (int64, error) {
	if adminUserID <= 0 {
		return 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validateAdminBookInput(in); err != nil {
		return 0, err
	}

	b, err := u.bookRepo.Create(ctx, model.Book{
		Title:         strings.TrimSpace(in.Title),
		Slug:          strings.TrimSpace(in.Slug),
		Description:   in.Description,
		FilePath:      in.FilePath,
		FileFormat:    model.FileFormat(in.FileFormat),
		PDFPassword:   in.PDFPassword,
		Price:         in.Price,
		DiscountPrice: in.DiscountPrice,
		IsActive:      in.IsActive,
	})
	if err == repo.ErrConflict {
		return 0, NewHTTPError(http.StatusConflict, "slug already used")
	}
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return b.ID, nil
}

func (u *BookUsecase) AdminUpdateBook(ctx context.Context, adminUserID int64, bookID int64, in AdminBookInput) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if bookID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid book id")
	}
	if err := validateAdminBookInput(in); err != nil {
		return err
	}

	err := u.bookRepo.Update(ctx, model.Book{
		ID:            bookID,
		Title:         strings.TrimSpace(in.Title),
		Slug:          strings.TrimSpace(in.Slug),
		Description:   in.Description,
		FilePath:      in.FilePath,
		FileFormat:    model.FileFormat(in.FileFormat),
		PDFPassword:   in.PDFPassword,
		Price:         in.Price,
		DiscountPrice: in.DiscountPrice,
		IsActive:      in.IsActive,
	})
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *BookUsecase) AdminDeleteBook(ctx context.Context, adminUserID int64, bookID int64) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if bookID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid book id")
	}

	err := u.bookRepo.SoftDelete(ctx, bookID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func validateAdminBookInput(in AdminBookInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return NewHTTPError(http.StatusBadRequest, "title required")
	}
	if strings.TrimSpace(in.Slug) == "" {
		return NewHTTPError(http.StatusBadRequest, "slug required")
	}
	if in.Price.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if in.DiscountPrice != nil && in.DiscountPrice.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "discount_price must be >= 0")
	}
	switch model.FileFormat(in.FileFormat) {
	case model.FileFormatPDF, model.FileFormatEPUB, model.FileFormatMOBI, model.FileFormatOther:
	default:
		return NewHTTPError(http.StatusBadRequest, "invalid file_format")
	}
	return nil
}
