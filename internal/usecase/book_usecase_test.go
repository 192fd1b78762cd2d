package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
	repo "github.com/SwapnilSaha5768/one-heart-ebook-store/internal/repository"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestBookUsecase_ListPublicBooks_Success(t *testing.T) {
	ctx := context.Background()
	books := new(BookRepoMock)
	uc := usecase.NewBookUsecase(books)

	books.On("ListPublic", mock.Anything, repo.BookListQuery{
		Page:  1,
		Limit: 20,
		Q:     "golang",
		Sort:  "price_asc",
	}).Return([]model.Book{{ID: 10, Title: "Go入門"}}, int64(1), nil)

	//前後の空白は落としてから検索する
	out, err := uc.ListPublicBooks(ctx, usecase.ListBooksInput{Page: 1, Limit: 20, Q: " golang ", Sort: "price_asc"})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.Total)
	assert.Len(t, out.Items, 1)
}

func TestBookUsecase_ListPublicBooks_InvalidInput(t *testing.T) {
	uc := usecase.NewBookUsecase(new(BookRepoMock))
	min := decimal.NewFromInt(500)
	max := decimal.NewFromInt(100)
	neg := decimal.NewFromInt(-1)

	cases := []usecase.ListBooksInput{
		{Page: 0, Limit: 20},
		{Page: 1, Limit: 0},
		{Page: 1, Limit: 101},
		{Page: 1, Limit: 20, Sort: "popular"},
		{Page: 1, Limit: 20, MinPrice: &neg},
		{Page: 1, Limit: 20, MinPrice: &min, MaxPrice: &max},
	}
	for _, in := range cases {
		_, err := uc.ListPublicBooks(context.Background(), in)
		assertHTTPStatus(t, err, http.StatusBadRequest)
	}
}

func TestBookUsecase_GetBookDetail_InactiveHidden(t *testing.T) {
	books := new(BookRepoMock)
	uc := usecase.NewBookUsecase(books)

	books.On("FindByID", mock.Anything, int64(10)).Return(model.Book{ID: 10, IsActive: false}, nil)

	_, err := uc.GetBookDetail(context.Background(), 10)
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestBookUsecase_AdminCreateBook_Success(t *testing.T) {
	ctx := context.Background()
	books := new(BookRepoMock)
	uc := usecase.NewBookUsecase(books)

	books.On("Create", mock.Anything, mock.MatchedBy(func(b model.Book) bool {
		return b.Title == "Go入門" && b.Slug == "go-nyumon" && b.FileFormat == model.FileFormatPDF
	})).Return(model.Book{ID: 10}, nil)

	id, err := uc.AdminCreateBook(ctx, 9, usecase.AdminBookInput{
		Title:      " Go入門 ",
		Slug:       "go-nyumon",
		FileFormat: "pdf",
		Price:      decimal.NewFromInt(500),
		IsActive:   true,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(10), id)
}

func TestBookUsecase_AdminCreateBook_DuplicateSlug(t *testing.T) {
	books := new(BookRepoMock)
	uc := usecase.NewBookUsecase(books)

	books.On("Create", mock.Anything, mock.Anything).Return(model.Book{}, repo.ErrConflict)

	_, err := uc.AdminCreateBook(context.Background(), 9, usecase.AdminBookInput{
		Title:      "Go入門",
		Slug:       "go-nyumon",
		FileFormat: "pdf",
		Price:      decimal.NewFromInt(500),
	})
	assertHTTPStatus(t, err, http.StatusConflict)
	assertErrContains(t, err, "slug already used")
}

func TestBookUsecase_AdminCreateBook_InvalidInput(t *testing.T) {
	uc := usecase.NewBookUsecase(new(BookRepoMock))
	neg := decimal.NewFromInt(-1)

	cases := []usecase.AdminBookInput{
		{Title: "", Slug: "s", FileFormat: "pdf", Price: decimal.NewFromInt(1)},
		{Title: "t", Slug: " ", FileFormat: "pdf", Price: decimal.NewFromInt(1)},
		{Title: "t", Slug: "s", FileFormat: "docx", Price: decimal.NewFromInt(1)},
		{Title: "t", Slug: "s", FileFormat: "pdf", Price: decimal.NewFromInt(-1)},
		{Title: "t", Slug: "s", FileFormat: "pdf", Price: decimal.NewFromInt(1), DiscountPrice: &neg},
	}
	for _, in := range cases {
		_, err := uc.AdminCreateBook(context.Background(), 9, in)
		assertHTTPStatus(t, err, http.StatusBadRequest)
	}
}

func TestBookUsecase_AdminDeleteBook_NotFound(t *testing.T) {
	books := new(BookRepoMock)
	uc := usecase.NewBookUsecase(books)

	books.On("SoftDelete", mock.Anything, int64(999)).Return(repo.ErrNotFound)

	err := uc.AdminDeleteBook(context.Background(), 9, 999)
	assertHTTPStatus(t, err, http.StatusNotFound)
}
