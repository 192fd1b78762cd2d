package repository

import (
	"context"
	"errors"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("not found")

// 一意制約違反（再購入の競合など）
var ErrConflict = errors.New("conflict")

// 一覧検索
type BookListQuery struct {
	Page     int
	Limit    int
	Q        string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
}

// 本の永続化（保存・取得）だけを約束。
type BookRepository interface {
	ListPublic(ctx context.Context, q BookListQuery) ([]model.Book, int64, error)
	FindByID(ctx context.Context, id int64) (model.Book, error)
	FindBySlug(ctx context.Context, slug string) (model.Book, error)

	Create(ctx context.Context, b model.Book) (model.Book, error)
	Update(ctx context.Context, b model.Book) error
	SoftDelete(ctx context.Context, id int64) error
}
