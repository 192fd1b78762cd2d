package repository

import (
	"context"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
	"github.com/shopspring/decimal"
)

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	// 同一の本はプラス
	UpsertByCartAndBook(ctx context.Context, cartID int64, bookID int64, addQty int64, unitPrice decimal.Decimal) error
	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error
	DeleteByID(ctx context.Context, cartItemID int64) error
	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)
	IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error)
}
