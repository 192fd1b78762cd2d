package repository

import (
	"context"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
)

type PurchaseItemRepository interface {
	Create(ctx context.Context, p model.PurchaseItem) (int64, error)
	FindByID(ctx context.Context, id int64) (model.PurchaseItem, error)
	FindByUserAndBook(ctx context.Context, userID int64, bookID int64) (model.PurchaseItem, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.PurchaseItem, error)

	//再購入：最新の注文明細へ付け替えて再ロックする
	ReattachOrderItem(ctx context.Context, id int64, orderItemID int64) error

	//注文に紐づく権利をまとめて有効化/無効化
	SetActiveByOrderID(ctx context.Context, orderID int64, active bool) error

	IncrementDownloads(ctx context.Context, id int64) error
}
