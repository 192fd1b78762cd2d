package repository

import (
	"context"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
)

type OrderItemRepository interface {
	//作成してIDを返す（PurchaseItemの付け替え先に使う）
	Create(ctx context.Context, item model.OrderItem) (int64, error)
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
}
