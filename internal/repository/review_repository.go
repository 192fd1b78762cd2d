package repository

import (
	"context"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
)

type ReviewRepository interface {
	Create(ctx context.Context, r model.Review) (model.Review, error)
	ExistsByUserAndBook(ctx context.Context, userID int64, bookID int64) (bool, error)
	ListApprovedByBookID(ctx context.Context, bookID int64) ([]model.Review, error)
}
