package repository

import (
	"context"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"

	"gorm.io/gorm"
)

type ReviewGormRepository struct {
	db *gorm.DB
}

func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{db: db}
}

func (r *ReviewGormRepository) Create(ctx context.Context, review model.Review) (model.Review, error) {
	if err := r.db.WithContext(ctx).Create(&review).Error; err != nil {
		return model.Review{}, translateUniqueViolation(err)
	}
	return review, nil
}

func (r *ReviewGormRepository) ExistsByUserAndBook(ctx context.Context, userID int64, bookID int64) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// 承認済みレビューだけ公開する
func (r *ReviewGormRepository) ListApprovedByBookID(ctx context.Context, bookID int64) ([]model.Review, error) {
	var items []model.Review

	if err := r.db.WithContext(ctx).
		Where("book_id = ? AND is_approved = ?", bookID, true).
		Order("id desc").
		Find(&items).Error; err != nil {
		return []model.Review{}, err
	}

	return items, nil
}
