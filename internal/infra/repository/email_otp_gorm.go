package repository

import (
	"context"
	"errors"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
	repo "github.com/SwapnilSaha5768/one-heart-ebook-store/internal/repository"

	"gorm.io/gorm"
)

type EmailOTPGormRepository struct {
	db *gorm.DB
}

func NewEmailOTPGormRepository(db *gorm.DB) *EmailOTPGormRepository {
	return &EmailOTPGormRepository{db: db}
}

func (r *EmailOTPGormRepository) Create(ctx context.Context, otp model.EmailOTP) error {
	return r.db.WithContext(ctx).Create(&otp).Error
}

// 未使用の最新コードを1件
func (r *EmailOTPGormRepository) FindLatestByUserID(ctx context.Context, userID int64) (model.EmailOTP, error) {
	var otp model.EmailOTP
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_used = ?", userID, false).
		Order("id desc").
		First(&otp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.EmailOTP{}, repo.ErrNotFound
	}
	if err != nil {
		return model.EmailOTP{}, err
	}
	return otp, nil
}

func (r *EmailOTPGormRepository) MarkUsed(ctx context.Context, otpID int64) error {
	res := r.db.WithContext(ctx).Model(&model.EmailOTP{}).
		Where("id = ?", otpID).
		Update("is_used", true)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
