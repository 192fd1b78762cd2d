package repository

import (
	"context"
	"errors"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
	repo "github.com/SwapnilSaha5768/one-heart-ebook-store/internal/repository"

	"gorm.io/gorm"
)

type CouponGormRepository struct {
	db *gorm.DB
}

func NewCouponGormRepository(db *gorm.DB) *CouponGormRepository {
	return &CouponGormRepository{db: db}
}

// コードは大文字小文字を区別しない
func (r *CouponGormRepository) FindByCode(ctx context.Context, code string) (model.Coupon, error) {
	var c model.Coupon
	err := r.db.WithContext(ctx).
		Where("LOWER(code) = LOWER(?)", code).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Coupon{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Coupon{}, err
	}
	return c, nil
}

func (r *CouponGormRepository) FindByID(ctx context.Context, id int64) (model.Coupon, error) {
	var c model.Coupon
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Coupon{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Coupon{}, err
	}
	return c, nil
}

func (r *CouponGormRepository) IncrementUses(ctx context.Context, couponID int64) error {
	res := r.db.WithContext(ctx).Model(&model.Coupon{}).
		Where("id = ?", couponID).
		Update("uses_count", gorm.Expr("uses_count + 1"))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CouponGormRepository) List(ctx context.Context, page int, limit int) ([]model.Coupon, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Coupon{}).Count(&total).Error; err != nil {
		return []model.Coupon{}, 0, err
	}

	var items []model.Coupon
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error; err != nil {
		return []model.Coupon{}, 0, err
	}

	return items, total, nil
}

func (r *CouponGormRepository) Create(ctx context.Context, c model.Coupon) (model.Coupon, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return model.Coupon{}, translateUniqueViolation(err)
	}
	return c, nil
}

func (r *CouponGormRepository) Update(ctx context.Context, c model.Coupon) error {
	res := r.db.WithContext(ctx).Model(&model.Coupon{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"code":          c.Code,
			"description":   c.Description,
			"discount_type": c.DiscountType,
			"amount":        c.Amount,
			"max_uses":      c.MaxUses,
			"valid_from":    c.ValidFrom,
			"valid_to":      c.ValidTo,
			"is_active":     c.IsActive,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CouponGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Coupon{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

type CouponRedemptionGormRepository struct {
	db *gorm.DB
}

func NewCouponRedemptionGormRepository(db *gorm.DB) *CouponRedemptionGormRepository {
	return &CouponRedemptionGormRepository{db: db}
}

func (r *CouponRedemptionGormRepository) ExistsByCouponAndUser(ctx context.Context, couponID int64, userID int64) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.CouponRedemption{}).
		Where("coupon_id = ? AND user_id = ?", couponID, userID).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *CouponRedemptionGormRepository) Create(ctx context.Context, red model.CouponRedemption) error {
	if err := r.db.WithContext(ctx).Create(&red).Error; err != nil {
		return translateUniqueViolation(err)
	}
	return nil
}
