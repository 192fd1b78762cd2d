package repository

import (
	"context"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
)

type CouponRepository interface {
	//コードは大文字小文字を区別しない
	FindByCode(ctx context.Context, code string) (model.Coupon, error)
	FindByID(ctx context.Context, id int64) (model.Coupon, error)
	IncrementUses(ctx context.Context, couponID int64) error

	List(ctx context.Context, page int, limit int) ([]model.Coupon, int64, error)
	Create(ctx context.Context, c model.Coupon) (model.Coupon, error)
	Update(ctx context.Context, c model.Coupon) error
	Delete(ctx context.Context, id int64) error
}

type CouponRedemptionRepository interface {
	//(coupon, user) で使用済みか
	ExistsByCouponAndUser(ctx context.Context, couponID int64, userID int64) (bool, error)
	Create(ctx context.Context, r model.CouponRedemption) error
}
