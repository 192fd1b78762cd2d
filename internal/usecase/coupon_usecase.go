package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
	repo "github.com/SwapnilSaha5768/one-heart-ebook-store/internal/repository"

	"github.com/shopspring/decimal"
)

var decimalHundred = decimal.NewFromInt(100)

// 割引額と割引後の合計を計算する。
// パーセントは小数第2位に四捨五入。割引は合計を超えず、結果は0を下回らない。
func CalculateCouponDiscount(c model.Coupon, amount decimal.Decimal) (discount decimal.Decimal, final decimal.Decimal) {
	switch c.DiscountType {
	case model.DiscountTypePercentage:
		discount = amount.Mul(c.Amount).Div(decimalHundred).Round(2)
	case model.DiscountTypeFixed:
		discount = c.Amount
	default:
		discount = decimal.Zero
	}

	//割引は合計まで
	if discount.GreaterThan(amount) {
		discount = amount
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	final = amount.Sub(discount)
	if final.IsNegative() {
		final = decimal.Zero
	}
	return discount, final
}

type CouponUsecase struct {
	tx repo.TransactionManager
}

func NewCouponUsecase(tx repo.TransactionManager) *CouponUsecase {
	return &CouponUsecase{tx: tx}
}

type CouponPreviewOutput struct {
	Code           string          `json:"code"`
	DiscountType   string          `json:"discount_type"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	OriginalAmount decimal.Decimal `json:"original_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
}

// 呼び出し側が渡した金額に対する割引のプレビュー。注文は作らない。
func (u *CouponUsecase) Preview(ctx context.Context, userID int64, code string, amount decimal.Decimal) (CouponPreviewOutput, error) {
	if userID <= 0 {
		return CouponPreviewOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return CouponPreviewOutput{}, NewHTTPError(http.StatusBadRequest, "code required")
	}
	if amount.IsNegative() {
		return CouponPreviewOutput{}, NewHTTPError(http.StatusBadRequest, "invalid amount")
	}

	var out CouponPreviewOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		coupon, err := r.Coupons().FindByCode(ctx, code)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "invalid coupon code")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if !coupon.IsValidNow(time.Now()) {
			return NewHTTPError(http.StatusBadRequest, "coupon is not currently valid")
		}

		used, err := r.CouponRedemptions().ExistsByCouponAndUser(ctx, coupon.ID, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if used {
			return NewHTTPError(http.StatusBadRequest, "coupon already used")
		}

		discount, final := CalculateCouponDiscount(coupon, amount)
		out = CouponPreviewOutput{
			Code:           coupon.Code,
			DiscountType:   string(coupon.DiscountType),
			DiscountValue:  coupon.Amount,
			OriginalAmount: amount,
			DiscountAmount: discount,
			FinalAmount:    final,
		}
		return nil
	})

	if err != nil {
		return CouponPreviewOutput{}, err
	}
	return out, nil
}

type AdminCouponInput struct {
	Code         string
	Description  string
	DiscountType string
	Amount       decimal.Decimal
	MaxUses      *int64
	ValidFrom    time.Time
	ValidTo      *time.Time
	IsActive     bool
}

type AdminCouponUsecase struct {
	coupons repo.CouponRepository
}

func NewAdminCouponUsecase(coupons repo.CouponRepository) *AdminCouponUsecase {
	return &AdminCouponUsecase{coupons: coupons}
}

func (u *AdminCouponUsecase) List(ctx context.Context, page int, limit int) ([]model.Coupon, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	items, total, err := u.coupons.List(ctx, page, limit)
	if err != nil {
		return nil, 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, total, nil
}

func (u *AdminCouponUsecase) Create(ctx context.Context, adminUserID int64, in AdminCouponInput) (int64, error) {
	if adminUserID <= 0 {
		return 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := validateCouponInput(in); err != nil {
		return 0, err
	}

	c, err := u.coupons.Create(ctx, model.Coupon{
		Code:         strings.TrimSpace(in.Code),
		Description:  in.Description,
		DiscountType: model.DiscountType(in.DiscountType),
		Amount:       in.Amount,
		MaxUses:      in.MaxUses,
		ValidFrom:    in.ValidFrom,
		ValidTo:      in.ValidTo,
		IsActive:     in.IsActive,
	})
	if err == repo.ErrConflict {
		return 0, NewHTTPError(http.StatusConflict, "code already used")
	}
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c.ID, nil
}

func (u *AdminCouponUsecase) Update(ctx context.Context, adminUserID int64, couponID int64, in AdminCouponInput) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if couponID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid coupon id")
	}
	if err := validateCouponInput(in); err != nil {
		return err
	}

	err := u.coupons.Update(ctx, model.Coupon{
		ID:           couponID,
		Code:         strings.TrimSpace(in.Code),
		Description:  in.Description,
		DiscountType: model.DiscountType(in.DiscountType),
		Amount:       in.Amount,
		MaxUses:      in.MaxUses,
		ValidFrom:    in.ValidFrom,
		ValidTo:      in.ValidTo,
		IsActive:     in.IsActive,
	})
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *AdminCouponUsecase) Delete(ctx context.Context, adminUserID int64, couponID int64) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if couponID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid coupon id")
	}

	err := u.coupons.Delete(ctx, couponID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func validateCouponInput(in AdminCouponInput) error {
	if strings.TrimSpace(in.Code) == "" {
		return NewHTTPError(http.StatusBadRequest, "code required")
	}
	switch model.DiscountType(in.DiscountType) {
	case model.DiscountTypePercentage:
		if in.Amount.IsNegative() || in.Amount.GreaterThan(decimalHundred) {
			return NewHTTPError(http.StatusBadRequest, "percentage must be between 0 and 100")
		}
	case model.DiscountTypeFixed:
		if in.Amount.IsNegative() {
			return NewHTTPError(http.StatusBadRequest, "amount must be >= 0")
		}
	default:
		return NewHTTPError(http.StatusBadRequest, "invalid discount_type")
	}
	if in.MaxUses != nil && *in.MaxUses < 1 {
		return NewHTTPError(http.StatusBadRequest, "max_uses must be >= 1")
	}
	if in.ValidTo != nil && in.ValidTo.Before(in.ValidFrom) {
		return NewHTTPError(http.StatusBadRequest, "valid_to must be after valid_from")
	}
	return nil
}
