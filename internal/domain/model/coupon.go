package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "PERCENTAGE"
	DiscountTypeFixed      DiscountType = "FIXED"
)

type Coupon struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Description string `gorm:"type:text" json:"description"`

	DiscountType DiscountType    `gorm:"type:varchar(20);not null" json:"discount_type"`
	Amount       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`

	//nilなら回数無制限
	MaxUses   *int64 `json:"max_uses"`
	UsesCount int64  `gorm:"not null;default:0" json:"uses_count"`

	ValidFrom time.Time  `gorm:"not null" json:"valid_from"`
	ValidTo   *time.Time `json:"valid_to"`
	IsActive  bool       `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 今この瞬間に使えるか
func (c Coupon) IsValidNow(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.ValidFrom.After(now) {
		return false
	}
	if c.ValidTo != nil && c.ValidTo.Before(now) {
		return false
	}
	if c.MaxUses != nil && c.UsesCount >= *c.MaxUses {
		return false
	}
	return true
}

// クーポンの使用記録。注文と1対1。
// (coupon, user) につき1回までは存在チェックで担保する。
type CouponRedemption struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CouponID   int64     `gorm:"not null;index" json:"coupon_id"`
	UserID     int64     `gorm:"not null;index" json:"user_id"`
	OrderID    int64     `gorm:"not null;uniqueIndex" json:"order_id"`
	RedeemedAt time.Time `gorm:"not null;autoCreateTime" json:"redeemed_at"`
}
