package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// カートの明細
// (cart, book) の組は1行だけ。同じ本は数量加算で対応する。
// 追加時点の価格を必ず保存。
type CartItem struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    int64           `gorm:"not null;index;uniqueIndex:idx_cart_items_cart_book" json:"cart_id"`
	BookID    int64           `gorm:"not null;index;uniqueIndex:idx_cart_items_cart_book" json:"book_id"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 小計は保存せず都度計算する
func (i CartItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}
