package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細。購入時点の価格を保存するので後でカタログ価格が変わっても影響しない。
// 本は参照されている間は削除不可（RESTRICT）。
type OrderItem struct {
	ID      int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID int64 `gorm:"not null;index" json:"order_id"`
	BookID  int64 `gorm:"not null;index" json:"book_id"`
	Book    *Book `gorm:"constraint:OnDelete:RESTRICT" json:"book,omitempty"`

	TitleSnapshot string          `gorm:"type:varchar(255);not null" json:"title_snapshot"`
	Quantity      int64           `gorm:"not null" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
