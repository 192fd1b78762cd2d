package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusFailed    OrderStatus = "FAILED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusRefunded  OrderStatus = "REFUNDED"
)

// チェックアウトで確定する注文ヘッダ。作成後は不変。
// ステータスは決済検証か管理者操作でのみ遷移する。
type Order struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64       `gorm:"not null;index" json:"user_id"`
	OrderNumber string      `gorm:"type:varchar(100);not null;uniqueIndex" json:"order_number"`
	Status      OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	//割引後の合計
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Currency    string          `gorm:"type:varchar(20);not null;default:'BDT'" json:"currency"`

	PaymentMethod    string     `gorm:"type:varchar(50)" json:"payment_method"`
	BillingAddressID *int64     `gorm:"index" json:"billing_address_id"`
	PaidAt           *time.Time `json:"paid_at"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
