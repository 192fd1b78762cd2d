package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	//作成直後。ユーザーの送金待ち
	PaymentStatusInitiated PaymentStatus = "INITIATED"
	//送金情報の提出済み。管理者の確認待ち
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

type PaymentGateway string

const (
	GatewayManualBkash PaymentGateway = "manual_bkash"
	GatewayManualNagad PaymentGateway = "manual_nagad"
	GatewayOther       PaymentGateway = "other"
)

// 注文と1対1の決済レコード
type Payment struct {
	ID      int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID int64 `gorm:"not null;uniqueIndex" json:"order_id"`

	Gateway  PaymentGateway  `gorm:"type:varchar(50);not null;default:'manual_bkash'" json:"gateway"`
	Amount   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency string          `gorm:"type:varchar(10);not null;default:'BDT'" json:"currency"`
	Status   PaymentStatus   `gorm:"type:varchar(20);not null;index" json:"status"`

	GatewayTransactionID string `gorm:"type:varchar(255)" json:"gateway_transaction_id"`

	//顧客のbKash/Nagad番号
	PayerNumber string `gorm:"type:varchar(30)" json:"payer_number"`

	//顧客からの任意メモ
	CustomerNote string     `gorm:"type:text" json:"customer_note"`
	SubmittedAt  *time.Time `json:"submitted_at"`

	//管理者の検証情報
	VerifiedByID *int64     `gorm:"index" json:"verified_by_id"`
	VerifiedAt   *time.Time `json:"verified_at"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
