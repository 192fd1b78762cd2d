package model

import "time"

// ダウンロード権。1冊につき (user, book) で1行だけ。
// 再購入は新しい注文明細に付け替えて、決済が通るまで再ロックする。
type PurchaseItem struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;index;uniqueIndex:idx_purchase_items_user_book" json:"user_id"`
	BookID int64 `gorm:"not null;index;uniqueIndex:idx_purchase_items_user_book" json:"book_id"`

	//最新の注文明細への参照
	OrderItemID *int64 `gorm:"index" json:"order_item_id"`

	PurchasedAt time.Time `gorm:"not null" json:"purchased_at"`

	//nilなら無制限
	DownloadLimit  *int64 `json:"download_limit"`
	DownloadsCount int64  `gorm:"not null;default:0" json:"downloads_count"`

	//決済成功で有効化。失敗で無効化。
	IsActive bool `gorm:"not null;default:false" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// ダウンロード可能か（有効かつ回数上限に達していない）
func (p PurchaseItem) CanDownload() bool {
	if !p.IsActive {
		return false
	}
	if p.DownloadLimit == nil {
		return true
	}
	return p.DownloadsCount < *p.DownloadLimit
}
