package model

import "time"

// 短命のダウンロードURLトークン。トークン自体がケーパビリティ。
type DownloadLink struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PurchaseItemID int64     `gorm:"not null;index" json:"purchase_item_id"`
	Token          string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"token"`
	ExpiresAt      time.Time `gorm:"not null;index" json:"expires_at"`

	//trueなら1回の取得で削除する
	IsUsedOnce bool `gorm:"not null;default:false" json:"is_used_once"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (l DownloadLink) IsValid(now time.Time) bool {
	return now.Before(l.ExpiresAt)
}

// ダウンロード成功ごとに追記する監査レコード
type DownloadLog struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PurchaseItemID int64     `gorm:"not null;index" json:"purchase_item_id"`
	IPAddress      string    `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent      string    `gorm:"type:text" json:"user_agent"`
	DownloadedAt   time.Time `gorm:"not null;autoCreateTime;index" json:"downloaded_at"`
}
