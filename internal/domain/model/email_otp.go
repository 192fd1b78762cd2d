package model

import "time"

// メール認証用のワンタイムコード（6桁数字）
type EmailOTP struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	Code      string    `gorm:"type:varchar(6);not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	IsUsed    bool      `gorm:"not null;default:false" json:"is_used"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

// 有効期限内かつ未使用か
func (o EmailOTP) IsValidNow(now time.Time) bool {
	return !o.IsUsed && now.Before(o.ExpiresAt)
}
