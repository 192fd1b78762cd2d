package model

import "time"

// 購入者レビュー。(user, book) で1件まで。
type Review struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;index;uniqueIndex:idx_reviews_user_book" json:"user_id"`
	BookID int64 `gorm:"not null;index;uniqueIndex:idx_reviews_user_book" json:"book_id"`

	//1〜5
	Rating  int64  `gorm:"not null" json:"rating"`
	Comment string `gorm:"type:text" json:"comment"`

	//管理者承認後に公開
	IsApproved bool `gorm:"not null;default:false" json:"is_approved"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
