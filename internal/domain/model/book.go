package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FileFormat string

const (
	FileFormatPDF   FileFormat = "pdf"
	FileFormatEPUB  FileFormat = "epub"
	FileFormatMOBI  FileFormat = "mobi"
	FileFormatOther FileFormat = "other"
)

type Author struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"type:varchar(255);not null" json:"name"`
	Bio     string `gorm:"type:text" json:"bio"`
	Website string `gorm:"type:varchar(255)" json:"website"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

type Category struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Slug     string `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	ParentID *int64 `gorm:"index" json:"parent_id"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

type Tag struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Slug string `gorm:"type:varchar(60);uniqueIndex;not null" json:"slug"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

type Book struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	Slug        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`

	//電子書籍ファイルの保存先（BOOK_STORAGE_DIR配下の相対パス）
	FilePath   string     `gorm:"type:varchar(512)" json:"-"`
	FileFormat FileFormat `gorm:"type:varchar(10);not null;default:'pdf'" json:"file_format"`

	//保護PDFのパスワード（決済確認メールに載せる）
	PDFPassword string `gorm:"type:varchar(64)" json:"-"`

	Price         decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"price"`
	DiscountPrice *decimal.Decimal `gorm:"type:decimal(10,2)" json:"discount_price"`

	Authors    []Author   `gorm:"many2many:book_authors" json:"authors"`
	Categories []Category `gorm:"many2many:book_categories" json:"categories"`
	Tags       []Tag      `gorm:"many2many:book_tags" json:"tags"`

	IsActive  bool           `gorm:"not null;default:false" json:"is_active"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// 割引価格があればそちらを使う
func (b Book) EffectivePrice() decimal.Decimal {
	if b.DiscountPrice != nil && b.DiscountPrice.IsPositive() {
		return *b.DiscountPrice
	}
	return b.Price
}
