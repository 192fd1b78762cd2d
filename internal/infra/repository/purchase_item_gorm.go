package repository

import (
	"context"
	"errors"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
	repo "github.com/SwapnilSaha5768/one-heart-ebook-store/internal/repository"

	"gorm.io/gorm"
)

type PurchaseItemGormRepository struct {
	db *gorm.DB
}

func NewPurchaseItemGormRepository(db *gorm.DB) *PurchaseItemGormRepository {
	return &PurchaseItemGormRepository{db: db}
}

func (r *PurchaseItemGormRepository) Create(ctx context.Context, p model.PurchaseItem) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		//(user, book) の一意制約に当たったら呼び出し側でリトライさせる
		return 0, translateUniqueViolation(err)
	}
	return p.ID, nil
}

func (r *PurchaseItemGormRepository) FindByID(ctx context.Context, id int64) (model.PurchaseItem, error) {
	var p model.PurchaseItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PurchaseItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.PurchaseItem{}, err
	}
	return p, nil
}

func (r *PurchaseItemGormRepository) FindByUserAndBook(ctx context.Context, userID int64, bookID int64) (model.PurchaseItem, error) {
	var p model.PurchaseItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PurchaseItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.PurchaseItem{}, err
	}
	return p, nil
}

func (r *PurchaseItemGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.PurchaseItem, error) {
	var items []model.PurchaseItem

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("purchased_at desc").
		Find(&items).Error; err != nil {
		return []model.PurchaseItem{}, err
	}

	return items, nil
}

// 再購入：最新の注文明細へ付け替えて、決済が通るまで再ロック
func (r *PurchaseItemGormRepository) ReattachOrderItem(ctx context.Context, id int64, orderItemID int64) error {
	res := r.db.WithContext(ctx).Model(&model.PurchaseItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"order_item_id": orderItemID,
			"is_active":     false,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 注文の明細に紐づく権利をまとめて有効化/無効化
func (r *PurchaseItemGormRepository) SetActiveByOrderID(ctx context.Context, orderID int64, active bool) error {
	return r.db.WithContext(ctx).
		Model(&model.PurchaseItem{}).
		Where("order_item_id IN (?)",
			r.db.Model(&model.OrderItem{}).Select("id").Where("order_id = ?", orderID),
		).
		Update("is_active", active).Error
}

func (r *PurchaseItemGormRepository) IncrementDownloads(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Model(&model.PurchaseItem{}).
		Where("id = ?", id).
		Update("downloads_count", gorm.Expr("downloads_count + 1"))

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
