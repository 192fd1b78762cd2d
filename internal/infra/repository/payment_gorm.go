package repository

import (
	"context"
	"errors"
	"time"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
	repo "github.com/SwapnilSaha5768/one-heart-ebook-store/internal/repository"

	"gorm.io/gorm"
)

type PaymentGormRepository struct {
	db *gorm.DB
}

func NewPaymentGormRepository(db *gorm.DB) *PaymentGormRepository {
	return &PaymentGormRepository{db: db}
}

func (r *PaymentGormRepository) Create(ctx context.Context, p model.Payment) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return 0, translateUniqueViolation(err)
	}
	return p.ID, nil
}

func (r *PaymentGormRepository) FindByID(ctx context.Context, paymentID int64) (model.Payment, error) {
	var p model.Payment
	err := r.db.WithContext(ctx).Where("id = ?", paymentID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Payment{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Payment{}, err
	}
	return p, nil
}

func (r *PaymentGormRepository) FindByOrderID(ctx context.Context, orderID int64) (model.Payment, error) {
	var p model.Payment
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Payment{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Payment{}, err
	}
	return p, nil
}

// 顧客の送金情報を記録してPENDINGへ
func (r *PaymentGormRepository) SubmitManual(ctx context.Context, paymentID int64, payerNumber string, transactionID string, note string, submittedAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ?", paymentID).
		Updates(map[string]interface{}{
			"status":                 model.PaymentStatusPending,
			"payer_number":           payerNumber,
			"gateway_transaction_id": transactionID,
			"customer_note":          note,
			"submitted_at":           submittedAt,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 管理者の検証結果を記録
func (r *PaymentGormRepository) UpdateVerification(ctx context.Context, paymentID int64, status model.PaymentStatus, verifiedBy int64, verifiedAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ?", paymentID).
		Updates(map[string]interface{}{
			"status":         status,
			"verified_by_id": verifiedBy,
			"verified_at":    verifiedAt,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *PaymentGormRepository) ListAdmin(ctx context.Context, f repo.AdminPaymentListFilter) ([]model.Payment, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.Payment{})

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Payment{}, 0, err
	}

	var items []model.Payment
	offset := (f.Page - 1) * f.Limit
	if err := q.Order("id desc").Limit(f.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Payment{}, 0, err
	}

	return items, total, nil
}
