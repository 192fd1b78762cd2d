package repository

import (
	"context"
	"errors"
	"time"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
	repo "github.com/SwapnilSaha5768/one-heart-ebook-store/internal/repository"

	"gorm.io/gorm"
)

type DownloadLinkGormRepository struct {
	db *gorm.DB
}

func NewDownloadLinkGormRepository(db *gorm.DB) *DownloadLinkGormRepository {
	return &DownloadLinkGormRepository{db: db}
}

func (r *DownloadLinkGormRepository) Create(ctx context.Context, link model.DownloadLink) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&link).Error; err != nil {
		return 0, translateUniqueViolation(err)
	}
	return link.ID, nil
}

func (r *DownloadLinkGormRepository) FindByToken(ctx context.Context, token string) (model.DownloadLink, error) {
	var link model.DownloadLink
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.DownloadLink{}, repo.ErrNotFound
	}
	if err != nil {
		return model.DownloadLink{}, err
	}
	return link, nil
}

func (r *DownloadLinkGormRepository) DeleteByID(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.DownloadLink{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 期限切れリンクの掃除
func (r *DownloadLinkGormRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&model.DownloadLink{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

type DownloadLogGormRepository struct {
	db *gorm.DB
}

func NewDownloadLogGormRepository(db *gorm.DB) *DownloadLogGormRepository {
	return &DownloadLogGormRepository{db: db}
}

func (r *DownloadLogGormRepository) Create(ctx context.Context, log model.DownloadLog) error {
	return r.db.WithContext(ctx).Create(&log).Error
}

// 古いログの掃除
func (r *DownloadLogGormRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("downloaded_at < ?", cutoff).
		Delete(&model.DownloadLog{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
