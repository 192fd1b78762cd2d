package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
	repo "github.com/SwapnilSaha5768/one-heart-ebook-store/internal/repository"

	"gorm.io/gorm"
)

type BookGormRepository struct {
	db *gorm.DB
}

func NewBookGormRepository(db *gorm.DB) *BookGormRepository {
	return &BookGormRepository{db: db}
}

// 公開中の本だけを一覧
func (r *BookGormRepository) ListPublic(ctx context.Context, q repo.BookListQuery) ([]model.Book, int64, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}

	query := r.db.WithContext(ctx).Model(&model.Book{}).
		Where("is_active = ?", true)

	//タイトル部分一致
	if s := strings.TrimSpace(q.Q); s != "" {
		query = query.Where("title ILIKE ?", "%"+s+"%")
	}

	//価格帯
	if q.MinPrice != nil {
		query = query.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		query = query.Where("price <= ?", *q.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return []model.Book{}, 0, err
	}

	switch q.Sort {
	case "price_asc":
		query = query.Order("price asc")
	case "price_desc":
		query = query.Order("price desc")
	default:
		query = query.Order("id desc")
	}

	var items []model.Book
	offset := (q.Page - 1) * q.Limit
	if err := query.
		Preload("Authors").
		Preload("Categories").
		Preload("Tags").
		Limit(q.Limit).
		Offset(offset).
		Find(&items).Error; err != nil {
		return []model.Book{}, 0, err
	}

	return items, total, nil
}

func (r *BookGormRepository) FindByID(ctx context.Context, id int64) (model.Book, error) {
	var b model.Book
	err := r.db.WithContext(ctx).
		Preload("Authors").
		Preload("Categories").
		Preload("Tags").
		Where("id = ?", id).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Book{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Book{}, err
	}
	return b, nil
}

func (r *BookGormRepository) FindBySlug(ctx context.Context, slug string) (model.Book, error) {
	var b model.Book
	err := r.db.WithContext(ctx).
		Preload("Authors").
		Preload("Categories").
		Preload("Tags").
		Where("slug = ?", slug).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Book{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Book{}, err
	}
	return b, nil
}

func (r *BookGormRepository) Create(ctx context.Context, b model.Book) (model.Book, error) {
	if err := r.db.WithContext(ctx).Create(&b).Error; err != nil {
		return model.Book{}, translateUniqueViolation(err)
	}
	return b, nil
}

func (r *BookGormRepository) Update(ctx context.Context, b model.Book) error {
	res := r.db.WithContext(ctx).Model(&model.Book{}).
		Where("id = ?", b.ID).
		Updates(map[string]interface{}{
			"title":          b.Title,
			"slug":           b.Slug,
			"description":    b.Description,
			"file_path":      b.FilePath,
			"file_format":    b.FileFormat,
			"pdf_password":   b.PDFPassword,
			"price":          b.Price,
			"discount_price": b.DiscountPrice,
			"is_active":      b.IsActive,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *BookGormRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Book{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
