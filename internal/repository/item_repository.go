package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/bidhall/auction-api/internal/models"
)

// ItemRepository defines the interface for item and image data access
type ItemRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Item, error)
	Create(ctx context.Context, item *models.Item) error
	List(ctx context.Context, query *ListQuery) ([]models.Item, int64, error)
	AddImage(ctx context.Context, image *models.Image) error
}

type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) FindByID(ctx context.Context, id uint) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("images.position ASC")
		}).
		First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) Create(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemRepository) List(ctx context.Context, query *ListQuery) ([]models.Item, int64, error) {
	var items []models.Item
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Item{})

	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("title ILIKE ? OR description ILIKE ?", search, search)
	}

	if query.Filters["category"] != "" {
		db = db.Where("category = ?", query.Filters["category"])
	}

	if query.Filters["posted_by"] != "" {
		db = db.Where("posted_by_id = ?", query.Filters["posted_by"])
	}

	db.Count(&total)

	db = db.Order("created_at DESC")
	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Images").Find(&items).Error
	return items, total, err
}

func (r *itemRepository) AddImage(ctx context.Context, image *models.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}
