package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/bidhall/auction-api/internal/models"
)

// AuctionQuery extends ListQuery with auction-specific filters
type AuctionQuery struct {
	*ListQuery
	Status string
	ItemID uint
}

// AuctionRepository defines the interface for auction data access
type AuctionRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Auction, error)
	FindByIDWithItem(ctx context.Context, id uint) (*models.Auction, error)
	Create(ctx context.Context, auction *models.Auction) error
	Update(ctx context.Context, auction *models.Auction) error
	List(ctx context.Context, query *AuctionQuery) ([]models.Auction, int64, error)
	FindDueScheduled(ctx context.Context, now time.Time) ([]models.Auction, error)
	FindExpiredActive(ctx context.Context, now time.Time) ([]models.Auction, error)
	FindNonTerminalByItem(ctx context.Context, itemID uint) ([]models.Auction, error)
}

type auctionRepository struct {
	db *gorm.DB
}

// NewAuctionRepository creates a new auction repository
func NewAuctionRepository(db *gorm.DB) AuctionRepository {
	return &auctionRepository{db: db}
}

func (r *auctionRepository) FindByID(ctx context.Context, id uint) (*models.Auction, error) {
	var auction models.Auction
	if err := r.db.WithContext(ctx).First(&auction, id).Error; err != nil {
		return nil, err
	}
	return &auction, nil
}

func (r *auctionRepository) FindByIDWithItem(ctx context.Context, id uint) (*models.Auction, error) {
	var auction models.Auction
	err := r.db.WithContext(ctx).
		Preload("Item").
		First(&auction, id).Error
	if err != nil {
		return nil, err
	}
	return &auction, nil
}

func (r *auctionRepository) Create(ctx context.Context, auction *models.Auction) error {
	return r.db.WithContext(ctx).Create(auction).Error
}

func (r *auctionRepository) Update(ctx context.Context, auction *models.Auction) error {
	// Save the auction row only; associations are never written through here
	// so a stale Bids slice cannot resurrect or duplicate rows.
	return r.db.WithContext(ctx).
		Omit("Item", "Bids").
		Save(auction).Error
}

func (r *auctionRepository) List(ctx context.Context, query *AuctionQuery) ([]models.Auction, int64, error) {
	var auctions []models.Auction
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Auction{})

	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.ItemID != 0 {
		db = db.Where("item_id = ?", query.ItemID)
	}

	db.Count(&total)

	db = db.Order("start_time DESC")
	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Item").Find(&auctions).Error
	return auctions, total, err
}

func (r *auctionRepository) FindDueScheduled(ctx context.Context, now time.Time) ([]models.Auction, error) {
	var auctions []models.Auction
	err := r.db.WithContext(ctx).
		Where("status = ? AND start_time <= ?", models.AuctionStatusScheduled, now).
		Order("start_time ASC").
		Find(&auctions).Error
	return auctions, err
}

func (r *auctionRepository) FindExpiredActive(ctx context.Context, now time.Time) ([]models.Auction, error) {
	var auctions []models.Auction
	err := r.db.WithContext(ctx).
		Where("status = ? AND end_time <= ?", models.AuctionStatusActive, now).
		Order("end_time ASC").
		Find(&auctions).Error
	return auctions, err
}

func (r *auctionRepository) FindNonTerminalByItem(ctx context.Context, itemID uint) ([]models.Auction, error) {
	var auctions []models.Auction
	err := r.db.WithContext(ctx).
		Where("item_id = ? AND status IN ?", itemID,
			[]string{models.AuctionStatusScheduled, models.AuctionStatusActive}).
		Find(&auctions).Error
	return auctions, err
}
