package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/bidhall/auction-api/internal/models"
)

// BidRepository defines the interface for bid and bid-history data access.
// Bids and history rows are insert-only; there are no update or delete
// operations on purpose.
type BidRepository interface {
	Create(ctx context.Context, bid *models.Bid) error
	AppendHistory(ctx context.Context, entry *models.BidHistory) error
	FindByAuction(ctx context.Context, auctionID uint) ([]models.Bid, error)
	HistoryByAuction(ctx context.Context, auctionID uint) ([]models.BidHistory, error)
	HighestForAuction(ctx context.Context, auctionID uint) (*models.Bid, error)
}

type bidRepository struct {
	db *gorm.DB
}

// NewBidRepository creates a new bid repository
func NewBidRepository(db *gorm.DB) BidRepository {
	return &bidRepository{db: db}
}

func (r *bidRepository) Create(ctx context.Context, bid *models.Bid) error {
	return r.db.WithContext(ctx).Create(bid).Error
}

func (r *bidRepository) AppendHistory(ctx context.Context, entry *models.BidHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *bidRepository) FindByAuction(ctx context.Context, auctionID uint) ([]models.Bid, error) {
	var bids []models.Bid
	err := r.db.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Order("accepted_at ASC").
		Find(&bids).Error
	return bids, err
}

func (r *bidRepository) HistoryByAuction(ctx context.Context, auctionID uint) ([]models.BidHistory, error) {
	var entries []models.BidHistory
	err := r.db.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Order("timestamp ASC").
		Find(&entries).Error
	return entries, err
}

func (r *bidRepository) HighestForAuction(ctx context.Context, auctionID uint) (*models.Bid, error) {
	var bid models.Bid
	err := r.db.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Order("amount DESC").
		First(&bid).Error
	if err != nil {
		return nil, err
	}
	return &bid, nil
}
