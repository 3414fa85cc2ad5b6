package models

import (
	"time"
)

// Bid is an accepted offer against an active auction. Bids are immutable
// once recorded; for a given auction the accepted amounts are strictly
// increasing in acceptance order.
type Bid struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AuctionID  uint      `gorm:"not null;index" json:"auction_id"`
	BidderID   uint      `gorm:"not null;index" json:"bidder_id"`
	Amount     float64   `gorm:"type:decimal;not null" json:"amount"`
	AcceptedAt time.Time `gorm:"not null;index" json:"accepted_at"`
	CreatedAt  time.Time `json:"created_at"`

	// Associations
	Bidder User `gorm:"foreignKey:BidderID" json:"bidder,omitempty"`
}

// TableName specifies the table name for Bid
func (Bid) TableName() string {
	return "bids"
}

// BidHistory is the append-only ledger of accepted bids. Rows are never
// mutated or deleted, even when the auction is later cancelled.
type BidHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BidID     uint      `gorm:"not null;index" json:"bid_id"`
	AuctionID uint      `gorm:"not null;index" json:"auction_id"`
	BidderID  uint      `gorm:"not null" json:"bidder_id"`
	Amount    float64   `gorm:"type:decimal;not null" json:"amount"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
}

// TableName specifies the table name for BidHistory
func (BidHistory) TableName() string {
	return "bid_histories"
}

// BidResponse is the JSON response format for bids
type BidResponse struct {
	ID         uint      `json:"id"`
	AuctionID  uint      `json:"auction_id"`
	BidderID   uint      `json:"bidder_id"`
	Amount     float64   `json:"amount"`
	AcceptedAt time.Time `json:"accepted_at"`
}

// ToResponse converts Bid to BidResponse
func (b *Bid) ToResponse() BidResponse {
	return BidResponse{
		ID:         b.ID,
		AuctionID:  b.AuctionID,
		BidderID:   b.BidderID,
		Amount:     b.Amount,
		AcceptedAt: b.AcceptedAt,
	}
}
