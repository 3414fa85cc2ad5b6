package models

import (
	"time"
)

// Auction is a time-bounded sale process for one item. CurrentHighBid* is a
// denormalized cache of the most recently accepted bid; it is always updated
// in the same transaction as the Bid and BidHistory rows.
type Auction struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	ItemID               uint       `gorm:"not null;index" json:"item_id"`
	StartTime            time.Time  `gorm:"not null;index" json:"start_time"`
	EndTime              time.Time  `gorm:"not null;index" json:"end_time"`
	Status               string     `gorm:"default:scheduled;index" json:"status"`
	CurrentHighBidID     *uint      `json:"current_high_bid_id"`
	CurrentHighBidAmount *float64   `gorm:"type:decimal" json:"current_high_bid_amount"`
	CurrentHighBidderID  *uint      `json:"current_high_bidder_id"`
	WinnerID             *uint      `json:"winner_id"`
	OpenedAt             *time.Time `json:"opened_at"`
	ClosedAt             *time.Time `json:"closed_at"`
	CancelledAt          *time.Time `json:"cancelled_at"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`

	// Associations
	Item Item  `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Bids []Bid `gorm:"foreignKey:AuctionID" json:"bids,omitempty"`
}

// TableName specifies the table name for Auction
func (Auction) TableName() string {
	return "auctions"
}

// Auction status constants
const (
	AuctionStatusScheduled = "scheduled"
	AuctionStatusActive    = "active"
	AuctionStatusClosed    = "closed"
	AuctionStatusCancelled = "cancelled"
)

// MayOpen returns true if the auction can transition to active
func (a *Auction) MayOpen() bool {
	return a.Status == AuctionStatusScheduled
}

// MayClose returns true if the auction can transition to closed
func (a *Auction) MayClose() bool {
	return a.Status == AuctionStatusActive
}

// MayCancel returns true if the auction can be cancelled
func (a *Auction) MayCancel() bool {
	return a.Status == AuctionStatusScheduled || a.Status == AuctionStatusActive
}

// IsTerminal returns true if the auction is in a terminal state
func (a *Auction) IsTerminal() bool {
	return a.Status == AuctionStatusClosed || a.Status == AuctionStatusCancelled
}

// AcceptingBids reports whether a bid submitted at the given instant may be
// considered. The end of the window is exclusive: a bid at exactly EndTime
// is rejected.
func (a *Auction) AcceptingBids(now time.Time) bool {
	if a.Status != AuctionStatusActive {
		return false
	}
	return !now.Before(a.StartTime) && now.Before(a.EndTime)
}

// HasBids returns true if at least one bid has been accepted
func (a *Auction) HasBids() bool {
	return a.CurrentHighBidID != nil
}

// AuctionResponse is the JSON response format for auctions
type AuctionResponse struct {
	ID                   uint       `json:"id"`
	ItemID               uint       `json:"item_id"`
	ItemTitle            string     `json:"item_title"`
	StartTime            time.Time  `json:"start_time"`
	EndTime              time.Time  `json:"end_time"`
	Status               string     `json:"status"`
	CurrentHighBidAmount *float64   `json:"current_high_bid_amount"`
	CurrentHighBidderID  *uint      `json:"current_high_bidder_id"`
	WinnerID             *uint      `json:"winner_id"`
	ClosedAt             *time.Time `json:"closed_at"`
	CreatedAt            time.Time  `json:"created_at"`
}

// ToResponse converts Auction to AuctionResponse
func (a *Auction) ToResponse() AuctionResponse {
	return AuctionResponse{
		ID:                   a.ID,
		ItemID:               a.ItemID,
		ItemTitle:            a.Item.Title,
		StartTime:            a.StartTime,
		EndTime:              a.EndTime,
		Status:               a.Status,
		CurrentHighBidAmount: a.CurrentHighBidAmount,
		CurrentHighBidderID:  a.CurrentHighBidderID,
		WinnerID:             a.WinnerID,
		ClosedAt:             a.ClosedAt,
		CreatedAt:            a.CreatedAt,
	}
}
