package models

import (
	"time"
)

// Item represents a listable good owned by an auctioneer. An item has at
// most one non-terminal auction at a time; re-listing creates a new Auction.
type Item struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"not null" json:"title"`
	Description   string    `gorm:"type:text" json:"description"`
	StartingPrice float64   `gorm:"type:decimal;not null" json:"starting_price"`
	Category      string    `gorm:"index" json:"category"`
	PostedByID    uint      `gorm:"not null;index" json:"posted_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Associations
	PostedBy User    `gorm:"foreignKey:PostedByID" json:"posted_by_user,omitempty"`
	Images   []Image `gorm:"foreignKey:ItemID" json:"images,omitempty"`
}

// TableName specifies the table name for Item
func (Item) TableName() string {
	return "items"
}

// Image belongs to exactly one item; Position preserves insertion order.
type Image struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ItemID    uint      `gorm:"not null;index" json:"item_id"`
	ImageURL  string    `gorm:"not null" json:"image_url"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Image
func (Image) TableName() string {
	return "images"
}

// ItemResponse is the JSON response format for items
type ItemResponse struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	StartingPrice float64   `json:"starting_price"`
	Category      string    `json:"category"`
	PostedByID    uint      `json:"posted_by"`
	ImageURLs     []string  `json:"image_urls"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToResponse converts Item to ItemResponse
func (i *Item) ToResponse() ItemResponse {
	resp := ItemResponse{
		ID:            i.ID,
		Title:         i.Title,
		Description:   i.Description,
		StartingPrice: i.StartingPrice,
		Category:      i.Category,
		PostedByID:    i.PostedByID,
		CreatedAt:     i.CreatedAt,
	}
	for _, img := range i.Images {
		resp.ImageURLs = append(resp.ImageURLs, img.ImageURL)
	}
	return resp
}
