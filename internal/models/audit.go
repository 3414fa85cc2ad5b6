package models

import (
	"time"
)

// AuditLog is an immutable append-only record of a state-changing action
// and the acting user. Time-triggered transitions are attributed to the
// reserved system user.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Action    string    `gorm:"size:50;not null" json:"action"` // BID_ACCEPTED, AUCTION_OPENED, ...
	Entity    string    `gorm:"size:50;not null" json:"entity"` // Auction, Report, Item
	EntityID  uint      `json:"entity_id"`
	EventID   string    `gorm:"size:36;index" json:"event_id"`
	Details   string    `gorm:"type:text" json:"details"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	// Associations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}
