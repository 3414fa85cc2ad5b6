package models

import (
	"time"
)

// Report is a moderation complaint against an auction or a user with its
// own resolution lifecycle: open → under_review → closed (or open → closed).
type Report struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	ReportType      string     `gorm:"not null" json:"report_type"`
	Details         string     `gorm:"type:text" json:"details"`
	Status          string     `gorm:"default:open;index" json:"status"`
	GeneratedByID   uint       `gorm:"not null;index" json:"generated_by"`
	TargetAuctionID *uint      `gorm:"index" json:"target_auction_id"`
	TargetUserID    *uint      `gorm:"index" json:"target_user_id"`
	ResolvedByID    *uint      `json:"resolved_by"`
	Outcome         *string    `gorm:"type:text" json:"outcome"`
	ResolvedAt      *time.Time `json:"resolved_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Associations
	GeneratedBy User `gorm:"foreignKey:GeneratedByID" json:"-"`
}

// TableName specifies the table name for Report
func (Report) TableName() string {
	return "reports"
}

// Report status constants
const (
	ReportStatusOpen        = "open"
	ReportStatusUnderReview = "under_review"
	ReportStatusClosed      = "closed"
)

// MayReview returns true if the report can move to under_review
func (r *Report) MayReview() bool {
	return r.Status == ReportStatusOpen
}

// MayResolve returns true if the report can be closed
func (r *Report) MayResolve() bool {
	return r.Status == ReportStatusOpen || r.Status == ReportStatusUnderReview
}

// ReportResponse is the JSON response format for reports
type ReportResponse struct {
	ID              uint       `json:"id"`
	ReportType      string     `json:"report_type"`
	Details         string     `json:"details"`
	Status          string     `json:"status"`
	GeneratedByID   uint       `json:"generated_by"`
	TargetAuctionID *uint      `json:"target_auction_id"`
	TargetUserID    *uint      `json:"target_user_id"`
	Outcome         *string    `json:"outcome"`
	ResolvedAt      *time.Time `json:"resolved_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ToResponse converts Report to ReportResponse
func (r *Report) ToResponse() ReportResponse {
	return ReportResponse{
		ID:              r.ID,
		ReportType:      r.ReportType,
		Details:         r.Details,
		Status:          r.Status,
		GeneratedByID:   r.GeneratedByID,
		TargetAuctionID: r.TargetAuctionID,
		TargetUserID:    r.TargetUserID,
		Outcome:         r.Outcome,
		ResolvedAt:      r.ResolvedAt,
		CreatedAt:       r.CreatedAt,
	}
}
