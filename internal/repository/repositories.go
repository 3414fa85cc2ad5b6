package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	User         UserRepository
	Item         ItemRepository
	Auction      AuctionRepository
	Bid          BidRepository
	Report       ReportRepository
	Notification NotificationRepository
	Audit        AuditLogRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Item:         NewItemRepository(db),
		Auction:      NewAuctionRepository(db),
		Bid:          NewBidRepository(db),
		Report:       NewReportRepository(db),
		Notification: NewNotificationRepository(db),
		Audit:        NewAuditLogRepository(db),
	}
}

// TxManager runs a unit of work inside a single database transaction. The
// callback receives repositories bound to that transaction; an error from
// the callback rolls everything back, so nothing is partially committed.
type TxManager interface {
	Do(ctx context.Context, fn func(tx *Repositories) error) error
}

type txManager struct {
	db *gorm.DB
}

// NewTxManager creates a TxManager backed by the given database handle
func NewTxManager(db *gorm.DB) TxManager {
	return &txManager{db: db}
}

func (m *txManager) Do(ctx context.Context, fn func(tx *Repositories) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// ListQuery represents common query parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}
