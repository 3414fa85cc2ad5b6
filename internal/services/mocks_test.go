package services

import (
	"context"
	"sync"
	"time"

	"github.com/bidhall/auction-api/internal/jobs"
	"github.com/bidhall/auction-api/internal/models"
	"github.com/bidhall/auction-api/internal/repository"
)

// Mock AuctionRepository
type mockAuctionRepository struct {
	mockFindByID              func(ctx context.Context, id uint) (*models.Auction, error)
	mockFindByIDWithItem      func(ctx context.Context, id uint) (*models.Auction, error)
	mockCreate                func(ctx context.Context, auction *models.Auction) error
	mockUpdate                func(ctx context.Context, auction *models.Auction) error
	mockFindDueScheduled      func(ctx context.Context, now time.Time) ([]models.Auction, error)
	mockFindExpiredActive     func(ctx context.Context, now time.Time) ([]models.Auction, error)
	mockFindNonTerminalByItem func(ctx context.Context, itemID uint) ([]models.Auction, error)
}

func (m *mockAuctionRepository) FindByID(ctx context.Context, id uint) (*models.Auction, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, nil
}

func (m *mockAuctionRepository) FindByIDWithItem(ctx context.Context, id uint) (*models.Auction, error) {
	if m.mockFindByIDWithItem != nil {
		return m.mockFindByIDWithItem(ctx, id)
	}
	return nil, nil
}

func (m *mockAuctionRepository) Create(ctx context.Context, auction *models.Auction) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, auction)
	}
	return nil
}

func (m *mockAuctionRepository) Update(ctx context.Context, auction *models.Auction) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, auction)
	}
	return nil
}

func (m *mockAuctionRepository) List(ctx context.Context, query *repository.AuctionQuery) ([]models.Auction, int64, error) {
	return nil, 0, nil
}

func (m *mockAuctionRepository) FindDueScheduled(ctx context.Context, now time.Time) ([]models.Auction, error) {
	if m.mockFindDueScheduled != nil {
		return m.mockFindDueScheduled(ctx, now)
	}
	return nil, nil
}

func (m *mockAuctionRepository) FindExpiredActive(ctx context.Context, now time.Time) ([]models.Auction, error) {
	if m.mockFindExpiredActive != nil {
		return m.mockFindExpiredActive(ctx, now)
	}
	return nil, nil
}

func (m *mockAuctionRepository) FindNonTerminalByItem(ctx context.Context, itemID uint) ([]models.Auction, error) {
	if m.mockFindNonTerminalByItem != nil {
		return m.mockFindNonTerminalByItem(ctx, itemID)
	}
	return nil, nil
}

// Mock BidRepository
type mockBidRepository struct {
	mockCreate            func(ctx context.Context, bid *models.Bid) error
	mockAppendHistory     func(ctx context.Context, entry *models.BidHistory) error
	mockFindByAuction     func(ctx context.Context, auctionID uint) ([]models.Bid, error)
	mockHistoryByAuction  func(ctx context.Context, auctionID uint) ([]models.BidHistory, error)
	mockHighestForAuction func(ctx context.Context, auctionID uint) (*models.Bid, error)
}

func (m *mockBidRepository) Create(ctx context.Context, bid *models.Bid) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, bid)
	}
	return nil
}

func (m *mockBidRepository) AppendHistory(ctx context.Context, entry *models.BidHistory) error {
	if m.mockAppendHistory != nil {
		return m.mockAppendHistory(ctx, entry)
	}
	return nil
}

func (m *mockBidRepository) FindByAuction(ctx context.Context, auctionID uint) ([]models.Bid, error) {
	if m.mockFindByAuction != nil {
		return m.mockFindByAuction(ctx, auctionID)
	}
	return nil, nil
}

func (m *mockBidRepository) HistoryByAuction(ctx context.Context, auctionID uint) ([]models.BidHistory, error) {
	if m.mockHistoryByAuction != nil {
		return m.mockHistoryByAuction(ctx, auctionID)
	}
	return nil, nil
}

func (m *mockBidRepository) HighestForAuction(ctx context.Context, auctionID uint) (*models.Bid, error) {
	if m.mockHighestForAuction != nil {
		return m.mockHighestForAuction(ctx, auctionID)
	}
	return nil, nil
}

// Mock ItemRepository
type mockItemRepository struct {
	mockFindByID func(ctx context.Context, id uint) (*models.Item, error)
	mockCreate   func(ctx context.Context, item *models.Item) error
	mockAddImage func(ctx context.Context, image *models.Image) error
}

func (m *mockItemRepository) FindByID(ctx context.Context, id uint) (*models.Item, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, nil
}

func (m *mockItemRepository) Create(ctx context.Context, item *models.Item) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, item)
	}
	return nil
}

func (m *mockItemRepository) List(ctx context.Context, query *repository.ListQuery) ([]models.Item, int64, error) {
	return nil, 0, nil
}

func (m *mockItemRepository) AddImage(ctx context.Context, image *models.Image) error {
	if m.mockAddImage != nil {
		return m.mockAddImage(ctx, image)
	}
	return nil
}

// Mock ReportRepository
type mockReportRepository struct {
	mockFindByID func(ctx context.Context, id uint) (*models.Report, error)
	mockCreate   func(ctx context.Context, report *models.Report) error
	mockUpdate   func(ctx context.Context, report *models.Report) error
}

func (m *mockReportRepository) FindByID(ctx context.Context, id uint) (*models.Report, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, nil
}

func (m *mockReportRepository) Create(ctx context.Context, report *models.Report) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, report)
	}
	return nil
}

func (m *mockReportRepository) Update(ctx context.Context, report *models.Report) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, report)
	}
	return nil
}

func (m *mockReportRepository) List(ctx context.Context, query *repository.ListQuery) ([]models.Report, int64, error) {
	return nil, 0, nil
}

// Mock UserRepository
type mockUserRepository struct {
	repository.UserRepository
	mockFindByID   func(ctx context.Context, id uint) (*models.User, error)
	mockUpdateRole func(ctx context.Context, id uint, role string) error
	mockFindAdmins func(ctx context.Context) ([]models.User, error)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepository) UpdateRole(ctx context.Context, id uint, role string) error {
	if m.mockUpdateRole != nil {
		return m.mockUpdateRole(ctx, id, role)
	}
	return nil
}

func (m *mockUserRepository) FindAdmins(ctx context.Context) ([]models.User, error) {
	if m.mockFindAdmins != nil {
		return m.mockFindAdmins(ctx)
	}
	return nil, nil
}

// mockNotificationRepository records every created notification so tests can
// assert on the fan-out. Safe for concurrent use.
type mockNotificationRepository struct {
	repository.NotificationRepository
	mu      sync.Mutex
	created []models.Notification
}

func (m *mockNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, *n)
	return nil
}

func (m *mockNotificationRepository) all() []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Notification, len(m.created))
	copy(out, m.created)
	return out
}

// mockAuditRepository records every created audit entry
type mockAuditRepository struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func (m *mockAuditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockAuditRepository) List(ctx context.Context, query *repository.ListQuery) ([]models.AuditLog, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries, int64(len(m.entries)), nil
}

func (m *mockAuditRepository) all() []models.AuditLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.AuditLog, len(m.entries))
	copy(out, m.entries)
	return out
}

// mockTxManager runs the unit of work directly against the supplied
// repositories, standing in for a real transaction.
type mockTxManager struct {
	repos *repository.Repositories
}

func (m *mockTxManager) Do(ctx context.Context, fn func(tx *repository.Repositories) error) error {
	return fn(m.repos)
}

// syncRunner executes queued jobs inline so tests see delivery effects
// immediately.
type syncRunner struct{}

func (syncRunner) EnqueueAsync(job jobs.Job) {
	_ = job(context.Background())
}
