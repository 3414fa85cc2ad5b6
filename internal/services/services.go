package services

import (
	"github.com/bidhall/auction-api/internal/config"
	"github.com/bidhall/auction-api/internal/jobs"
	"github.com/bidhall/auction-api/internal/repository"
	"github.com/bidhall/auction-api/pkg/keymutex"
)

// Services holds all service instances
type Services struct {
	User         *UserService
	Item         *ItemService
	Auction      *AuctionService
	Bidding      *BiddingService
	Report       *ReportService
	Notification *NotificationService
	Audit        *AuditService
	Dispatcher   *DispatcherService
}

// NewServices creates all service instances. Bidding and auction lifecycle
// share one per-auction lock table so a bid and a closing sweep on the same
// auction never interleave.
func NewServices(repos *repository.Repositories, txm repository.TxManager, worker *jobs.Worker, cfg *config.Config) *Services {
	auctionLocks := keymutex.New()

	notificationSvc := NewNotificationService(repos.Notification, repos.User)
	auditSvc := NewAuditService(repos.Audit)
	dispatcherSvc := NewDispatcherService(repos.Audit, notificationSvc, worker)

	return &Services{
		User:         NewUserService(repos.User, auditSvc),
		Item:         NewItemService(repos.Item, auditSvc),
		Auction:      NewAuctionService(repos.Auction, repos.Item, txm, auctionLocks, dispatcherSvc, auditSvc, cfg.SystemUserID),
		Bidding:      NewBiddingService(repos.Auction, repos.Bid, txm, auctionLocks, dispatcherSvc, cfg.MinBidIncrement),
		Report:       NewReportService(repos.Report, txm, dispatcherSvc),
		Notification: notificationSvc,
		Audit:        auditSvc,
		Dispatcher:   dispatcherSvc,
	}
}
