package services

import (
	"context"
	"fmt"

	"github.com/bidhall/auction-api/internal/jobs"
	"github.com/bidhall/auction-api/internal/models"
	"github.com/bidhall/auction-api/internal/repository"
)

// asyncRunner abstracts the background worker used for notification delivery
type asyncRunner interface {
	EnqueueAsync(job jobs.Job)
}

// DispatcherService turns committed state changes into audit entries and
// user notifications. The audit entry is written synchronously, inside the
// caller's transaction when RecordTx is used, while notifications are
// delivered off the critical path: a delivery failure is logged by the
// worker and never unwinds the state change that produced the event.
type DispatcherService struct {
	auditRepo       repository.AuditLogRepository
	notificationSvc *NotificationService
	worker          asyncRunner
}

func NewDispatcherService(auditRepo repository.AuditLogRepository, notificationSvc *NotificationService, worker asyncRunner) *DispatcherService {
	return &DispatcherService{
		auditRepo:       auditRepo,
		notificationSvc: notificationSvc,
		worker:          worker,
	}
}

// RecordTx writes the audit entry for an event using repositories bound to
// the caller's open transaction, so the entry commits or rolls back with
// the state change itself.
func (s *DispatcherService) RecordTx(ctx context.Context, tx *repository.Repositories, evt models.Event) error {
	if err := tx.Audit.Create(ctx, auditEntry(evt)); err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

// Record writes the audit entry outside any caller transaction and queues
// notification delivery. Used by callers whose state change has already
// committed on its own.
func (s *DispatcherService) Record(ctx context.Context, evt models.Event) error {
	if err := s.auditRepo.Create(ctx, auditEntry(evt)); err != nil {
		return wrapStoreErr(err)
	}
	s.Deliver(evt)
	return nil
}

// Deliver queues the notification fan-out for an already-committed event
func (s *DispatcherService) Deliver(evt models.Event) {
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		if err := s.notify(ctx, evt); err != nil {
			return fmt.Errorf("notification delivery for %s event %s: %w", evt.Kind, evt.ID, err)
		}
		return nil
	})
}

// auditEntry builds the single audit row for an event
func auditEntry(evt models.Event) *models.AuditLog {
	entity, entityID := "Auction", evt.AuctionID
	if evt.Kind == models.EventReportFiled || evt.Kind == models.EventReportResolved {
		entity, entityID = "Report", evt.ReportID
	}
	return &models.AuditLog{
		UserID:   evt.ActorID,
		Action:   auditAction(evt.Kind),
		Entity:   entity,
		EntityID: entityID,
		EventID:  evt.ID,
		Details:  evt.Details,
	}
}

func auditAction(kind models.EventKind) string {
	switch kind {
	case models.EventBidAccepted:
		return "BID_ACCEPTED"
	case models.EventAuctionOpened:
		return "AUCTION_OPENED"
	case models.EventAuctionClosed:
		return "AUCTION_CLOSED"
	case models.EventAuctionCancelled:
		return "AUCTION_CANCELLED"
	case models.EventAuctionWon:
		return "AUCTION_WON"
	case models.EventAuctionEndedNoBid:
		return "AUCTION_ENDED_NO_BIDS"
	case models.EventReportFiled:
		return "REPORT_FILED"
	case models.EventReportResolved:
		return "REPORT_RESOLVED"
	}
	return string(kind)
}

// notify creates the notification rows for an event's natural addressees
func (s *DispatcherService) notify(ctx context.Context, evt models.Event) error {
	switch evt.Kind {
	case models.EventBidAccepted:
		if err := s.notificationSvc.NotifyUser(ctx, evt.BidderID,
			"Bid accepted",
			fmt.Sprintf("Your bid of $%.2f on %s has been accepted.", evt.Amount, evt.ItemTitle),
			models.NotificationTypeBidAccepted); err != nil {
			return err
		}
		if evt.PrevBidderID != 0 && evt.PrevBidderID != evt.BidderID {
			return s.notificationSvc.NotifyUser(ctx, evt.PrevBidderID,
				"You have been outbid",
				fmt.Sprintf("Your bid on %s has been outbid; the high bid is now $%.2f.", evt.ItemTitle, evt.Amount),
				models.NotificationTypeOutbid)
		}
		return nil

	case models.EventAuctionOpened:
		return s.notificationSvc.NotifyUser(ctx, evt.AuctioneerID,
			"Auction opened",
			fmt.Sprintf("The auction for %s is now accepting bids.", evt.ItemTitle),
			models.NotificationTypeAuctionOpened)

	case models.EventAuctionWon:
		if err := s.notificationSvc.NotifyUser(ctx, evt.WinnerID,
			"You won the auction",
			fmt.Sprintf("You won the auction for %s with a bid of $%.2f.", evt.ItemTitle, evt.Amount),
			models.NotificationTypeAuctionWon); err != nil {
			return err
		}
		return s.notificationSvc.NotifyUser(ctx, evt.AuctioneerID,
			"Auction sold",
			fmt.Sprintf("The auction for %s closed at $%.2f.", evt.ItemTitle, evt.Amount),
			models.NotificationTypeAuctionEnded)

	case models.EventAuctionEndedNoBid:
		return s.notificationSvc.NotifyUser(ctx, evt.AuctioneerID,
			"Auction ended without bids",
			fmt.Sprintf("The auction for %s ended with no bids.", evt.ItemTitle),
			models.NotificationTypeAuctionEnded)

	case models.EventAuctionCancelled:
		return s.notificationSvc.NotifyUser(ctx, evt.AuctioneerID,
			"Auction cancelled",
			fmt.Sprintf("The auction for %s has been cancelled.", evt.ItemTitle),
			models.NotificationTypeAuctionCancelled)

	case models.EventReportFiled:
		return s.notificationSvc.NotifyAdmins(ctx,
			"New report filed",
			"A new moderation report has been filed and awaits review.",
			models.NotificationTypeReportFiled)

	case models.EventReportResolved:
		return s.notificationSvc.NotifyUser(ctx, evt.ReporterID,
			"Report resolved",
			"Your report has been reviewed and resolved.",
			models.NotificationTypeReportResolved)
	}

	// AuctionClosed carries no addressee of its own; the paired
	// AuctionWon/AuctionEndedNoBids event covers the outcome.
	return nil
}
