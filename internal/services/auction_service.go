package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bidhall/auction-api/internal/models"
	"github.com/bidhall/auction-api/internal/repository"
	"github.com/bidhall/auction-api/internal/statemachine"
	"github.com/bidhall/auction-api/pkg/keymutex"
	"github.com/bidhall/auction-api/pkg/logger"
)

// AuctionService drives auctions through scheduled → active → closed or
// cancelled. Transitions share the per-auction lock table with the bidding
// service, so closing an auction and accepting a bid on it are mutually
// exclusive.
type AuctionService struct {
	repo         repository.AuctionRepository
	itemRepo     repository.ItemRepository
	txm          repository.TxManager
	locks        *keymutex.KeyMutex
	dispatcher   *DispatcherService
	auditSvc     *AuditService
	systemUserID uint
}

func NewAuctionService(
	repo repository.AuctionRepository,
	itemRepo repository.ItemRepository,
	txm repository.TxManager,
	locks *keymutex.KeyMutex,
	dispatcher *DispatcherService,
	auditSvc *AuditService,
	systemUserID uint,
) *AuctionService {
	return &AuctionService{
		repo:         repo,
		itemRepo:     itemRepo,
		txm:          txm,
		locks:        locks,
		dispatcher:   dispatcher,
		auditSvc:     auditSvc,
		systemUserID: systemUserID,
	}
}

// FindByID gets an auction by ID
func (s *AuctionService) FindByID(ctx context.Context, id uint) (*models.Auction, error) {
	auction, err := s.repo.FindByIDWithItem(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return auction, nil
}

func (s *AuctionService) List(ctx context.Context, query *repository.AuctionQuery) ([]models.Auction, int64, error) {
	return s.repo.List(ctx, query)
}

// Create schedules a new auction for an item. The end time must be after
// the start time, and the item may not already have a non-terminal auction;
// re-listing is allowed once prior auctions are closed or cancelled.
func (s *AuctionService) Create(ctx context.Context, auction *models.Auction, actorID uint) error {
	if !auction.EndTime.After(auction.StartTime) {
		return fmt.Errorf("%w: end_time must be after start_time", ErrValidation)
	}

	item, err := s.itemRepo.FindByID(ctx, auction.ItemID)
	if err != nil {
		return wrapStoreErr(err)
	}

	err = s.txm.Do(ctx, func(tx *repository.Repositories) error {
		open, err := tx.Auction.FindNonTerminalByItem(ctx, auction.ItemID)
		if err != nil {
			return wrapStoreErr(err)
		}
		if len(open) > 0 {
			return fmt.Errorf("%w: item %d already has a non-terminal auction", ErrValidation, auction.ItemID)
		}

		auction.Status = models.AuctionStatusScheduled
		if err := tx.Auction.Create(ctx, auction); err != nil {
			return wrapStoreErr(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.auditSvc.Log(ctx, actorID, "CREATE", "Auction", auction.ID,
		fmt.Sprintf("Auction scheduled for item %q from %s to %s", item.Title,
			auction.StartTime.Format(time.RFC3339), auction.EndTime.Format(time.RFC3339))); err != nil {
		logger.Warn("Failed to audit auction creation", "auction_id", auction.ID, "error", err)
	}

	return nil
}

// Open explicitly transitions a scheduled auction to active
func (s *AuctionService) Open(ctx context.Context, id, actorID uint) (*models.Auction, error) {
	auction, _, err := s.openAt(ctx, id, actorID, time.Now().UTC())
	return auction, err
}

func (s *AuctionService) openAt(ctx context.Context, id, actorID uint, now time.Time) (*models.Auction, models.Event, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	var auction *models.Auction
	var evt models.Event

	err := s.txm.Do(ctx, func(tx *repository.Repositories) error {
		a, err := tx.Auction.FindByIDWithItem(ctx, id)
		if err != nil {
			return wrapStoreErr(err)
		}

		if !a.MayOpen() {
			return fmt.Errorf("%w: auction %d is %s", ErrInvalidTransition, a.ID, a.Status)
		}

		afsm := statemachine.NewAuctionFSM(a)
		if err := afsm.Open(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		}

		a.OpenedAt = &now
		if err := tx.Auction.Update(ctx, a); err != nil {
			return wrapStoreErr(err)
		}

		evt = models.NewEvent(models.EventAuctionOpened, actorID)
		evt.AuctionID = a.ID
		evt.AuctioneerID = a.Item.PostedByID
		evt.ItemTitle = a.Item.Title
		evt.Details = fmt.Sprintf("Auction %d opened for bidding", a.ID)

		auction = a
		return s.dispatcher.RecordTx(ctx, tx, evt)
	})
	if err != nil {
		return nil, models.Event{}, err
	}

	s.dispatcher.Deliver(evt)
	return auction, evt, nil
}

// Close explicitly transitions an active auction to closed, designating the
// current high bidder (if any) as the winner
func (s *AuctionService) Close(ctx context.Context, id, actorID uint) (*models.Auction, error) {
	auction, _, err := s.closeAt(ctx, id, actorID, time.Now().UTC())
	return auction, err
}

func (s *AuctionService) closeAt(ctx context.Context, id, actorID uint, now time.Time) (*models.Auction, []models.Event, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	var auction *models.Auction
	var events []models.Event

	err := s.txm.Do(ctx, func(tx *repository.Repositories) error {
		events = events[:0]

		a, err := tx.Auction.FindByIDWithItem(ctx, id)
		if err != nil {
			return wrapStoreErr(err)
		}

		if !a.MayClose() {
			return fmt.Errorf("%w: auction %d is %s", ErrInvalidTransition, a.ID, a.Status)
		}

		afsm := statemachine.NewAuctionFSM(a)
		if err := afsm.Close(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		}

		a.ClosedAt = &now
		if a.HasBids() {
			a.WinnerID = a.CurrentHighBidderID
		}
		if err := tx.Auction.Update(ctx, a); err != nil {
			return wrapStoreErr(err)
		}

		closed := models.NewEvent(models.EventAuctionClosed, actorID)
		closed.AuctionID = a.ID
		closed.AuctioneerID = a.Item.PostedByID
		closed.ItemTitle = a.Item.Title
		closed.Details = fmt.Sprintf("Auction %d closed", a.ID)
		events = append(events, closed)

		if a.HasBids() {
			won := models.NewEvent(models.EventAuctionWon, actorID)
			won.AuctionID = a.ID
			won.AuctioneerID = a.Item.PostedByID
			won.ItemTitle = a.Item.Title
			won.WinnerID = *a.CurrentHighBidderID
			won.Amount = *a.CurrentHighBidAmount
			won.Details = fmt.Sprintf("Auction %d won by user %d at $%.2f", a.ID, won.WinnerID, won.Amount)
			events = append(events, won)
		} else {
			ended := models.NewEvent(models.EventAuctionEndedNoBid, actorID)
			ended.AuctionID = a.ID
			ended.AuctioneerID = a.Item.PostedByID
			ended.ItemTitle = a.Item.Title
			ended.Details = fmt.Sprintf("Auction %d ended with no bids", a.ID)
			events = append(events, ended)
		}

		for _, evt := range events {
			if err := s.dispatcher.RecordTx(ctx, tx, evt); err != nil {
				return err
			}
		}

		auction = a
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	for _, evt := range events {
		s.dispatcher.Deliver(evt)
	}
	return auction, events, nil
}

// Cancel transitions a scheduled or active auction to cancelled. Recorded
// bids and bid history are left untouched.
func (s *AuctionService) Cancel(ctx context.Context, id, actorID uint) (*models.Auction, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	var auction *models.Auction
	var evt models.Event

	err := s.txm.Do(ctx, func(tx *repository.Repositories) error {
		a, err := tx.Auction.FindByIDWithItem(ctx, id)
		if err != nil {
			return wrapStoreErr(err)
		}

		if !a.MayCancel() {
			return fmt.Errorf("%w: auction %d is %s", ErrInvalidTransition, a.ID, a.Status)
		}

		afsm := statemachine.NewAuctionFSM(a)
		if err := afsm.Cancel(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		}

		now := time.Now().UTC()
		a.CancelledAt = &now
		if err := tx.Auction.Update(ctx, a); err != nil {
			return wrapStoreErr(err)
		}

		evt = models.NewEvent(models.EventAuctionCancelled, actorID)
		evt.AuctionID = a.ID
		evt.AuctioneerID = a.Item.PostedByID
		evt.ItemTitle = a.Item.Title
		evt.Details = fmt.Sprintf("Auction %d cancelled by user %d", a.ID, actorID)

		auction = a
		return s.dispatcher.RecordTx(ctx, tx, evt)
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Deliver(evt)
	return auction, nil
}

// AdvanceDueAuctions opens scheduled auctions whose start time has been
// reached and closes active auctions whose end time has passed. The sweep
// is idempotent: auctions already advanced by a concurrent writer are
// skipped, not failed.
func (s *AuctionService) AdvanceDueAuctions(ctx context.Context, now time.Time) ([]models.Event, error) {
	var transitions []models.Event

	due, err := s.repo.FindDueScheduled(ctx, now)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	for _, a := range due {
		_, evt, err := s.openAt(ctx, a.ID, s.systemUserID, now)
		if err != nil {
			if errors.Is(err, ErrInvalidTransition) {
				continue
			}
			return transitions, err
		}
		transitions = append(transitions, evt)
	}

	expired, err := s.repo.FindExpiredActive(ctx, now)
	if err != nil {
		return transitions, wrapStoreErr(err)
	}
	for _, a := range expired {
		_, events, err := s.closeAt(ctx, a.ID, s.systemUserID, now)
		if err != nil {
			if errors.Is(err, ErrInvalidTransition) {
				continue
			}
			return transitions, err
		}
		transitions = append(transitions, events...)
	}

	return transitions, nil
}
