package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/bidhall/auction-api/internal/models"
	"github.com/bidhall/auction-api/internal/repository"
	"github.com/bidhall/auction-api/pkg/keymutex"
)

// BiddingService validates and admits bids against an auction's current
// state. All writes for one accepted bid (the Bid row, the BidHistory row
// and the denormalized high bid on the auction) happen in one transaction,
// and submissions for the same auction are serialized through a per-auction
// lock so two bids can never both observe the same pre-update high bid.
type BiddingService struct {
	auctionRepo  repository.AuctionRepository
	bidRepo      repository.BidRepository
	txm          repository.TxManager
	locks        *keymutex.KeyMutex
	dispatcher   *DispatcherService
	minIncrement float64
	now          func() time.Time
}

func NewBiddingService(
	auctionRepo repository.AuctionRepository,
	bidRepo repository.BidRepository,
	txm repository.TxManager,
	locks *keymutex.KeyMutex,
	dispatcher *DispatcherService,
	minIncrement float64,
) *BiddingService {
	return &BiddingService{
		auctionRepo:  auctionRepo,
		bidRepo:      bidRepo,
		txm:          txm,
		locks:        locks,
		dispatcher:   dispatcher,
		minIncrement: minIncrement,
		now:          time.Now,
	}
}

// SubmitBid validates and records a bid. Preconditions are checked in
// order inside the bid-accepting transaction:
//  1. the auction is active and the current time is within [start, end)
//  2. the bidder is not the item's owner
//  3. the amount beats the current high bid (or meets the starting price
//     when there is no prior bid), by at least the minimum increment
func (s *BiddingService) SubmitBid(ctx context.Context, auctionID, bidderID uint, amount float64) (*models.Bid, error) {
	unlock := s.locks.Lock(auctionID)
	defer unlock()

	var bid *models.Bid
	var evt models.Event

	err := s.txm.Do(ctx, func(tx *repository.Repositories) error {
		auction, err := tx.Auction.FindByIDWithItem(ctx, auctionID)
		if err != nil {
			return wrapStoreErr(err)
		}

		now := s.now().UTC()
		if !auction.AcceptingBids(now) {
			return fmt.Errorf("%w: auction %d is %s", ErrAuctionNotAcceptingBid, auction.ID, auction.Status)
		}

		if bidderID == auction.Item.PostedByID {
			return fmt.Errorf("%w: user %d owns item %d", ErrSelfBidding, bidderID, auction.ItemID)
		}

		var prevBidderID uint
		if auction.HasBids() {
			current := *auction.CurrentHighBidAmount
			if amount <= current || amount < current+s.minIncrement {
				return fmt.Errorf("%w: %.2f does not beat current high bid %.2f", ErrBidTooLow, amount, current)
			}
			if auction.CurrentHighBidderID != nil {
				prevBidderID = *auction.CurrentHighBidderID
			}
		} else if amount < auction.Item.StartingPrice+s.minIncrement {
			return fmt.Errorf("%w: %.2f is below starting price %.2f", ErrBidTooLow, amount, auction.Item.StartingPrice)
		}

		bid = &models.Bid{
			AuctionID:  auction.ID,
			BidderID:   bidderID,
			Amount:     amount,
			AcceptedAt: now,
		}
		if err := tx.Bid.Create(ctx, bid); err != nil {
			return wrapStoreErr(err)
		}

		if err := tx.Bid.AppendHistory(ctx, &models.BidHistory{
			BidID:     bid.ID,
			AuctionID: auction.ID,
			BidderID:  bidderID,
			Amount:    amount,
			Timestamp: now,
		}); err != nil {
			return wrapStoreErr(err)
		}

		auction.CurrentHighBidID = &bid.ID
		auction.CurrentHighBidAmount = &amount
		auction.CurrentHighBidderID = &bidderID
		if err := tx.Auction.Update(ctx, auction); err != nil {
			return wrapStoreErr(err)
		}

		evt = models.NewEvent(models.EventBidAccepted, bidderID)
		evt.AuctionID = auction.ID
		evt.BidID = bid.ID
		evt.Amount = amount
		evt.BidderID = bidderID
		evt.PrevBidderID = prevBidderID
		evt.AuctioneerID = auction.Item.PostedByID
		evt.ItemTitle = auction.Item.Title
		evt.Details = fmt.Sprintf("Bid of $%.2f accepted on auction %d", amount, auction.ID)

		return s.dispatcher.RecordTx(ctx, tx, evt)
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Deliver(evt)
	return bid, nil
}

// BidsForAuction returns the accepted bids for an auction in acceptance order
func (s *BiddingService) BidsForAuction(ctx context.Context, auctionID uint) ([]models.Bid, error) {
	if _, err := s.auctionRepo.FindByID(ctx, auctionID); err != nil {
		return nil, wrapStoreErr(err)
	}
	return s.bidRepo.FindByAuction(ctx, auctionID)
}

// HistoryForAuction returns the append-only bid history for an auction
func (s *BiddingService) HistoryForAuction(ctx context.Context, auctionID uint) ([]models.BidHistory, error) {
	if _, err := s.auctionRepo.FindByID(ctx, auctionID); err != nil {
		return nil, wrapStoreErr(err)
	}
	return s.bidRepo.HistoryByAuction(ctx, auctionID)
}

// WinningBid returns the bid that won a closed auction.
func (s *BiddingService) WinningBid(ctx context.Context, auctionID uint) (*models.Bid, error) {
	auction, err := s.auctionRepo.FindByID(ctx, auctionID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	if auction.Status != models.AuctionStatusClosed {
		return nil, fmt.Errorf("%w: auction %d has not closed", ErrValidation, auctionID)
	}
	if auction.WinnerID == nil {
		return nil, fmt.Errorf("%w: auction %d closed without bids", ErrNotFound, auctionID)
	}
	bid, err := s.bidRepo.HighestForAuction(ctx, auctionID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return bid, nil
}

// ReconcileHighBid recomputes the denormalized high bid from the recorded
// bids and repairs the auction row if they have drifted apart. Returns true
// when a repair was needed.
func (s *BiddingService) ReconcileHighBid(ctx context.Context, auctionID uint) (bool, error) {
	unlock := s.locks.Lock(auctionID)
	defer unlock()

	var repaired bool
	err := s.txm.Do(ctx, func(tx *repository.Repositories) error {
		auction, err := tx.Auction.FindByID(ctx, auctionID)
		if err != nil {
			return wrapStoreErr(err)
		}

		highest, err := tx.Bid.HighestForAuction(ctx, auctionID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return wrapStoreErr(err)
			}
			// No bids recorded: the cache must be empty.
			if auction.CurrentHighBidID == nil {
				return nil
			}
			auction.CurrentHighBidID = nil
			auction.CurrentHighBidAmount = nil
			auction.CurrentHighBidderID = nil
			repaired = true
			return tx.Auction.Update(ctx, auction)
		}

		if auction.CurrentHighBidID != nil && *auction.CurrentHighBidID == highest.ID {
			return nil
		}

		auction.CurrentHighBidID = &highest.ID
		auction.CurrentHighBidAmount = &highest.Amount
		auction.CurrentHighBidderID = &highest.BidderID
		repaired = true
		return tx.Auction.Update(ctx, auction)
	})
	return repaired, err
}
