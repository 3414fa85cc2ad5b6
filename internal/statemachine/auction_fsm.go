package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/bidhall/auction-api/internal/models"
)

// AuctionFSM wraps an auction with its state machine. Closed and cancelled
// are terminal: no event leaves them.
type AuctionFSM struct {
	auction *models.Auction
	fsm     *fsm.FSM
}

// NewAuctionFSM creates a new auction state machine
func NewAuctionFSM(auction *models.Auction) *AuctionFSM {
	afsm := &AuctionFSM{
		auction: auction,
	}

	afsm.fsm = fsm.NewFSM(
		auction.Status,
		fsm.Events{
			// scheduled → active
			{Name: "open", Src: []string{models.AuctionStatusScheduled}, Dst: models.AuctionStatusActive},

			// active → closed
			{Name: "close", Src: []string{models.AuctionStatusActive}, Dst: models.AuctionStatusClosed},

			// scheduled/active → cancelled
			{Name: "cancel", Src: []string{models.AuctionStatusScheduled, models.AuctionStatusActive}, Dst: models.AuctionStatusCancelled},
		},
		fsm.Callbacks{},
	)

	return afsm
}

// Open transitions the auction to active
func (a *AuctionFSM) Open(ctx context.Context) error {
	if !a.auction.MayOpen() {
		return fmt.Errorf("auction cannot be opened in current state: %s", a.auction.Status)
	}

	if err := a.fsm.Event(ctx, "open"); err != nil {
		return fmt.Errorf("failed to open auction: %w", err)
	}

	a.auction.Status = a.fsm.Current()
	return nil
}

// Close transitions the auction to closed
func (a *AuctionFSM) Close(ctx context.Context) error {
	if !a.auction.MayClose() {
		return fmt.Errorf("auction cannot be closed in current state: %s", a.auction.Status)
	}

	if err := a.fsm.Event(ctx, "close"); err != nil {
		return fmt.Errorf("failed to close auction: %w", err)
	}

	a.auction.Status = a.fsm.Current()
	return nil
}

// Cancel transitions the auction to cancelled
func (a *AuctionFSM) Cancel(ctx context.Context) error {
	if !a.auction.MayCancel() {
		return fmt.Errorf("auction cannot be cancelled in current state: %s", a.auction.Status)
	}

	if err := a.fsm.Event(ctx, "cancel"); err != nil {
		return fmt.Errorf("failed to cancel auction: %w", err)
	}

	a.auction.Status = a.fsm.Current()
	return nil
}

// Current returns the current state
func (a *AuctionFSM) Current() string {
	return a.fsm.Current()
}

// Can checks if a transition is possible
func (a *AuctionFSM) Can(event string) bool {
	return a.fsm.Can(event)
}
