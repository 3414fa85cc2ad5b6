package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bidhall/auction-api/internal/models"
	"github.com/bidhall/auction-api/internal/repository"
	"github.com/bidhall/auction-api/pkg/keymutex"
)

const testSystemUserID = 99

type lifecycleFixture struct {
	auctions map[uint]*models.Auction
	item     *models.Item
	notifs   *mockNotificationRepository
	audits   *mockAuditRepository
	svc      *AuctionService
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	t.Helper()

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := &lifecycleFixture{
		item: &models.Item{
			ID:            10,
			Title:         "Vintage Clock",
			StartingPrice: 200.0,
			PostedByID:    1,
		},
		notifs: &mockNotificationRepository{},
		audits: &mockAuditRepository{},
	}
	f.auctions = map[uint]*models.Auction{
		1: {
			ID:        1,
			ItemID:    10,
			StartTime: start,
			EndTime:   start.Add(72 * time.Hour),
			Status:    models.AuctionStatusScheduled,
		},
	}
	for _, a := range f.auctions {
		a.Item = *f.item
	}

	auctionRepo := &mockAuctionRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Auction, error) {
			return f.auctions[id], nil
		},
		mockFindByIDWithItem: func(ctx context.Context, id uint) (*models.Auction, error) {
			return f.auctions[id], nil
		},
		mockCreate: func(ctx context.Context, auction *models.Auction) error {
			auction.ID = uint(len(f.auctions) + 1)
			auction.Item = *f.item
			f.auctions[auction.ID] = auction
			return nil
		},
		mockFindDueScheduled: func(ctx context.Context, now time.Time) ([]models.Auction, error) {
			var due []models.Auction
			for _, a := range f.auctions {
				if a.Status == models.AuctionStatusScheduled && !a.StartTime.After(now) {
					due = append(due, *a)
				}
			}
			return due, nil
		},
		mockFindExpiredActive: func(ctx context.Context, now time.Time) ([]models.Auction, error) {
			var expired []models.Auction
			for _, a := range f.auctions {
				if a.Status == models.AuctionStatusActive && !a.EndTime.After(now) {
					expired = append(expired, *a)
				}
			}
			return expired, nil
		},
		mockFindNonTerminalByItem: func(ctx context.Context, itemID uint) ([]models.Auction, error) {
			var open []models.Auction
			for _, a := range f.auctions {
				if a.ItemID == itemID && !a.IsTerminal() {
					open = append(open, *a)
				}
			}
			return open, nil
		},
	}
	itemRepo := &mockItemRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Item, error) {
			return f.item, nil
		},
	}

	userRepo := &mockUserRepository{}
	notificationSvc := NewNotificationService(f.notifs, userRepo)
	dispatcher := NewDispatcherService(f.audits, notificationSvc, syncRunner{})
	auditSvc := NewAuditService(f.audits)

	txm := &mockTxManager{repos: &repository.Repositories{
		Auction: auctionRepo,
		Item:    itemRepo,
		Audit:   f.audits,
	}}

	f.svc = NewAuctionService(auctionRepo, itemRepo, txm, keymutex.New(), dispatcher, auditSvc, testSystemUserID)
	return f
}

func (f *lifecycleFixture) auditActions() []string {
	var actions []string
	for _, e := range f.audits.all() {
		actions = append(actions, e.Action)
	}
	return actions
}

func TestCreateAuctionValidatesWindow(t *testing.T) {
	f := newLifecycleFixture(t)

	start := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	err := f.svc.Create(context.Background(), &models.Auction{
		ItemID:    10,
		StartTime: start,
		EndTime:   start,
	}, 1)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateAuctionRejectsSecondNonTerminal(t *testing.T) {
	f := newLifecycleFixture(t)

	start := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	err := f.svc.Create(context.Background(), &models.Auction{
		ItemID:    10,
		StartTime: start,
		EndTime:   start.Add(24 * time.Hour),
	}, 1)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateAuctionAfterTerminal(t *testing.T) {
	f := newLifecycleFixture(t)
	f.auctions[1].Status = models.AuctionStatusCancelled

	start := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	auction := &models.Auction{
		ItemID:    10,
		StartTime: start,
		EndTime:   start.Add(24 * time.Hour),
		Status:    "garbage",
	}
	err := f.svc.Create(context.Background(), auction, 1)
	require.NoError(t, err)
	assert.Equal(t, models.AuctionStatusScheduled, auction.Status)
	assert.Contains(t, f.auditActions(), "CREATE")
}

func TestOpenAuction(t *testing.T) {
	f := newLifecycleFixture(t)

	auction, err := f.svc.Open(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, models.AuctionStatusActive, auction.Status)
	assert.NotNil(t, auction.OpenedAt)
	assert.Contains(t, f.auditActions(), "AUCTION_OPENED")

	notifs := f.notifs.all()
	require.Len(t, notifs, 1)
	assert.Equal(t, f.item.PostedByID, notifs[0].UserID)
}

func TestOpenActiveAuctionFails(t *testing.T) {
	f := newLifecycleFixture(t)
	f.auctions[1].Status = models.AuctionStatusActive

	_, err := f.svc.Open(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCloseAuctionWithBids(t *testing.T) {
	f := newLifecycleFixture(t)
	a := f.auctions[1]
	a.Status = models.AuctionStatusActive
	bidID, bidderID, amount := uint(5), uint(2), 250.0
	a.CurrentHighBidID = &bidID
	a.CurrentHighBidderID = &bidderID
	a.CurrentHighBidAmount = &amount

	auction, err := f.svc.Close(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, models.AuctionStatusClosed, auction.Status)
	assert.NotNil(t, auction.ClosedAt)
	require.NotNil(t, auction.WinnerID)
	assert.Equal(t, bidderID, *auction.WinnerID)

	actions := f.auditActions()
	assert.Contains(t, actions, "AUCTION_CLOSED")
	assert.Contains(t, actions, "AUCTION_WON")

	// Winner and auctioneer are both told about the outcome.
	recipients := map[uint]bool{}
	for _, n := range f.notifs.all() {
		recipients[n.UserID] = true
	}
	assert.True(t, recipients[bidderID])
	assert.True(t, recipients[f.item.PostedByID])
}

func TestCloseAuctionWithoutBids(t *testing.T) {
	f := newLifecycleFixture(t)
	f.auctions[1].Status = models.AuctionStatusActive

	auction, err := f.svc.Close(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Nil(t, auction.WinnerID)

	actions := f.auditActions()
	assert.Contains(t, actions, "AUCTION_CLOSED")
	assert.Contains(t, actions, "AUCTION_ENDED_NO_BIDS")
	assert.NotContains(t, actions, "AUCTION_WON")
}

func TestCancelClosedAuctionFails(t *testing.T) {
	f := newLifecycleFixture(t)
	f.auctions[1].Status = models.AuctionStatusClosed

	_, err := f.svc.Cancel(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelActiveAuction(t *testing.T) {
	f := newLifecycleFixture(t)
	a := f.auctions[1]
	a.Status = models.AuctionStatusActive
	bidID := uint(5)
	a.CurrentHighBidID = &bidID

	auction, err := f.svc.Cancel(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, models.AuctionStatusCancelled, auction.Status)
	assert.NotNil(t, auction.CancelledAt)
	// Recorded bids survive cancellation.
	assert.Equal(t, &bidID, auction.CurrentHighBidID)
	assert.Contains(t, f.auditActions(), "AUCTION_CANCELLED")
}

func TestAdvanceDueAuctionsIdempotent(t *testing.T) {
	f := newLifecycleFixture(t)
	a := f.auctions[1]

	// First sweep after the start time opens the auction.
	now := a.StartTime.Add(time.Minute)
	transitions, err := f.svc.AdvanceDueAuctions(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, transitions, 1)
	assert.Equal(t, models.EventAuctionOpened, transitions[0].Kind)
	assert.Equal(t, uint(testSystemUserID), transitions[0].ActorID)
	assert.Equal(t, models.AuctionStatusActive, a.Status)

	// Running the same sweep again finds nothing to do.
	transitions, err = f.svc.AdvanceDueAuctions(context.Background(), now)
	require.NoError(t, err)
	assert.Empty(t, transitions)

	// A sweep past the end time closes it.
	transitions, err = f.svc.AdvanceDueAuctions(context.Background(), a.EndTime.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, transitions, 2)
	assert.Equal(t, models.EventAuctionClosed, transitions[0].Kind)
	assert.Equal(t, models.EventAuctionEndedNoBid, transitions[1].Kind)
	assert.Equal(t, models.AuctionStatusClosed, a.Status)

	transitions, err = f.svc.AdvanceDueAuctions(context.Background(), a.EndTime.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, transitions)
}
