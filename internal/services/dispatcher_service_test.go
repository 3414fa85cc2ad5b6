package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bidhall/auction-api/internal/models"
)

func TestAuditEntryMapsEventsToEntities(t *testing.T) {
	evt := models.NewEvent(models.EventBidAccepted, 2)
	evt.AuctionID = 7
	entry := auditEntry(evt)
	assert.Equal(t, "Auction", entry.Entity)
	assert.Equal(t, uint(7), entry.EntityID)
	assert.Equal(t, "BID_ACCEPTED", entry.Action)
	assert.Equal(t, evt.ID, entry.EventID)

	evt = models.NewEvent(models.EventReportResolved, 50)
	evt.ReportID = 3
	entry = auditEntry(evt)
	assert.Equal(t, "Report", entry.Entity)
	assert.Equal(t, uint(3), entry.EntityID)
	assert.Equal(t, "REPORT_RESOLVED", entry.Action)
}

func TestRecordWritesAuditAndDelivers(t *testing.T) {
	notifs := &mockNotificationRepository{}
	audits := &mockAuditRepository{}
	notificationSvc := NewNotificationService(notifs, &mockUserRepository{})
	dispatcher := NewDispatcherService(audits, notificationSvc, syncRunner{})

	evt := models.NewEvent(models.EventAuctionOpened, 1)
	evt.AuctionID = 4
	evt.AuctioneerID = 1
	evt.ItemTitle = "Antique Vase"

	require.NoError(t, dispatcher.Record(context.Background(), evt))
	assert.Len(t, audits.all(), 1)

	notifications := notifs.all()
	require.Len(t, notifications, 1)
	assert.Equal(t, uint(1), notifications[0].UserID)
	assert.Equal(t, models.NotificationTypeAuctionOpened, *notifications[0].NotificationType)
}

func TestNotifyBidAcceptedWithPreviousBidder(t *testing.T) {
	notifs := &mockNotificationRepository{}
	notificationSvc := NewNotificationService(notifs, &mockUserRepository{})
	dispatcher := NewDispatcherService(&mockAuditRepository{}, notificationSvc, syncRunner{})

	evt := models.NewEvent(models.EventBidAccepted, 3)
	evt.BidderID = 3
	evt.PrevBidderID = 2
	evt.Amount = 130.0
	evt.ItemTitle = "Antique Vase"

	dispatcher.Deliver(evt)

	notifications := notifs.all()
	require.Len(t, notifications, 2)
	byUser := map[uint]models.Notification{}
	for _, n := range notifications {
		byUser[n.UserID] = n
	}
	assert.Equal(t, models.NotificationTypeBidAccepted, *byUser[3].NotificationType)
	assert.Equal(t, models.NotificationTypeOutbid, *byUser[2].NotificationType)
}

func TestNotifyFirstBidHasNoOutbid(t *testing.T) {
	notifs := &mockNotificationRepository{}
	notificationSvc := NewNotificationService(notifs, &mockUserRepository{})
	dispatcher := NewDispatcherService(&mockAuditRepository{}, notificationSvc, syncRunner{})

	evt := models.NewEvent(models.EventBidAccepted, 3)
	evt.BidderID = 3
	evt.Amount = 120.0

	dispatcher.Deliver(evt)
	assert.Len(t, notifs.all(), 1)
}

func TestNotifyAuctionWonReachesBothParties(t *testing.T) {
	notifs := &mockNotificationRepository{}
	notificationSvc := NewNotificationService(notifs, &mockUserRepository{})
	dispatcher := NewDispatcherService(&mockAuditRepository{}, notificationSvc, syncRunner{})

	evt := models.NewEvent(models.EventAuctionWon, testSystemUserID)
	evt.WinnerID = 3
	evt.AuctioneerID = 1
	evt.Amount = 130.0
	evt.ItemTitle = "Antique Vase"

	dispatcher.Deliver(evt)

	recipients := map[uint]bool{}
	for _, n := range notifs.all() {
		recipients[n.UserID] = true
	}
	assert.True(t, recipients[3])
	assert.True(t, recipients[1])
}

func TestNotifyAuctionClosedHasNoAddressee(t *testing.T) {
	notifs := &mockNotificationRepository{}
	notificationSvc := NewNotificationService(notifs, &mockUserRepository{})
	dispatcher := NewDispatcherService(&mockAuditRepository{}, notificationSvc, syncRunner{})

	evt := models.NewEvent(models.EventAuctionClosed, testSystemUserID)
	evt.AuctionID = 4

	dispatcher.Deliver(evt)
	assert.Empty(t, notifs.all())
}
