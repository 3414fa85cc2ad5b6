package statemachine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bidhall/auction-api/internal/models"
)

func TestAuctionLifecyclePath(t *testing.T) {
	auction := &models.Auction{Status: models.AuctionStatusScheduled}
	afsm := NewAuctionFSM(auction)

	require.NoError(t, afsm.Open(context.Background()))
	assert.Equal(t, models.AuctionStatusActive, auction.Status)

	require.NoError(t, afsm.Close(context.Background()))
	assert.Equal(t, models.AuctionStatusClosed, auction.Status)
}

func TestAuctionTerminalStatesRejectEvents(t *testing.T) {
	for _, status := range []string{models.AuctionStatusClosed, models.AuctionStatusCancelled} {
		auction := &models.Auction{Status: status}
		afsm := NewAuctionFSM(auction)

		assert.Error(t, afsm.Open(context.Background()))
		assert.Error(t, afsm.Close(context.Background()))
		assert.Error(t, afsm.Cancel(context.Background()))
		assert.Equal(t, status, auction.Status)
	}
}

func TestAuctionCancelFromScheduledAndActive(t *testing.T) {
	scheduled := &models.Auction{Status: models.AuctionStatusScheduled}
	require.NoError(t, NewAuctionFSM(scheduled).Cancel(context.Background()))
	assert.Equal(t, models.AuctionStatusCancelled, scheduled.Status)

	active := &models.Auction{Status: models.AuctionStatusActive}
	require.NoError(t, NewAuctionFSM(active).Cancel(context.Background()))
	assert.Equal(t, models.AuctionStatusCancelled, active.Status)
}

func TestAuctionCannotSkipScheduled(t *testing.T) {
	auction := &models.Auction{Status: models.AuctionStatusScheduled}
	afsm := NewAuctionFSM(auction)

	assert.Error(t, afsm.Close(context.Background()))
	assert.Equal(t, models.AuctionStatusScheduled, auction.Status)
	assert.True(t, afsm.Can("open"))
	assert.False(t, afsm.Can("close"))
}
