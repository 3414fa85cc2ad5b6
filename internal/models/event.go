package models

import (
	"time"

	"github.com/google/uuid"
)

// EventKind identifies a state-changing action routed through the dispatcher.
type EventKind string

// Event kinds
const (
	EventBidAccepted       EventKind = "BidAccepted"
	EventAuctionOpened     EventKind = "AuctionOpened"
	EventAuctionClosed     EventKind = "AuctionClosed"
	EventAuctionCancelled  EventKind = "AuctionCancelled"
	EventAuctionWon        EventKind = "AuctionWon"
	EventAuctionEndedNoBid EventKind = "AuctionEndedNoBids"
	EventReportFiled       EventKind = "ReportFiled"
	EventReportResolved    EventKind = "ReportResolved"
)

// Event describes a committed state change. The dispatcher writes exactly
// one audit log row per event and fans out notifications to the event's
// natural addressees. Zero-valued reference fields mean "not applicable".
type Event struct {
	ID           string
	Kind         EventKind
	ActorID      uint
	AuctionID    uint
	BidID        uint
	ReportID     uint
	ItemTitle    string
	Amount       float64
	AuctioneerID uint
	BidderID     uint
	PrevBidderID uint
	WinnerID     uint
	ReporterID   uint
	Details      string
	OccurredAt   time.Time
}

// NewEvent builds an event with a fresh correlation ID
func NewEvent(kind EventKind, actorID uint) Event {
	return Event{
		ID:         uuid.NewString(),
		Kind:       kind,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	}
}
