package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Common service errors
var (
	ErrNotFound               = errors.New("record not found")
	ErrAuctionNotAcceptingBid = errors.New("auction is not accepting bids")
	ErrSelfBidding            = errors.New("bidding on your own item is forbidden")
	ErrBidTooLow              = errors.New("bid amount too low")
	ErrInvalidTransition      = errors.New("invalid state transition")
	ErrStoreUnavailable       = errors.New("store unavailable")
	ErrValidation             = errors.New("validation failed")
)

// wrapStoreErr maps persistence failures onto the service error taxonomy.
// Missing rows become ErrNotFound; anything else is a collaborator failure.
func wrapStoreErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
