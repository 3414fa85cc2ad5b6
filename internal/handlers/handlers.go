package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bidhall/auction-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	User         *UserHandler
	Item         *ItemHandler
	Auction      *AuctionHandler
	Report       *ReportHandler
	Notification *NotificationHandler
	Audit        *AuditHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(),
		User:         NewUserHandler(svcs.User),
		Item:         NewItemHandler(svcs.Item),
		Auction:      NewAuctionHandler(svcs.Auction, svcs.Bidding),
		Report:       NewReportHandler(svcs.Report),
		Notification: NewNotificationHandler(svcs.Notification),
		Audit:        NewAuditHandler(svcs.Audit),
	}
}

// respondError translates service errors into HTTP status codes. Business
// rule rejections are 422, missing records 404, bad input 400 and store
// failures 503.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrBidTooLow),
		errors.Is(err, services.ErrSelfBidding),
		errors.Is(err, services.ErrAuctionNotAcceptingBid),
		errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service temporarily unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
