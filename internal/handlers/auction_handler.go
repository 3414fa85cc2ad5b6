package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bidhall/auction-api/internal/middleware"
	"github.com/bidhall/auction-api/internal/models"
	"github.com/bidhall/auction-api/internal/repository"
	"github.com/bidhall/auction-api/internal/services"
)

type AuctionHandler struct {
	auctionService *services.AuctionService
	biddingService *services.BiddingService
}

func NewAuctionHandler(auctionService *services.AuctionService, biddingService *services.BiddingService) *AuctionHandler {
	return &AuctionHandler{auctionService: auctionService, biddingService: biddingService}
}

func (h *AuctionHandler) Index(c *gin.Context) {
	query := &repository.AuctionQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Status = c.Query("status")
	if itemID, err := strconv.ParseUint(c.Query("item_id"), 10, 32); err == nil {
		query.ItemID = uint(itemID)
	}

	auctions, total, err := h.auctionService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.AuctionResponse, 0, len(auctions))
	for _, a := range auctions {
		responses = append(responses, a.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"auctions": responses, "pagination": gin.H{"total": total}})
}

func (h *AuctionHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("auction_id"), 10, 32)
	auction, err := h.auctionService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"auction": auction.ToResponse()})
}

type createAuctionRequest struct {
	ItemID    uint      `json:"item_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

func (h *AuctionHandler) Create(c *gin.Context) {
	var req createAuctionRequest
	if err := BindNestedOrFlat(c, "auction", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ItemID == 0 || req.StartTime.IsZero() || req.EndTime.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item_id, start_time and end_time are required"})
		return
	}

	auction := &models.Auction{
		ItemID:    req.ItemID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := h.auctionService.Create(c.Request.Context(), auction, middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"auction": auction.ToResponse()})
}

func (h *AuctionHandler) Open(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("auction_id"), 10, 32)
	auction, err := h.auctionService.Open(c.Request.Context(), uint(id), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"auction": auction.ToResponse()})
}

func (h *AuctionHandler) Close(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("auction_id"), 10, 32)
	auction, err := h.auctionService.Close(c.Request.Context(), uint(id), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"auction": auction.ToResponse()})
}

func (h *AuctionHandler) Cancel(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("auction_id"), 10, 32)
	auction, err := h.auctionService.Cancel(c.Request.Context(), uint(id), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"auction": auction.ToResponse()})
}

type placeBidRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

func (h *AuctionHandler) PlaceBid(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("auction_id"), 10, 32)

	var req placeBidRequest
	if err := BindNestedOrFlat(c, "bid", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	bid, err := h.biddingService.SubmitBid(c.Request.Context(), uint(id), middleware.GetUserID(c), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"bid": bid.ToResponse()})
}

func (h *AuctionHandler) Bids(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("auction_id"), 10, 32)
	bids, err := h.biddingService.BidsForAuction(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.BidResponse, 0, len(bids))
	for _, b := range bids {
		responses = append(responses, b.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"bids": responses})
}

// WinningBid returns the bid that won a closed auction
func (h *AuctionHandler) WinningBid(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("auction_id"), 10, 32)
	bid, err := h.biddingService.WinningBid(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bid": bid.ToResponse()})
}

func (h *AuctionHandler) History(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("auction_id"), 10, 32)
	history, err := h.biddingService.HistoryForAuction(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

// Reconcile repairs the denormalized high bid cache from the recorded bids
func (h *AuctionHandler) Reconcile(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("auction_id"), 10, 32)
	repaired, err := h.biddingService.ReconcileHighBid(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"repaired": repaired})
}
