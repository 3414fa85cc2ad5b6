package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bidhall/auction-api/internal/middleware"
	"github.com/bidhall/auction-api/internal/models"
	"github.com/bidhall/auction-api/internal/repository"
	"github.com/bidhall/auction-api/internal/services"
)

type ItemHandler struct {
	itemService *services.ItemService
}

func NewItemHandler(itemService *services.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

func (h *ItemHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.Filters["category"] = c.Query("category")
	query.Filters["posted_by"] = c.Query("posted_by")

	items, total, err := h.itemService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.ItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, item.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"items": responses, "pagination": gin.H{"total": total}})
}

func (h *ItemHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("item_id"), 10, 32)
	item, err := h.itemService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item.ToResponse()})
}

type createItemRequest struct {
	Title         string   `json:"title" binding:"required"`
	Description   string   `json:"description"`
	StartingPrice float64  `json:"starting_price"`
	Category      string   `json:"category"`
	ImageURLs     []string `json:"image_urls" binding:"required"`
}

func (h *ItemHandler) Create(c *gin.Context) {
	var req createItemRequest
	if err := BindNestedOrFlat(c, "item", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := &models.Item{
		Title:         req.Title,
		Description:   req.Description,
		StartingPrice: req.StartingPrice,
		Category:      req.Category,
		PostedByID:    middleware.GetUserID(c),
	}
	if err := h.itemService.Create(c.Request.Context(), item, req.ImageURLs); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": item.ToResponse()})
}

type addImageRequest struct {
	ImageURL string `json:"image_url" binding:"required"`
}

func (h *ItemHandler) AddImage(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("item_id"), 10, 32)

	var req addImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	image, err := h.itemService.AddImage(c.Request.Context(), uint(id), req.ImageURL, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"image": image})
}
