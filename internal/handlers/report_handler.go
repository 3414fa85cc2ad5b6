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

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Filters["status"] = c.Query("status")
	query.Filters["report_type"] = c.Query("report_type")

	reports, total, err := h.reportService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.ReportResponse, 0, len(reports))
	for _, r := range reports {
		responses = append(responses, r.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"reports": responses, "pagination": gin.H{"total": total}})
}

func (h *ReportHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("report_id"), 10, 32)
	report, err := h.reportService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report.ToResponse()})
}

type fileReportRequest struct {
	ReportType      string `json:"report_type" binding:"required"`
	Details         string `json:"details"`
	TargetAuctionID *uint  `json:"target_auction_id"`
	TargetUserID    *uint  `json:"target_user_id"`
}

func (h *ReportHandler) Create(c *gin.Context) {
	var req fileReportRequest
	if err := BindNestedOrFlat(c, "report", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report := &models.Report{
		ReportType:      req.ReportType,
		Details:         req.Details,
		TargetAuctionID: req.TargetAuctionID,
		TargetUserID:    req.TargetUserID,
		GeneratedByID:   middleware.GetUserID(c),
	}
	if err := h.reportService.FileReport(c.Request.Context(), report); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"report": report.ToResponse()})
}

func (h *ReportHandler) StartReview(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("report_id"), 10, 32)
	report, err := h.reportService.StartReview(c.Request.Context(), uint(id), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report.ToResponse()})
}

type resolveReportRequest struct {
	Outcome string `json:"outcome" binding:"required"`
}

func (h *ReportHandler) Resolve(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("report_id"), 10, 32)

	var req resolveReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reportService.Resolve(c.Request.Context(), uint(id), middleware.GetUserID(c), req.Outcome)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report.ToResponse()})
}
