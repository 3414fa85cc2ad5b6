package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/bidhall/auction-api/internal/models"
)

// ReportRepository defines the interface for moderation report data access
type ReportRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Report, error)
	Create(ctx context.Context, report *models.Report) error
	Update(ctx context.Context, report *models.Report) error
	List(ctx context.Context, query *ListQuery) ([]models.Report, int64, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) FindByID(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepository) Update(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Save(report).Error
}

func (r *reportRepository) List(ctx context.Context, query *ListQuery) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Report{})

	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}
	if query.Filters["report_type"] != "" {
		db = db.Where("report_type = ?", query.Filters["report_type"])
	}

	db.Count(&total)

	db = db.Order("created_at DESC")
	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&reports).Error
	return reports, total, err
}
