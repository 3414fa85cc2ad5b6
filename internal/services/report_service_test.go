package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bidhall/auction-api/internal/models"
	"github.com/bidhall/auction-api/internal/repository"
)

type reportFixture struct {
	reports map[uint]*models.Report
	notifs  *mockNotificationRepository
	audits  *mockAuditRepository
	svc     *ReportService
}

func newReportFixture(t *testing.T, admins []models.User) *reportFixture {
	t.Helper()

	f := &reportFixture{
		reports: make(map[uint]*models.Report),
		notifs:  &mockNotificationRepository{},
		audits:  &mockAuditRepository{},
	}

	repo := &mockReportRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Report, error) {
			return f.reports[id], nil
		},
		mockCreate: func(ctx context.Context, report *models.Report) error {
			report.ID = uint(len(f.reports) + 1)
			f.reports[report.ID] = report
			return nil
		},
		mockUpdate: func(ctx context.Context, report *models.Report) error {
			f.reports[report.ID] = report
			return nil
		},
	}
	userRepo := &mockUserRepository{
		mockFindAdmins: func(ctx context.Context) ([]models.User, error) {
			return admins, nil
		},
	}
	notificationSvc := NewNotificationService(f.notifs, userRepo)
	dispatcher := NewDispatcherService(f.audits, notificationSvc, syncRunner{})

	txm := &mockTxManager{repos: &repository.Repositories{
		Report: repo,
		Audit:  f.audits,
	}}

	f.svc = NewReportService(repo, txm, dispatcher)
	return f
}

func TestFileReportForcesOpenStatus(t *testing.T) {
	admins := []models.User{{ID: 50, Role: models.RoleAdmin}, {ID: 51, Role: models.RoleAdmin}}
	f := newReportFixture(t, admins)

	auctionID := uint(1)
	report := &models.Report{
		ReportType:      "Fraud",
		Details:         "Reported for suspicious bidding activity.",
		Status:          "closed",
		GeneratedByID:   2,
		TargetAuctionID: &auctionID,
	}
	err := f.svc.FileReport(context.Background(), report)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusOpen, report.Status)

	entries := f.audits.all()
	require.Len(t, entries, 1)
	assert.Equal(t, "REPORT_FILED", entries[0].Action)
	assert.Equal(t, "Report", entries[0].Entity)

	// Every admin is notified.
	assert.Len(t, f.notifs.all(), 2)
}

func TestFileReportRequiresTarget(t *testing.T) {
	f := newReportFixture(t, nil)

	err := f.svc.FileReport(context.Background(), &models.Report{
		ReportType:    "Fraud",
		GeneratedByID: 2,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestStartReviewFromOpen(t *testing.T) {
	f := newReportFixture(t, nil)
	userID := uint(7)
	f.reports[1] = &models.Report{ID: 1, Status: models.ReportStatusOpen, GeneratedByID: 2, TargetUserID: &userID}

	report, err := f.svc.StartReview(context.Background(), 1, 50)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusUnderReview, report.Status)
	assert.Equal(t, uint(50), *report.ResolvedByID)

	// Picking it up twice is rejected.
	_, err = f.svc.StartReview(context.Background(), 1, 51)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestResolveReport(t *testing.T) {
	f := newReportFixture(t, nil)
	userID := uint(7)
	f.reports[1] = &models.Report{ID: 1, Status: models.ReportStatusUnderReview, GeneratedByID: 2, TargetUserID: &userID}

	report, err := f.svc.Resolve(context.Background(), 1, 50, "Account suspended")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusClosed, report.Status)
	assert.Equal(t, "Account suspended", *report.Outcome)
	assert.NotNil(t, report.ResolvedAt)

	entries := f.audits.all()
	require.Len(t, entries, 1)
	assert.Equal(t, "REPORT_RESOLVED", entries[0].Action)

	// The reporter hears back.
	notifs := f.notifs.all()
	require.Len(t, notifs, 1)
	assert.Equal(t, uint(2), notifs[0].UserID)
}

func TestResolveClosedReportFails(t *testing.T) {
	f := newReportFixture(t, nil)
	userID := uint(7)
	f.reports[1] = &models.Report{ID: 1, Status: models.ReportStatusClosed, GeneratedByID: 2, TargetUserID: &userID}

	_, err := f.svc.Resolve(context.Background(), 1, 50, "again")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Empty(t, f.audits.all())
}
