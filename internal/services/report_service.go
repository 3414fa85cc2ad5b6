package services

import (
	"context"
	"fmt"
	"time"

	"github.com/bidhall/auction-api/internal/models"
	"github.com/bidhall/auction-api/internal/repository"
	"github.com/bidhall/auction-api/internal/statemachine"
	"github.com/bidhall/auction-api/pkg/keymutex"
)

// ReportService handles moderation reports filed against auctions or users.
// Resolution is serialized per report so two moderators cannot both close
// the same report.
type ReportService struct {
	repo       repository.ReportRepository
	txm        repository.TxManager
	locks      *keymutex.KeyMutex
	dispatcher *DispatcherService
}

func NewReportService(repo repository.ReportRepository, txm repository.TxManager, dispatcher *DispatcherService) *ReportService {
	return &ReportService{
		repo:       repo,
		txm:        txm,
		locks:      keymutex.New(),
		dispatcher: dispatcher,
	}
}

func (s *ReportService) FindByID(ctx context.Context, id uint) (*models.Report, error) {
	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return report, nil
}

func (s *ReportService) List(ctx context.Context, query *repository.ListQuery) ([]models.Report, int64, error) {
	return s.repo.List(ctx, query)
}

// FileReport records a new report. The status is always open on creation
// regardless of what the caller set on the struct.
func (s *ReportService) FileReport(ctx context.Context, report *models.Report) error {
	if report.ReportType == "" {
		return fmt.Errorf("%w: report_type is required", ErrValidation)
	}
	if report.TargetAuctionID == nil && report.TargetUserID == nil {
		return fmt.Errorf("%w: report must target an auction or a user", ErrValidation)
	}

	var evt models.Event
	err := s.txm.Do(ctx, func(tx *repository.Repositories) error {
		report.Status = models.ReportStatusOpen
		if err := tx.Report.Create(ctx, report); err != nil {
			return wrapStoreErr(err)
		}

		evt = models.NewEvent(models.EventReportFiled, report.GeneratedByID)
		evt.ReportID = report.ID
		evt.ReporterID = report.GeneratedByID
		evt.Details = fmt.Sprintf("Report %d filed (%s)", report.ID, report.ReportType)
		return s.dispatcher.RecordTx(ctx, tx, evt)
	})
	if err != nil {
		return err
	}

	s.dispatcher.Deliver(evt)
	return nil
}

// StartReview moves an open report to under_review, marking that a
// moderator has picked it up.
func (s *ReportService) StartReview(ctx context.Context, id, reviewerID uint) (*models.Report, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	if !report.MayReview() {
		return nil, fmt.Errorf("%w: report %d is %s", ErrInvalidTransition, report.ID, report.Status)
	}

	rfsm := statemachine.NewReportFSM(report)
	if err := rfsm.Review(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}

	report.ResolvedByID = &reviewerID
	if err := s.repo.Update(ctx, report); err != nil {
		return nil, wrapStoreErr(err)
	}
	return report, nil
}

// Resolve closes a report with an outcome note. A report already closed
// cannot be resolved again.
func (s *ReportService) Resolve(ctx context.Context, id, resolverID uint, outcome string) (*models.Report, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	var report *models.Report
	var evt models.Event

	err := s.txm.Do(ctx, func(tx *repository.Repositories) error {
		r, err := tx.Report.FindByID(ctx, id)
		if err != nil {
			return wrapStoreErr(err)
		}

		if !r.MayResolve() {
			return fmt.Errorf("%w: report %d is %s", ErrInvalidTransition, r.ID, r.Status)
		}

		rfsm := statemachine.NewReportFSM(r)
		if err := rfsm.Resolve(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		}

		now := time.Now().UTC()
		r.ResolvedByID = &resolverID
		r.ResolvedAt = &now
		r.Outcome = &outcome
		if err := tx.Report.Update(ctx, r); err != nil {
			return wrapStoreErr(err)
		}

		evt = models.NewEvent(models.EventReportResolved, resolverID)
		evt.ReportID = r.ID
		evt.ReporterID = r.GeneratedByID
		evt.Details = fmt.Sprintf("Report %d resolved: %s", r.ID, outcome)

		report = r
		return s.dispatcher.RecordTx(ctx, tx, evt)
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Deliver(evt)
	return report, nil
}
