package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/bidhall/auction-api/internal/models"
)

// ReportFSM wraps a moderation report with its state machine
type ReportFSM struct {
	report *models.Report
	fsm    *fsm.FSM
}

// NewReportFSM creates a new report state machine
func NewReportFSM(report *models.Report) *ReportFSM {
	rfsm := &ReportFSM{
		report: report,
	}

	rfsm.fsm = fsm.NewFSM(
		report.Status,
		fsm.Events{
			// open → under_review
			{Name: "review", Src: []string{models.ReportStatusOpen}, Dst: models.ReportStatusUnderReview},

			// open/under_review → closed
			{Name: "resolve", Src: []string{models.ReportStatusOpen, models.ReportStatusUnderReview}, Dst: models.ReportStatusClosed},
		},
		fsm.Callbacks{},
	)

	return rfsm
}

// Review transitions the report to under_review
func (r *ReportFSM) Review(ctx context.Context) error {
	if !r.report.MayReview() {
		return fmt.Errorf("report cannot be reviewed in current state: %s", r.report.Status)
	}

	if err := r.fsm.Event(ctx, "review"); err != nil {
		return fmt.Errorf("failed to review report: %w", err)
	}

	r.report.Status = r.fsm.Current()
	return nil
}

// Resolve transitions the report to closed
func (r *ReportFSM) Resolve(ctx context.Context) error {
	if !r.report.MayResolve() {
		return fmt.Errorf("report cannot be resolved in current state: %s", r.report.Status)
	}

	if err := r.fsm.Event(ctx, "resolve"); err != nil {
		return fmt.Errorf("failed to resolve report: %w", err)
	}

	r.report.Status = r.fsm.Current()
	return nil
}

// Current returns the current state
func (r *ReportFSM) Current() string {
	return r.fsm.Current()
}
