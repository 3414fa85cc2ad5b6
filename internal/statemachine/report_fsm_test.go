package statemachine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bidhall/auction-api/internal/models"
)

func TestReportReviewThenResolve(t *testing.T) {
	report := &models.Report{Status: models.ReportStatusOpen}
	rfsm := NewReportFSM(report)

	require.NoError(t, rfsm.Review(context.Background()))
	assert.Equal(t, models.ReportStatusUnderReview, report.Status)

	require.NoError(t, rfsm.Resolve(context.Background()))
	assert.Equal(t, models.ReportStatusClosed, report.Status)
}

func TestReportDirectResolve(t *testing.T) {
	report := &models.Report{Status: models.ReportStatusOpen}
	require.NoError(t, NewReportFSM(report).Resolve(context.Background()))
	assert.Equal(t, models.ReportStatusClosed, report.Status)
}

func TestReportClosedIsTerminal(t *testing.T) {
	report := &models.Report{Status: models.ReportStatusClosed}
	rfsm := NewReportFSM(report)

	assert.Error(t, rfsm.Review(context.Background()))
	assert.Error(t, rfsm.Resolve(context.Background()))
	assert.Equal(t, models.ReportStatusClosed, report.Status)
}
