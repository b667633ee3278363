package store

import (
	"context"
	"time"

	"bugdesk/internal/models"
)

// ReportStore abstracts report storage backends.
type ReportStore interface {
	ReportExists(id string) (bool, error)
	CreateReport(ctx context.Context, report *models.Report) error
	GetReport(ctx context.Context, id string) (*models.Report, error)
	ListReports(ctx context.Context, filter ListFilter) ([]models.Report, error)
	UpdateReportStatus(ctx context.Context, id string, status string, resolvedAt *time.Time) (int64, error)
}

var _ ReportStore = (*Store)(nil)
