package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"bugdesk/internal/api"
	"bugdesk/internal/models"
	"bugdesk/internal/notify"
	"bugdesk/internal/store"
)

const defaultListLimit = 200

// reportNotifier is the notifier surface the service depends on.
type reportNotifier interface {
	Enabled() bool
	Notify(ctx context.Context, report models.Report)
}

// ReportService implements report operations on top of the store.
type ReportService struct {
	store    store.ReportStore
	notifier reportNotifier
	logger   *slog.Logger
}

// NewReportService creates a report service.
func NewReportService(reportStore store.ReportStore, notifier *notify.Service, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	svc := &ReportService{store: reportStore, logger: logger}
	if notifier != nil {
		svc.notifier = notifier
	}
	return svc
}

// Submit validates and persists a new report. Notification runs in the
// background and never affects the outcome.
func (s *ReportService) Submit(ctx context.Context, req api.ReportCreateRequest) (models.Report, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return models.Report{}, badRequest(fmt.Errorf("title is required"))
	}

	priority, err := models.ParseReportPriority(req.Priority)
	if err != nil {
		return models.Report{}, badRequest(err)
	}

	occurredAt, err := parseOccurredAt(req.Timestamp)
	if err != nil {
		return models.Report{}, badRequest(err)
	}

	report := models.Report{
		ID:              uuid.NewString(),
		Title:           title,
		Description:     req.Description,
		Steps:           req.Steps,
		Expected:        req.Expected,
		Actual:          req.Actual,
		Reproducibility: req.Reproducibility,
		ServerInfo:      req.ServerInfo,
		Resources:       req.Resources,
		Logs:            req.Logs,
		OccurredAt:      occurredAt,
		Attachments:     req.Attachments,
		Priority:        string(priority),
		Reporter:        req.Reporter,
		Status:          string(models.DefaultStatus),
		CreatedAt:       time.Now().UTC(),
	}
	if report.Attachments == nil {
		report.Attachments = []models.Attachment{}
	}

	if err := s.store.CreateReport(ctx, &report); err != nil {
		if isUniqueConstraint(err) {
			return models.Report{}, storeFailure(fmt.Errorf("report id collision: %w", err))
		}
		return models.Report{}, storeFailure(err)
	}

	if s.notifier != nil && s.notifier.Enabled() {
		// Detached from the request context so a finished request does not
		// cancel the notification.
		go s.notifier.Notify(context.Background(), report)
	}

	return report, nil
}

// Get fetches a single report.
func (s *ReportService) Get(ctx context.Context, id string) (models.Report, error) {
	if strings.TrimSpace(id) == "" {
		return models.Report{}, badRequest(fmt.Errorf("report id is required"))
	}

	report, err := s.store.GetReport(ctx, id)
	if err != nil {
		return models.Report{}, storeFailure(err)
	}
	if report == nil {
		return models.Report{}, notFound(fmt.Errorf("report %q not found", id))
	}
	return *report, nil
}

// List returns reports newest first, optionally filtered by status. The
// limit is capped at the default page size.
func (s *ReportService) List(ctx context.Context, status string, limit int) ([]models.Report, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	filter := store.ListFilter{Limit: limit}
	if status != "" {
		parsed, err := models.ParseReportStatus(status)
		if err != nil {
			return nil, badRequest(err)
		}
		filter.Status = string(parsed)
	}

	reports, err := s.store.ListReports(ctx, filter)
	if err != nil {
		return nil, storeFailure(err)
	}
	return reports, nil
}

// ChangeStatus transitions a report to a new status. Moving to resolved
// records the resolution time; leaving resolved clears it.
func (s *ReportService) ChangeStatus(ctx context.Context, id, rawStatus string) (models.Report, error) {
	if strings.TrimSpace(id) == "" {
		return models.Report{}, badRequest(fmt.Errorf("report id is required"))
	}
	status, err := models.ParseReportStatus(rawStatus)
	if err != nil {
		return models.Report{}, badRequest(err)
	}

	var resolvedAt *time.Time
	if status == models.StatusResolved {
		now := time.Now().UTC()
		resolvedAt = &now
	}

	affected, err := s.store.UpdateReportStatus(ctx, id, string(status), resolvedAt)
	if err != nil {
		return models.Report{}, storeFailure(err)
	}
	if affected == 0 {
		return models.Report{}, notFound(fmt.Errorf("report %q not found", id))
	}

	report, err := s.store.GetReport(ctx, id)
	if err != nil {
		return models.Report{}, storeFailure(err)
	}
	if report == nil {
		return models.Report{}, notFound(fmt.Errorf("report %q not found", id))
	}
	return *report, nil
}

func parseOccurredAt(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			utc := t.UTC()
			return &utc, nil
		}
	}
	return nil, fmt.Errorf("invalid timestamp %q", raw)
}
