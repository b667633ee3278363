package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"bugdesk/internal/models"
)

// ListFilter restricts ListReports output.
type ListFilter struct {
	Status string
	Limit  int
}

// CreateReport inserts a report record. The caller must have assigned the id;
// a missing id is rejected rather than silently generated here.
func (s *Store) CreateReport(ctx context.Context, report *models.Report) error {
	if report == nil {
		return fmt.Errorf("report is required")
	}
	if strings.TrimSpace(report.ID) == "" {
		return fmt.Errorf("report id is required")
	}

	attachments, err := marshalAttachments(report.Attachments)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports (
			id, title, description, steps, expected, actual, reproducibility,
			server_info, resources, logs, occurred_at, attachments, priority,
			reporter, status, created_at, resolved_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		report.ID,
		report.Title,
		nullIfEmpty(report.Description),
		nullIfEmpty(report.Steps),
		nullIfEmpty(report.Expected),
		nullIfEmpty(report.Actual),
		nullIfEmpty(report.Reproducibility),
		nullIfEmpty(report.ServerInfo),
		nullIfEmpty(report.Resources),
		nullIfEmpty(report.Logs),
		nullTime(report.OccurredAt),
		attachments,
		report.Priority,
		nullIfEmpty(report.Reporter),
		report.Status,
		formatTime(report.CreatedAt),
		nullTime(report.ResolvedAt),
	)
	return err
}

// GetReport returns a report by id, or nil when absent.
func (s *Store) GetReport(ctx context.Context, id string) (*models.Report, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" FROM reports WHERE id = ?", id)
	return scanReport(row)
}

// ListReports returns reports matching the filter, newest first.
func (s *Store) ListReports(ctx context.Context, filter ListFilter) ([]models.Report, error) {
	query := selectColumns + " FROM reports"
	args := []any{}

	if filter.Status != "" {
		query += " WHERE status = ?"
		args = append(args, filter.Status)
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, rows.Err()
}

// UpdateReportStatus writes status and resolved_at in a single statement so
// the pair is atomic from the caller's perspective. Returns rows affected.
func (s *Store) UpdateReportStatus(ctx context.Context, id string, status string, resolvedAt *time.Time) (int64, error) {
	if id == "" {
		return 0, fmt.Errorf("id is required")
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE reports SET status = ?, resolved_at = ? WHERE id = ?",
		status, nullTime(resolvedAt), id,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const selectColumns = `SELECT id, title, description, steps, expected, actual, reproducibility,
	server_info, resources, logs, occurred_at, attachments, priority, reporter,
	status, created_at, resolved_at`

func scanReport(scanner interface {
	Scan(dest ...any) error
}) (*models.Report, error) {
	var report models.Report
	var description, steps, expected, actual, reproducibility sql.NullString
	var serverInfo, resources, logs, reporter sql.NullString
	var occurredAt, resolvedAt sql.NullString
	var attachments, createdAt string

	if err := scanner.Scan(
		&report.ID,
		&report.Title,
		&description,
		&steps,
		&expected,
		&actual,
		&reproducibility,
		&serverInfo,
		&resources,
		&logs,
		&occurredAt,
		&attachments,
		&report.Priority,
		&reporter,
		&report.Status,
		&createdAt,
		&resolvedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	report.Description = description.String
	report.Steps = steps.String
	report.Expected = expected.String
	report.Actual = actual.String
	report.Reproducibility = reproducibility.String
	report.ServerInfo = serverInfo.String
	report.Resources = resources.String
	report.Logs = logs.String
	report.Reporter = reporter.String

	if err := json.Unmarshal([]byte(attachments), &report.Attachments); err != nil {
		return nil, fmt.Errorf("decode attachments for %s: %w", report.ID, err)
	}
	if report.Attachments == nil {
		report.Attachments = []models.Attachment{}
	}

	parsedCreated, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	report.CreatedAt = parsedCreated

	if occurredAt.Valid {
		parsed, err := parseTime(occurredAt.String)
		if err != nil {
			return nil, err
		}
		report.OccurredAt = &parsed
	}
	if resolvedAt.Valid {
		parsed, err := parseTime(resolvedAt.String)
		if err != nil {
			return nil, err
		}
		report.ResolvedAt = &parsed
	}

	return &report, nil
}

func marshalAttachments(attachments []models.Attachment) (string, error) {
	if attachments == nil {
		attachments = []models.Attachment{}
	}
	encoded, err := json.Marshal(attachments)
	if err != nil {
		return "", fmt.Errorf("encode attachments: %w", err)
	}
	return string(encoded), nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullTime(value *time.Time) any {
	if value == nil || value.IsZero() {
		return nil
	}
	return formatTime(*value)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}
