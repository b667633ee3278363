package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"bugdesk/internal/models"
)

// testStore creates a temporary store for testing.
func testStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func testReport(id string, createdAt time.Time) *models.Report {
	return &models.Report{
		ID:        id,
		Title:     "Crash on save",
		Priority:  string(models.PriorityMedium),
		Status:    string(models.StatusOpen),
		CreatedAt: createdAt,
	}
}

func TestCreateAndGetReport(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	occurred := now.Add(-time.Hour)

	report := testReport("r-1", now)
	report.Description = "Editor crashes when saving large files"
	report.Steps = "1. open large file\n2. save"
	report.OccurredAt = &occurred
	report.Attachments = []models.Attachment{
		{Path: "123_abcd_log.txt", URL: "http://example/log.txt", Filename: "log.txt"},
	}

	if err := st.CreateReport(ctx, report); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := st.GetReport(ctx, "r-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected report, got nil")
	}
	if got.Title != "Crash on save" {
		t.Fatalf("expected title, got %q", got.Title)
	}
	if got.Status != "open" {
		t.Fatalf("expected status 'open', got %q", got.Status)
	}
	if got.OccurredAt == nil || !got.OccurredAt.Equal(occurred) {
		t.Fatalf("expected occurred_at %v, got %v", occurred, got.OccurredAt)
	}
	if len(got.Attachments) != 1 || got.Attachments[0].Filename != "log.txt" {
		t.Fatalf("unexpected attachments: %+v", got.Attachments)
	}
	if got.ResolvedAt != nil {
		t.Fatalf("expected nil resolved_at, got %v", got.ResolvedAt)
	}
}

func TestCreateReportRequiresID(t *testing.T) {
	st := testStore(t)
	report := testReport("", time.Now().UTC())
	if err := st.CreateReport(context.Background(), report); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestCreateReportDuplicateID(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := st.CreateReport(ctx, testReport("r-dup", now)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := st.CreateReport(ctx, testReport("r-dup", now)); err == nil {
		t.Fatal("expected unique constraint error")
	}
}

func TestGetReportMissing(t *testing.T) {
	st := testStore(t)
	got, err := st.GetReport(context.Background(), "r-missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestListReportsOrderAndFilter(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	oldest := testReport("r-old", base.Add(-2*time.Hour))
	middle := testReport("r-mid", base.Add(-time.Hour))
	middle.Status = string(models.StatusResolved)
	newest := testReport("r-new", base)

	for _, report := range []*models.Report{oldest, middle, newest} {
		if err := st.CreateReport(ctx, report); err != nil {
			t.Fatalf("create %s: %v", report.ID, err)
		}
	}

	t.Run("newest first", func(t *testing.T) {
		got, err := st.ListReports(ctx, ListFilter{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 reports, got %d", len(got))
		}
		if got[0].ID != "r-new" || got[2].ID != "r-old" {
			t.Fatalf("unexpected order: %s, %s, %s", got[0].ID, got[1].ID, got[2].ID)
		}
	})

	t.Run("status filter", func(t *testing.T) {
		got, err := st.ListReports(ctx, ListFilter{Status: "resolved"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 1 || got[0].ID != "r-mid" {
			t.Fatalf("unexpected filter result: %+v", got)
		}
	})

	t.Run("limit", func(t *testing.T) {
		got, err := st.ListReports(ctx, ListFilter{Limit: 2})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 reports, got %d", len(got))
		}
	})
}

func TestUpdateReportStatus(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	if err := st.CreateReport(ctx, testReport("r-up", now)); err != nil {
		t.Fatalf("create: %v", err)
	}

	resolvedAt := now.Add(time.Minute)
	affected, err := st.UpdateReportStatus(ctx, "r-up", "resolved", &resolvedAt)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 row affected, got %d", affected)
	}

	got, err := st.GetReport(ctx, "r-up")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != "resolved" {
		t.Fatalf("expected status 'resolved', got %q", got.Status)
	}
	if got.ResolvedAt == nil || !got.ResolvedAt.Equal(resolvedAt) {
		t.Fatalf("expected resolved_at %v, got %v", resolvedAt, got.ResolvedAt)
	}

	// Reopening clears the resolution stamp in the same statement.
	affected, err = st.UpdateReportStatus(ctx, "r-up", "open", nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 row affected, got %d", affected)
	}

	got, err = st.GetReport(ctx, "r-up")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != "open" {
		t.Fatalf("expected status 'open', got %q", got.Status)
	}
	if got.ResolvedAt != nil {
		t.Fatalf("expected resolved_at cleared, got %v", got.ResolvedAt)
	}
}

func TestUpdateReportStatusUnknownID(t *testing.T) {
	st := testStore(t)
	affected, err := st.UpdateReportStatus(context.Background(), "r-none", "open", nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected 0 rows affected, got %d", affected)
	}
}

func TestReportExists(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	ok, err := st.ReportExists("r-x")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if ok {
		t.Fatal("expected report to not exist")
	}

	if err := st.CreateReport(ctx, testReport("r-x", time.Now().UTC())); err != nil {
		t.Fatalf("create: %v", err)
	}

	ok, err = st.ReportExists("r-x")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !ok {
		t.Fatal("expected report to exist")
	}
}
