package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"bugdesk/internal/api"
	"bugdesk/internal/models"
	"bugdesk/internal/store"
)

type fakeNotifier struct {
	mu      sync.Mutex
	reports []models.Report
	done    chan struct{}
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{done: make(chan struct{}, 8)}
}

func (f *fakeNotifier) Enabled() bool { return true }

func (f *fakeNotifier) Notify(ctx context.Context, report models.Report) {
	f.mu.Lock()
	f.reports = append(f.reports, report)
	f.mu.Unlock()
	f.done <- struct{}{}
}

func (f *fakeNotifier) wait(t *testing.T) models.Report {
	t.Helper()
	select {
	case <-f.done:
	case <-time.After(5 * time.Second):
		t.Fatal("notifier was not invoked")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reports[len(f.reports)-1]
}

func testReportStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "bugdesk.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testReportService(t *testing.T) (*ReportService, *fakeNotifier) {
	t.Helper()
	notifier := newFakeNotifier()
	svc := &ReportService{store: testReportStore(t), notifier: notifier, logger: testLogger()}
	return svc, notifier
}

func TestSubmit(t *testing.T) {
	svc, notifier := testReportService(t)
	ctx := context.Background()

	report, err := svc.Submit(ctx, api.ReportCreateRequest{
		Title:       "  crash on save  ",
		Description: "editor crashes",
		Priority:    "high",
		Timestamp:   "2026-08-30T12:00:00Z",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if report.ID == "" {
		t.Fatal("expected generated id")
	}
	if report.Title != "crash on save" {
		t.Fatalf("title not trimmed: %q", report.Title)
	}
	if report.Status != string(models.StatusOpen) {
		t.Fatalf("expected open status, got %q", report.Status)
	}
	if report.Priority != string(models.PriorityHigh) {
		t.Fatalf("expected High priority, got %q", report.Priority)
	}
	if report.OccurredAt == nil || !report.OccurredAt.Equal(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("wrong occurred_at %v", report.OccurredAt)
	}

	notified := notifier.wait(t)
	if notified.ID != report.ID {
		t.Fatalf("notifier saw %q, want %q", notified.ID, report.ID)
	}

	stored, err := svc.Get(ctx, report.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Title != report.Title {
		t.Fatalf("stored title %q", stored.Title)
	}
}

func TestSubmitValidation(t *testing.T) {
	svc, _ := testReportService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  api.ReportCreateRequest
	}{
		{"missing title", api.ReportCreateRequest{}},
		{"blank title", api.ReportCreateRequest{Title: "   "}},
		{"bad priority", api.ReportCreateRequest{Title: "t", Priority: "urgent"}},
		{"bad timestamp", api.ReportCreateRequest{Title: "t", Timestamp: "yesterday"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, tc.req)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := httpStatusFromError(err); got != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", got)
			}
		})
	}

	// Rejected submissions must not reach the store.
	reports, err := svc.List(ctx, "", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(reports) != 0 {
		t.Fatalf("expected empty store, got %d reports", len(reports))
	}
}

func TestSubmitDefaults(t *testing.T) {
	svc := &ReportService{store: testReportStore(t), logger: testLogger()}

	report, err := svc.Submit(context.Background(), api.ReportCreateRequest{Title: "t"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if report.Priority != string(models.DefaultPriority) {
		t.Fatalf("expected default priority, got %q", report.Priority)
	}
	if report.OccurredAt != nil {
		t.Fatalf("expected nil occurred_at, got %v", report.OccurredAt)
	}
	if report.Attachments == nil || len(report.Attachments) != 0 {
		t.Fatalf("expected empty attachments, got %v", report.Attachments)
	}
}

func TestChangeStatus(t *testing.T) {
	svc, _ := testReportService(t)
	ctx := context.Background()

	report, err := svc.Submit(ctx, api.ReportCreateRequest{Title: "t"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	updated, err := svc.ChangeStatus(ctx, report.ID, "in_progress")
	if err != nil {
		t.Fatalf("change status: %v", err)
	}
	if updated.Status != string(models.StatusInProgress) {
		t.Fatalf("expected in_progress, got %q", updated.Status)
	}
	if updated.ResolvedAt != nil {
		t.Fatalf("unexpected resolved_at %v", updated.ResolvedAt)
	}

	resolved, err := svc.ChangeStatus(ctx, report.ID, "resolved")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Status != string(models.StatusResolved) || resolved.ResolvedAt == nil {
		t.Fatalf("expected resolved with timestamp, got %q %v", resolved.Status, resolved.ResolvedAt)
	}

	reopened, err := svc.ChangeStatus(ctx, report.ID, "open")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Status != string(models.StatusOpen) {
		t.Fatalf("expected open, got %q", reopened.Status)
	}
	if reopened.ResolvedAt != nil {
		t.Fatalf("reopen must clear resolved_at, got %v", reopened.ResolvedAt)
	}
}

func TestChangeStatusErrors(t *testing.T) {
	svc, _ := testReportService(t)
	ctx := context.Background()

	t.Run("unknown report", func(t *testing.T) {
		_, err := svc.ChangeStatus(ctx, "nope", "resolved")
		if got := httpStatusFromError(err); got != http.StatusNotFound {
			t.Fatalf("expected 404, got %d (%v)", got, err)
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		report, err := svc.Submit(ctx, api.ReportCreateRequest{Title: "t"})
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		_, err = svc.ChangeStatus(ctx, report.ID, "closed")
		if got := httpStatusFromError(err); got != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d (%v)", got, err)
		}
	})
}

func TestListByStatus(t *testing.T) {
	svc, _ := testReportService(t)
	ctx := context.Background()

	first, err := svc.Submit(ctx, api.ReportCreateRequest{Title: "first"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Submit(ctx, api.ReportCreateRequest{Title: "second"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.ChangeStatus(ctx, first.ID, "resolved"); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	open, err := svc.List(ctx, "open", 0)
	if err != nil {
		t.Fatalf("list open: %v", err)
	}
	if len(open) != 1 || open[0].Title != "second" {
		t.Fatalf("unexpected open list %v", open)
	}

	all, err := svc.List(ctx, "", 0)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(all))
	}

	if _, err := svc.List(ctx, "bogus", 0); err == nil {
		t.Fatal("expected error for bogus status filter")
	}
}
