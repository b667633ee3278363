package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"bugdesk/internal/models"
)

func writeJSON(payload any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}

func writeReportList(reports []models.Report) error {
	for _, report := range reports {
		if err := writePlain("%s\n", formatReportLine(report)); err != nil {
			return err
		}
	}
	return nil
}

func writeReportDetail(report models.Report) error {
	lines := []string{
		fmt.Sprintf("id: %s", report.ID),
		fmt.Sprintf("title: %s", report.Title),
		fmt.Sprintf("status: %s", report.Status),
		fmt.Sprintf("priority: %s", report.Priority),
		fmt.Sprintf("created_at: %s", formatTime(report.CreatedAt)),
	}

	if report.Reporter != "" {
		lines = append(lines, fmt.Sprintf("reporter: %s", report.Reporter))
	}
	if report.OccurredAt != nil {
		lines = append(lines, fmt.Sprintf("occurred_at: %s", formatTime(*report.OccurredAt)))
	}
	if report.ResolvedAt != nil {
		lines = append(lines, fmt.Sprintf("resolved_at: %s", formatTime(*report.ResolvedAt)))
	}
	if report.Description != "" {
		lines = append(lines, fmt.Sprintf("description: %s", report.Description))
	}
	if report.Steps != "" {
		lines = append(lines, fmt.Sprintf("steps: %s", report.Steps))
	}
	if report.Expected != "" {
		lines = append(lines, fmt.Sprintf("expected: %s", report.Expected))
	}
	if report.Actual != "" {
		lines = append(lines, fmt.Sprintf("actual: %s", report.Actual))
	}
	if report.Reproducibility != "" {
		lines = append(lines, fmt.Sprintf("reproducibility: %s", report.Reproducibility))
	}
	if report.ServerInfo != "" {
		lines = append(lines, fmt.Sprintf("server_info: %s", report.ServerInfo))
	}
	if report.Resources != "" {
		lines = append(lines, fmt.Sprintf("resources: %s", report.Resources))
	}
	if report.Logs != "" {
		lines = append(lines, fmt.Sprintf("logs: %s", report.Logs))
	}

	if len(report.Attachments) > 0 {
		lines = append(lines, "attachments:")
		for _, att := range report.Attachments {
			lines = append(lines, fmt.Sprintf("  - %s: %s", att.Filename, att.URL))
		}
	}

	return writePlain("%s\n", strings.Join(lines, "\n"))
}

func formatReportLine(report models.Report) string {
	marker := "○"
	switch report.Status {
	case string(models.StatusInProgress):
		marker = "◐"
	case string(models.StatusResolved):
		marker = "●"
	}
	return fmt.Sprintf("%s %s [%s] [%s] - %s", marker, report.ID, report.Priority, report.Status, report.Title)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
