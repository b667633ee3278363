package models

import "time"

// Report represents a single bug submission.
type Report struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description,omitempty"`
	Steps           string       `json:"steps,omitempty"`
	Expected        string       `json:"expected,omitempty"`
	Actual          string       `json:"actual,omitempty"`
	Reproducibility string       `json:"reproducibility,omitempty"`
	ServerInfo      string       `json:"server_info,omitempty"`
	Resources       string       `json:"resources,omitempty"`
	Logs            string       `json:"logs,omitempty"`
	OccurredAt      *time.Time   `json:"occurred_at,omitempty"`
	Attachments     []Attachment `json:"attachments"`
	Priority        string       `json:"priority"`
	Reporter        string       `json:"reporter,omitempty"`
	Status          string       `json:"status"`
	CreatedAt       time.Time    `json:"created_at"`
	ResolvedAt      *time.Time   `json:"resolved_at,omitempty"`
}

// Attachment is a by-value reference to an uploaded blob. The report carries
// the signed URL as produced at upload time; no referential integrity is kept
// between a report and the continued existence of the blob.
type Attachment struct {
	Path     string `json:"path"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}
