package api

import (
	"encoding/json"
	"fmt"

	"bugdesk/internal/models"
)

// ReportCreateRequest is the JSON payload for creating a report. Server-owned
// fields (id, status, created_at, resolved_at) are not accepted here.
type ReportCreateRequest struct {
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Steps           string         `json:"steps"`
	Expected        string         `json:"expected"`
	Actual          string         `json:"actual"`
	Reproducibility string         `json:"reproducibility"`
	ServerInfo      string         `json:"serverInfo"`
	Resources       string         `json:"resources"`
	Logs            string         `json:"logs"`
	Timestamp       string         `json:"timestamp"`
	Attachments     AttachmentList `json:"attachments"`
	Priority        string         `json:"priority"`
	Reporter        string         `json:"reporter"`
}

// ReportStatusRequest is the JSON payload for a status transition.
type ReportStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ReportResponse wraps a single report.
type ReportResponse struct {
	Report models.Report `json:"report"`
}

// ReportListResponse wraps a report listing.
type ReportListResponse struct {
	Reports []models.Report `json:"reports"`
}

// UploadResponse wraps the attachment references produced by an upload.
type UploadResponse struct {
	Uploaded []models.Attachment `json:"uploaded"`
}

// ErrorResponse is a generic JSON error wrapper.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// AttachmentList normalizes the loose attachment shapes seen in historical
// payloads: a JSON array, a single object, or a JSON-encoded string of
// either. Ambiguous shapes never cross into the domain model.
type AttachmentList []models.Attachment

func (l *AttachmentList) UnmarshalJSON(data []byte) error {
	normalized, err := normalizeAttachments(data, false)
	if err != nil {
		return err
	}
	*l = normalized
	return nil
}

func normalizeAttachments(data []byte, unwrapped bool) ([]models.Attachment, error) {
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}

	switch value := probe.(type) {
	case nil:
		return []models.Attachment{}, nil
	case string:
		if unwrapped {
			return nil, fmt.Errorf("attachments: nested string encoding")
		}
		if value == "" {
			return []models.Attachment{}, nil
		}
		return normalizeAttachments([]byte(value), true)
	case []any:
		out := make([]models.Attachment, 0, len(value))
		for _, item := range value {
			attachment, err := decodeAttachmentObject(item)
			if err != nil {
				return nil, err
			}
			out = append(out, attachment)
		}
		return out, nil
	case map[string]any:
		attachment, err := decodeAttachmentObject(value)
		if err != nil {
			return nil, err
		}
		return []models.Attachment{attachment}, nil
	default:
		return nil, fmt.Errorf("attachments: unsupported shape %T", probe)
	}
}

func decodeAttachmentObject(item any) (models.Attachment, error) {
	var zero models.Attachment
	obj, ok := item.(map[string]any)
	if !ok {
		return zero, fmt.Errorf("attachments: element is not an object")
	}
	return models.Attachment{
		Path:     stringField(obj, "path"),
		URL:      stringField(obj, "url"),
		Filename: stringField(obj, "filename"),
	}, nil
}

func stringField(obj map[string]any, key string) string {
	if value, ok := obj[key].(string); ok {
		return value
	}
	return ""
}
