package main

import (
	"errors"
	"strings"
	"testing"

	"bugdesk/internal/api"
)

func TestFormatCLIError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		if lines := formatCLIError(nil); lines != nil {
			t.Fatalf("expected nil, got %v", lines)
		}
	})

	t.Run("plain error", func(t *testing.T) {
		lines := formatCLIError(errors.New("boom"))
		if len(lines) != 1 || lines[0] != "boom" {
			t.Fatalf("unexpected lines %v", lines)
		}
	})

	t.Run("server error hint", func(t *testing.T) {
		err := &api.APIError{Status: 500, Code: "internal", Message: "internal error"}
		lines := formatCLIError(err)
		if len(lines) < 2 {
			t.Fatalf("expected hint, got %v", lines)
		}
		if !strings.Contains(strings.Join(lines, "\n"), "server logs") {
			t.Fatalf("expected server log hint, got %v", lines)
		}
	})

	t.Run("codeless api error hint", func(t *testing.T) {
		err := &api.APIError{Status: 502, Message: "bad gateway"}
		joined := strings.Join(formatCLIError(err), "\n")
		if !strings.Contains(joined, "BUGDESK_API_URL") {
			t.Fatalf("expected api url hint, got %q", joined)
		}
	})
}

func TestUniqueLines(t *testing.T) {
	got := uniqueLines([]string{"a", "", "b", "a", "b"})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected %v", got)
	}
}
