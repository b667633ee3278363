package api

import (
	"encoding/json"
	"testing"
)

func TestAttachmentListNormalization(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		var l AttachmentList
		payload := `[{"path":"p1","url":"u1","filename":"f1"},{"path":"p2","url":"u2","filename":"f2"}]`
		if err := json.Unmarshal([]byte(payload), &l); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(l) != 2 || l[0].Path != "p1" || l[1].Filename != "f2" {
			t.Fatalf("unexpected result: %+v", l)
		}
	})

	t.Run("single object", func(t *testing.T) {
		var l AttachmentList
		payload := `{"path":"p1","url":"u1","filename":"f1"}`
		if err := json.Unmarshal([]byte(payload), &l); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(l) != 1 || l[0].URL != "u1" {
			t.Fatalf("unexpected result: %+v", l)
		}
	})

	t.Run("json-encoded string", func(t *testing.T) {
		var l AttachmentList
		payload := `"[{\"path\":\"p1\",\"url\":\"u1\",\"filename\":\"f1\"}]"`
		if err := json.Unmarshal([]byte(payload), &l); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(l) != 1 || l[0].Path != "p1" {
			t.Fatalf("unexpected result: %+v", l)
		}
	})

	t.Run("null and empty string", func(t *testing.T) {
		for _, payload := range []string{`null`, `""`} {
			var l AttachmentList
			if err := json.Unmarshal([]byte(payload), &l); err != nil {
				t.Fatalf("unmarshal %q: %v", payload, err)
			}
			if len(l) != 0 {
				t.Fatalf("expected empty list for %q, got %+v", payload, l)
			}
		}
	})

	t.Run("rejects junk", func(t *testing.T) {
		for _, payload := range []string{`42`, `[1,2]`, `"not json"`, `"\"double wrapped\""`} {
			var l AttachmentList
			if err := json.Unmarshal([]byte(payload), &l); err == nil {
				t.Fatalf("expected error for %q", payload)
			}
		}
	})

	t.Run("unknown fields dropped", func(t *testing.T) {
		var l AttachmentList
		payload := `[{"path":"p1","url":"u1","filename":"f1","size":99}]`
		if err := json.Unmarshal([]byte(payload), &l); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(l) != 1 || l[0].Path != "p1" {
			t.Fatalf("unexpected result: %+v", l)
		}
	})
}
