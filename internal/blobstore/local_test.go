package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func testLocalStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}
	return s
}

func TestPutAndOpen(t *testing.T) {
	s := testLocalStore(t)
	ctx := context.Background()
	payload := []byte("segmentation fault at 0x0")

	n, err := s.Put(ctx, "1700000000000_aaaa_crash.log", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if n != int64(len(payload)) {
		t.Fatalf("expected %d bytes written, got %d", len(payload), n)
	}

	rc, err := s.Open(ctx, "1700000000000_aaaa_crash.log")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("expected %q, got %q", payload, got)
	}

	size, err := s.Stat(ctx, "1700000000000_aaaa_crash.log")
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if size != int64(len(payload)) {
		t.Fatalf("expected size %d, got %d", len(payload), size)
	}
}

func TestPutRefusesOverwrite(t *testing.T) {
	s := testLocalStore(t)
	ctx := context.Background()

	if _, err := s.Put(ctx, "dup.log", strings.NewReader("first")); err != nil {
		t.Fatalf("put: %v", err)
	}
	_, err := s.Put(ctx, "dup.log", strings.NewReader("second"))
	if !errors.Is(err, ErrKeyExists) {
		t.Fatalf("expected ErrKeyExists, got %v", err)
	}

	rc, err := s.Open(ctx, "dup.log")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	if string(got) != "first" {
		t.Fatalf("expected original content preserved, got %q", got)
	}
}

func TestInvalidKeys(t *testing.T) {
	s := testLocalStore(t)
	ctx := context.Background()

	for _, key := range []string{"", "/abs.log", "../escape", "a/../../b", "tmp"} {
		if _, err := s.Put(ctx, key, strings.NewReader("x")); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
		if _, err := s.Open(ctx, key); err == nil {
			t.Fatalf("expected open error for key %q", key)
		}
	}
}

func TestOpenMissing(t *testing.T) {
	s := testLocalStore(t)
	if _, err := s.Open(context.Background(), "nope.log"); err == nil {
		t.Fatal("expected error for missing blob")
	}
}
