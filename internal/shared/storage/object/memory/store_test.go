package memory

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"essay-backend/internal/shared/storage/object"
)

func TestStoreSaveOpenDelete(t *testing.T) {
	ctx := context.Background()
	s := New()

	n, err := s.Save(ctx, "essay.txt", strings.NewReader("hello"))
	if err != nil || n != 5 {
		t.Fatalf("Save: n=%d err=%v", n, err)
	}
	if _, err := s.Save(ctx, "essay.txt", strings.NewReader("replaced")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	rc, err := s.Open(ctx, "essay.txt")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != "replaced" {
		t.Fatalf("expected last write to win, got %q", body)
	}

	if err := s.Delete(ctx, "essay.txt"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if s.Has("essay.txt") {
		t.Fatalf("key still present after delete")
	}
	if _, err := s.Open(ctx, "essay.txt"); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Save(ctx, "", strings.NewReader("x")); !errors.Is(err, object.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}
