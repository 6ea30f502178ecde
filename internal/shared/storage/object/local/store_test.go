package local

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"essay-backend/internal/shared/storage/object"
)

func TestSaveOpenDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := New(filepath.Join(dir, "uploads"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	n, err := store.Save(ctx, "essay.txt", strings.NewReader("first draft"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if n != int64(len("first draft")) {
		t.Fatalf("expected size %d, got %d", len("first draft"), n)
	}

	if _, err := store.Save(ctx, "essay.txt", strings.NewReader("v2")); err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}
	rc, err := store.Open(ctx, "essay.txt")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(data) != "v2" {
		t.Fatalf("expected truncated overwrite, got %q", data)
	}

	if err := store.Delete(ctx, "essay.txt"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), "essay.txt")); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, stat err=%v", err)
	}
	if err := store.Delete(ctx, "essay.txt"); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := store.Open(ctx, "essay.txt"); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on open, got %v", err)
	}
}

func TestRejectsEscapingKeys(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, key := range []string{"../outside.txt", "/etc/passwd", "."} {
		if _, err := store.Save(context.Background(), key, strings.NewReader("x")); !errors.Is(err, object.ErrInvalidKey) {
			t.Fatalf("Save(%q) expected ErrInvalidKey, got %v", key, err)
		}
	}
}

func TestAcceptsDotsInsideNames(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, key := range []string{"draft..v2.txt", "..notes.txt"} {
		if _, err := store.Save(context.Background(), key, strings.NewReader("x")); err != nil {
			t.Fatalf("Save(%q): %v", key, err)
		}
	}
}

type brokenReader struct{ sent bool }

func (b *brokenReader) Read(p []byte) (int, error) {
	if b.sent {
		return 0, errors.New("connection reset")
	}
	b.sent = true
	return copy(p, "partial"), nil
}

func TestSaveRemovesPartialFileOnCopyError(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := store.Save(context.Background(), "essay.txt", &brokenReader{}); err == nil {
		t.Fatalf("expected copy error")
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), "essay.txt")); !os.IsNotExist(err) {
		t.Fatalf("expected partial file removed, stat err=%v", err)
	}
}
