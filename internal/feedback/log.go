package feedback

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Log receives successful feedback text. It is write-only.
type Log interface {
	Append(ctx context.Context, text string) error
}

// NopLog discards everything.
type NopLog struct{}

func (NopLog) Append(ctx context.Context, text string) error { return nil }

// FileLog appends feedback entries to a local file.
type FileLog struct {
	path string
	mu   sync.Mutex
}

// NewFileLog returns a FileLog for path, or a NopLog when path is empty.
func NewFileLog(path string) Log {
	if path == "" {
		return NopLog{}
	}
	return &FileLog{path: path}
}

func (l *FileLog) Path() string { return l.path }

func (l *FileLog) Append(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("feedback log mkdir: %w", err)
		}
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("feedback log open: %w", err)
	}
	if _, err := f.WriteString(text + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("feedback log write: %w", err)
	}
	return f.Close()
}
