package feedback

import (
	"context"
	"io"
	"sync"
	"time"

	"essay-backend/internal/cleanup"
	"essay-backend/internal/shared/storage/object/memory"
)

type stubLLM struct {
	mu      sync.Mutex
	resp    string
	err     error
	prompts []string
}

func (s *stubLLM) Generate(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.resp, nil
}

func (s *stubLLM) lastPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.prompts) == 0 {
		return ""
	}
	return s.prompts[len(s.prompts)-1]
}

type recordingScheduler struct {
	mu       sync.Mutex
	keys     []string
	delays   []time.Duration
	canceled []string
}

func (r *recordingScheduler) Cancel(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.canceled = append(r.canceled, key)
	return false
}

func (r *recordingScheduler) Schedule(key string, delay time.Duration) cleanup.Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, key)
	r.delays = append(r.delays, delay)
	return cleanup.Handle{ID: "h-" + key, Key: key}
}

func (r *recordingScheduler) scheduled() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.keys...)
}

// slowOpenStore delays every read-back so a timer can come due mid-upload.
type slowOpenStore struct {
	*memory.Store
	delay time.Duration
}

func (s *slowOpenStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	time.Sleep(s.delay)
	return s.Store.Open(ctx, key)
}

type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }

type memLog struct {
	mu      sync.Mutex
	entries []string
	err     error
}

func (m *memLog) Append(ctx context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, text)
	return nil
}
