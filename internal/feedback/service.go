package feedback

import (
	"context"
	"io"
	"strings"
	"time"

	"essay-backend/internal/cleanup"
	"essay-backend/internal/extract"
	"essay-backend/internal/llm"
	"essay-backend/internal/shared/keylock"
	"essay-backend/internal/shared/metrics"
	"essay-backend/internal/shared/storage/object"
	"essay-backend/internal/shared/telemetry"
	"essay-backend/internal/shared/util"
)

const DefaultCleanupDelay = 30 * time.Second

// Scheduler arms and cancels delayed deletion of stored uploads.
type Scheduler interface {
	Schedule(key string, delay time.Duration) cleanup.Handle
	Cancel(key string) bool
}

// Service runs the feedback pipeline for raw articles and uploaded files.
type Service struct {
	LLM           llm.Client
	Store         object.Store
	Log           Log
	Cleanup       Scheduler
	CleanupDelay  time.Duration
	PromptVersion string
	// Locks is shared with the cleanup scheduler so a due deletion cannot
	// land between an upload's save and read-back.
	Locks *keylock.Map

	locks keylock.Map
}

// Upload is one multipart file as received by the handler.
type Upload struct {
	FileName    string
	ContentType string
	Body        io.Reader
}

// UploadResult is what the upload pipeline produced.
type UploadResult struct {
	Key      string
	Size     int64
	Text     string
	Feedback string
	Cleanup  cleanup.Handle
}

// Generate builds the prompt for article and returns the model text verbatim.
func (s *Service) Generate(ctx context.Context, article string) (string, error) {
	if strings.TrimSpace(article) == "" {
		return "", validation("feedback.generate", ErrArticleRequired)
	}
	metrics.IncFeedbackRequests()

	prompt := llm.BuildPrompt(s.PromptVersion, article)
	start := time.Now()
	text, err := s.LLM.Generate(ctx, prompt)
	elapsed := time.Since(start)
	metrics.ObserveModelCallMs(float64(elapsed.Milliseconds()))

	fields := map[string]any{
		"prompt_version": s.PromptVersion,
		"prompt_hash":    util.HashText(prompt),
		"article_len":    len(article),
		"duration_ms":    elapsed.Milliseconds(),
	}
	if err != nil {
		metrics.IncFeedbackFailed()
		fields["error"] = err
		telemetry.Error("feedback.model_failed", fields)
		return "", external("feedback.generate", err)
	}
	fields["response_len"] = len(text)
	telemetry.Info("feedback.generated", fields)
	return text, nil
}

// GenerateFromUpload stores the upload under its sanitized name, reads it back,
// generates feedback for its text and schedules the stored copy for deletion.
// The deletion is armed whenever the store was touched, even if a later step fails.
func (s *Service) GenerateFromUpload(ctx context.Context, up Upload) (UploadResult, error) {
	if up.Body == nil {
		return UploadResult{}, validation("feedback.upload", ErrFileRequired)
	}
	key, err := util.SanitizeFileName(up.FileName)
	if err != nil {
		return UploadResult{}, validation("feedback.upload", err)
	}
	metrics.IncUploads()

	res := UploadResult{Key: key}
	data, err := s.storeAndRead(ctx, key, up.Body, &res)
	if err != nil {
		return res, err
	}

	text, err := extract.ExtractText(ctx, data, key, up.ContentType)
	if err != nil {
		return res, ioErr("feedback.extract", err)
	}
	res.Text = text

	out, err := s.Generate(ctx, text)
	if err != nil {
		return res, err
	}
	res.Feedback = out

	if s.Log != nil {
		if err := s.Log.Append(ctx, out); err != nil {
			telemetry.Warn("feedback.log_failed", map[string]any{
				"key":   key,
				"error": err,
			})
		}
	}
	return res, nil
}

// storeAndRead saves and reads back key while holding its lock, so neither a
// concurrent upload of the same name nor a due deletion can interleave between
// the two steps. Any pending deletion for key is dropped before the save and
// re-armed once the read finishes, whatever the outcome, since a failed save
// may still leave a partial or earlier object behind.
func (s *Service) storeAndRead(ctx context.Context, key string, body io.Reader, res *UploadResult) ([]byte, error) {
	unlock := s.lockKey(key)
	defer unlock()

	if s.Cleanup != nil {
		s.Cleanup.Cancel(key)
	}
	defer func() { res.Cleanup = s.scheduleCleanup(key) }()

	size, err := s.Store.Save(ctx, key, body)
	res.Size = size
	if err != nil {
		return nil, ioErr("feedback.save", err)
	}

	rc, err := s.Store.Open(ctx, key)
	if err != nil {
		return nil, ioErr("feedback.read", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, ioErr("feedback.read", err)
	}
	return data, nil
}

func (s *Service) lockKey(key string) func() {
	if s.Locks != nil {
		return s.Locks.Lock(key)
	}
	return s.locks.Lock(key)
}

func (s *Service) scheduleCleanup(key string) cleanup.Handle {
	if s.Cleanup == nil {
		return cleanup.Handle{}
	}
	delay := s.CleanupDelay
	if delay <= 0 {
		delay = DefaultCleanupDelay
	}
	return s.Cleanup.Schedule(key, delay)
}
