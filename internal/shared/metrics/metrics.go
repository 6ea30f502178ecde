package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	feedbackRequestsTotal atomic.Uint64
	feedbackFailedTotal   atomic.Uint64
	uploadsTotal          atomic.Uint64
	cleanupDeletedTotal   atomic.Uint64
	cleanupFailedTotal    atomic.Uint64

	modelCallDuration = newHistogram([]float64{250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncFeedbackRequests increments the feedback request counter.
func IncFeedbackRequests() {
	feedbackRequestsTotal.Add(1)
}

// IncFeedbackFailed increments the failed feedback counter.
func IncFeedbackFailed() {
	feedbackFailedTotal.Add(1)
}

// IncUploads increments the accepted upload counter.
func IncUploads() {
	uploadsTotal.Add(1)
}

// IncCleanupDeleted increments the cleaned-up upload counter.
func IncCleanupDeleted() {
	cleanupDeletedTotal.Add(1)
}

// IncCleanupFailed increments the failed cleanup counter.
func IncCleanupFailed() {
	cleanupFailedTotal.Add(1)
}

// ObserveModelCallMs records a model call duration in milliseconds.
func ObserveModelCallMs(value float64) {
	if value < 0 {
		value = 0
	}
	modelCallDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "feedback_requests_total", "Total feedback generations attempted", feedbackRequestsTotal.Load())
	writeCounter(&buf, "feedback_failed_total", "Total feedback generations failed", feedbackFailedTotal.Load())
	writeCounter(&buf, "uploads_total", "Total essay files accepted", uploadsTotal.Load())
	writeCounter(&buf, "cleanup_deleted_total", "Total uploaded files removed by cleanup", cleanupDeletedTotal.Load())
	writeCounter(&buf, "cleanup_failed_total", "Total cleanup deletions that failed", cleanupFailedTotal.Load())
	writeHistogram(&buf, "model_call_duration_ms", "Model call duration in milliseconds", modelCallDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe places value in the first bucket whose bound it does not exceed.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
