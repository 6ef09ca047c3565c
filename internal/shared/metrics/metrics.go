package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	tailoringStartedTotal   atomic.Uint64
	tailoringCompletedTotal atomic.Uint64
	tailoringFailedTotal    atomic.Uint64
	quotaDeniedTotal        atomic.Uint64
	stageRetriesTotal       atomic.Uint64

	tailoringDuration = newHistogram([]float64{500, 1000, 2000, 5000, 10000, 30000, 60000, 120000, 300000})
)

// IncTailoringStarted increments the started counter.
func IncTailoringStarted() {
	tailoringStartedTotal.Add(1)
}

// IncTailoringCompleted increments the completed counter.
func IncTailoringCompleted() {
	tailoringCompletedTotal.Add(1)
}

// IncTailoringFailed increments the failed counter.
func IncTailoringFailed() {
	tailoringFailedTotal.Add(1)
}

// IncQuotaDenied increments the quota-denied counter.
func IncQuotaDenied() {
	quotaDeniedTotal.Add(1)
}

// IncStageRetry increments the stage-retry counter.
func IncStageRetry() {
	stageRetriesTotal.Add(1)
}

// ObserveTailoringDurationMs records a full tailoring run duration in milliseconds.
func ObserveTailoringDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	tailoringDuration.Observe(value)
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
	writeCounter(&buf, "tailoring_started_total", "Total tailoring runs started", tailoringStartedTotal.Load())
	writeCounter(&buf, "tailoring_completed_total", "Total tailoring runs completed", tailoringCompletedTotal.Load())
	writeCounter(&buf, "tailoring_failed_total", "Total tailoring runs failed", tailoringFailedTotal.Load())
	writeCounter(&buf, "quota_denied_total", "Total tailoring requests denied by quota", quotaDeniedTotal.Load())
	writeCounter(&buf, "stage_retries_total", "Total stage attempts retried", stageRetriesTotal.Load())
	writeHistogram(&buf, "tailoring_duration_ms", "Tailoring run duration in milliseconds", tailoringDuration.Snapshot())
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

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
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

// NowMillis returns current time in milliseconds, useful for callers without time utilities.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
