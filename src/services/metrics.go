package services

import (
	"sync"
	"time"

	"github.com/username/polpacost/src/logger"
)

// MetricsSink receives fire-and-forget inference metrics. Its lifecycle is
// owned by the caller that wires the orchestrator, never by the core.
type MetricsSink interface {
	RecordPrediction(model string, latency time.Duration, ok bool)
	RecordError(stage Stage, message string)
}

// LogMetricsSink writes metrics as structured log lines and keeps in-memory
// counters for the health endpoint. It does not persist anything.
type LogMetricsSink struct {
	mu          sync.Mutex
	predictions int64
	errors      int64
}

func NewLogMetricsSink() *LogMetricsSink { return &LogMetricsSink{} }

func (s *LogMetricsSink) RecordPrediction(model string, latency time.Duration, ok bool) {
	s.mu.Lock()
	s.predictions++
	s.mu.Unlock()
	logger.L.Info("prediction_metric", "model", model, "latencyMs", float64(latency.Microseconds())/1000.0, "ok", ok)
}

func (s *LogMetricsSink) RecordError(stage Stage, message string) {
	s.mu.Lock()
	s.errors++
	s.mu.Unlock()
	logger.L.Error("error_metric", "stage", string(stage), "error", message)
}

// Counters returns the running totals since startup.
func (s *LogMetricsSink) Counters() (predictions, errors int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.predictions, s.errors
}

// NoopMetricsSink discards everything. Useful for tests and embedding.
type NoopMetricsSink struct{}

func (NoopMetricsSink) RecordPrediction(string, time.Duration, bool) {}
func (NoopMetricsSink) RecordError(Stage, string)                   {}
