package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"oink/internal/log"
)

// ContextKey type for context keys
type ContextKey string

const (
	// RunIDKey is the context key for the run ID
	RunIDKey ContextKey = "run_id"

	FieldRunID = "run_id"
)

// Handler is one unit of traced work: a CLI command or an event delivery.
type Handler func(ctx context.Context) error

// Classifier names the kind of a failure for the completion record.
type Classifier func(error) string

// Middleware traces units of work with a run ID and duration logging.
type Middleware struct {
	logger   *log.Logger
	classify Classifier
	metrics  *Metrics
}

// Metrics tracks run metrics
type Metrics struct {
	TotalRuns       int64
	FailedRuns      int64
	AverageDuration int64 // in microseconds
}

// NewMiddleware creates a new trace middleware. classify may be nil.
func NewMiddleware(logger *log.Logger, classify Classifier) *Middleware {
	if logger == nil {
		logger = log.Discard()
	}
	return &Middleware{
		logger:   logger,
		classify: classify,
		metrics:  &Metrics{},
	}
}

// Wrap returns h traced under name. The run ID is added to the context
// unless one is already present.
func (m *Middleware) Wrap(name string, h Handler) Handler {
	return func(ctx context.Context) error {
		start := time.Now()

		runID := GetRunID(ctx)
		if runID == "" {
			runID = GenerateRunID()
			ctx = context.WithValue(ctx, RunIDKey, runID)
		}

		m.logger.DebugContext(ctx, "Run started",
			FieldRunID, runID,
			log.FieldOperation, name)

		err := h(ctx)

		duration := time.Since(start)
		total := atomic.AddInt64(&m.metrics.TotalRuns, 1)
		avg := atomic.LoadInt64(&m.metrics.AverageDuration)
		atomic.StoreInt64(&m.metrics.AverageDuration, avg+(duration.Microseconds()-avg)/total)

		args := []any{
			FieldRunID, runID,
			log.FieldOperation, name,
			log.FieldDuration, duration.Milliseconds(),
			"success", err == nil,
		}
		level := slog.LevelDebug
		if err != nil {
			atomic.AddInt64(&m.metrics.FailedRuns, 1)
			level = slog.LevelWarn
			args = append(args, log.FieldError, err)
			if m.classify != nil {
				args = append(args, log.FieldErrorType, m.classify(err))
			}
		}
		m.log(ctx, level, "Run completed", args)
		return err
	}
}

func (m *Middleware) log(ctx context.Context, level slog.Level, msg string, args []any) {
	if level == slog.LevelWarn {
		m.logger.WarnContext(ctx, msg, args...)
		return
	}
	m.logger.DebugContext(ctx, msg, args...)
}

// GenerateRunID creates a unique run ID for tracing
func GenerateRunID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("run_%d", time.Now().UnixNano())
	}
	return "run_" + hex.EncodeToString(bytes)
}

// WithRunID stores id in ctx.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RunIDKey, id)
}

// GetRunID extracts the run ID from context
func GetRunID(ctx context.Context) string {
	if id, ok := ctx.Value(RunIDKey).(string); ok {
		return id
	}
	return ""
}

// GetMetrics returns current metrics
func (m *Middleware) GetMetrics() Metrics {
	return Metrics{
		TotalRuns:       atomic.LoadInt64(&m.metrics.TotalRuns),
		FailedRuns:      atomic.LoadInt64(&m.metrics.FailedRuns),
		AverageDuration: atomic.LoadInt64(&m.metrics.AverageDuration),
	}
}
