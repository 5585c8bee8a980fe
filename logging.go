package configkit

import (
	"context"
	"log/slog"
	"time"
)

// EvalLogEvent describes one evaluator call made on behalf of a store
// operation.
type EvalLogEvent struct {
	Op       string
	Slot     string
	Script   string
	Duration time.Duration
	Err      error
}

// Logger records evaluator events.
type Logger interface {
	LogEvaluation(EvalLogEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(EvalLogEvent)

// LogEvaluation implements Logger.
func (f LoggerFunc) LogEvaluation(event EvalLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogEvaluation(EvalLogEvent) {}

// WithLogger attaches a logger to the store. A nil logger disables logging.
func WithLogger(logger Logger) StoreOption {
	return func(cfg *storeConfig) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}

type slogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger reports successful evaluator calls at debug level and
// failures at warn level.
func NewSlogLogger(logger *slog.Logger) Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return slogLogger{logger: logger}
}

func (l slogLogger) LogEvaluation(event EvalLogEvent) {
	attrs := []slog.Attr{
		slog.String("op", event.Op),
		slog.Duration("duration", event.Duration),
	}
	if event.Slot != "" {
		attrs = append(attrs, slog.String("slot", event.Slot))
	}
	if event.Err != nil {
		attrs = append(attrs, slog.String("script", event.Script), slog.Any("error", event.Err))
		l.logger.LogAttrs(context.Background(), slog.LevelWarn, "configkit evaluator call failed", attrs...)
		return
	}
	l.logger.LogAttrs(context.Background(), slog.LevelDebug, "configkit evaluator call", attrs...)
}
