package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/deliverydesk-backend/pkg/env"
	"github.com/rs/zerolog"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Options configures the structured logger. An empty Format falls back to
// DELIVERYDESK_LOG_FORMAT.
type Options struct {
	ServiceName string
	Level       zerolog.Level
	WarnStack   bool
	Format      string
	Output      io.Writer
}

// Logger writes zerolog events enriched with fields carried on the context.
type Logger struct {
	zl        zerolog.Logger
	warnStack bool
}

type fieldsKey struct{}

// fields is an ordered key/value list in the shape zerolog's Event.Fields takes.
type fields []any

func New(opts Options) *Logger {
	level := opts.Level
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = strings.ToLower(env.Get("DELIVERYDESK_LOG_FORMAT", FormatJSON))
	}
	if format == FormatConsole {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	zl := zerolog.New(out).Level(level).With().Timestamp().Str("service", opts.ServiceName).Logger()
	return &Logger{zl: zl, warnStack: opts.WarnStack}
}

// ParseLevel maps a config string to a level, defaulting to info.
func ParseLevel(value string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func contextFields(ctx context.Context) fields {
	if ctx == nil {
		return nil
	}
	f, _ := ctx.Value(fieldsKey{}).(fields)
	return f
}

// WithField returns a context whose log lines carry key=value. A repeated key
// overrides the earlier value.
func (l *Logger) WithField(ctx context.Context, key string, value any) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	current := contextFields(ctx)
	next := make(fields, 0, len(current)+2)
	for i := 0; i+1 < len(current); i += 2 {
		if current[i] != key {
			next = append(next, current[i], current[i+1])
		}
	}
	next = append(next, key, value)
	return context.WithValue(ctx, fieldsKey{}, next)
}

// WithFields adds several fields in key order.
func (l *Logger) WithFields(ctx context.Context, values map[string]any) context.Context {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ctx = l.WithField(ctx, k, values[k])
	}
	return ctx
}

func (l *Logger) WithRequestID(ctx context.Context, requestID string) context.Context {
	return l.WithField(ctx, "request_id", requestID)
}

func (l *Logger) WithVendorID(ctx context.Context, vendorID string) context.Context {
	return l.WithField(ctx, "vendor_id", vendorID)
}

func (l *Logger) WithWarehouseID(ctx context.Context, warehouseID string) context.Context {
	return l.WithField(ctx, "warehouse_id", warehouseID)
}

func (l *Logger) WithOrderID(ctx context.Context, orderID string) context.Context {
	return l.WithField(ctx, "order_id", orderID)
}

func (l *Logger) emit(ctx context.Context, event *zerolog.Event, msg string) {
	if f := contextFields(ctx); len(f) > 0 {
		event = event.Fields([]any(f))
	}
	event.Msg(msg)
}

func (l *Logger) Debug(ctx context.Context, msg string) {
	l.emit(ctx, l.zl.Debug(), msg)
}

func (l *Logger) Info(ctx context.Context, msg string) {
	l.emit(ctx, l.zl.Info(), msg)
}

// Warn attaches a stack trace when the logger was built with WarnStack.
func (l *Logger) Warn(ctx context.Context, msg string) {
	event := l.zl.Warn()
	if l.warnStack {
		event = event.Str("stack", stack())
	}
	l.emit(ctx, event, msg)
}

// Error always attaches a stack trace.
func (l *Logger) Error(ctx context.Context, msg string, err error) {
	event := l.zl.Error()
	if err != nil {
		event = event.Err(err)
	}
	l.emit(ctx, event.Str("stack", stack()), msg)
}

func stack() string {
	return strings.TrimSpace(string(debug.Stack()))
}
