package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// Format selects the zerolog output encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

// ParseFormat converts a flag value to a Format.
func ParseFormat(format string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(format))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatConsole, "":
		return FormatConsole, nil
	default:
		return FormatConsole, fmt.Errorf("invalid log format: %s", format)
	}
}

// zerologLogger implements Logger on top of zerolog.
type zerologLogger struct {
	zl zerolog.Logger
}

// New returns a zerolog-backed Logger writing to w.
func New(w io.Writer, level Level, format Format) Logger {
	if format == FormatConsole {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	zl := zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &zerologLogger{zl: zl}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return &zerologLogger{zl: zerolog.Nop()}
}

func (l *zerologLogger) Debug(msg string, fields ...any) { emit(l.zl.Debug(), msg, fields) }
func (l *zerologLogger) Info(msg string, fields ...any)  { emit(l.zl.Info(), msg, fields) }
func (l *zerologLogger) Warn(msg string, fields ...any)  { emit(l.zl.Warn(), msg, fields) }
func (l *zerologLogger) Error(msg string, fields ...any) { emit(l.zl.Error(), msg, fields) }

func (l *zerologLogger) With(fields ...any) Logger {
	ctx := l.zl.With()
	for i := 0; i < len(fields); i++ {
		if err, ok := fields[i].(error); ok {
			ctx = ctx.Str(ErrorKey, err.Error())
			continue
		}
		if i+1 >= len(fields) {
			break
		}
		key := fmt.Sprint(fields[i])
		if err, ok := fields[i+1].(error); ok {
			ctx = ctx.Str(key, err.Error())
		} else {
			ctx = ctx.Interface(key, fields[i+1])
		}
		i++
	}
	return &zerologLogger{zl: ctx.Logger()}
}

func (l *zerologLogger) Enabled(_ context.Context, level Level) bool {
	zlevel := toZerologLevel(level)
	return zlevel >= l.zl.GetLevel() && zlevel >= zerolog.GlobalLevel()
}

// emit adds the key/value fields to e and sends it. A nil event (level
// disabled) is a no-op in zerolog, so fields are only converted when needed.
func emit(e *zerolog.Event, msg string, fields []any) {
	if e == nil || !e.Enabled() {
		return
	}
	for i := 0; i < len(fields); i++ {
		if err, ok := fields[i].(error); ok {
			addError(e, ErrorKey, err)
			continue
		}
		if i+1 >= len(fields) {
			e.Interface("!BADKEY", fields[i])
			break
		}
		addField(e, fmt.Sprint(fields[i]), fields[i+1])
		i++
	}
	e.Msg(msg)
}

func addField(e *zerolog.Event, key string, value any) {
	switch v := value.(type) {
	case error:
		addError(e, key, v)
	case string:
		e.Str(key, v)
	case []string:
		e.Strs(key, v)
	case int:
		e.Int(key, v)
	case int64:
		e.Int64(key, v)
	case float64:
		e.Float64(key, v)
	case bool:
		e.Bool(key, v)
	case time.Duration:
		e.Dur(key, v)
	case zerolog.LogObjectMarshaler:
		e.Object(key, v)
	default:
		e.Interface(key, v)
	}
}

// addError logs err under key together with its root type and, when the
// error was built with cockroachdb/errors, its stack trace.
func addError(e *zerolog.Event, key string, err error) {
	e.Str(key, err.Error())
	e.Str(ErrorTypeKey, fmt.Sprintf("%T", errors.UnwrapAll(err)))
	if st := extractStacktrace(err); st != "" {
		e.Str(StacktraceKey, st)
	}
}

func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// WarningSink adapts l into a function suitable for errors.SetZerologWarnFunc.
// Warnings that implement zerolog.LogObjectMarshaler are logged as a
// structured "warning" object.
func WarningSink(l Logger) func(error) {
	return func(w error) {
		if zl, ok := l.(*zerologLogger); ok {
			e := zl.zl.Warn()
			if m, ok := w.(zerolog.LogObjectMarshaler); ok {
				e = e.Object("warning", m)
			}
			e.Msg(w.Error())
			return
		}
		l.Warn(w.Error())
	}
}

// Provider hands out zerolog-backed loggers that share one writer.
type Provider struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
}

// NewProvider creates a Provider writing to w.
func NewProvider(w io.Writer, level Level, format Format) *Provider {
	return &Provider{w: w, level: level, format: format}
}

// GetLogger implements LoggerProvider.GetLogger.
func (p *Provider) GetLogger() Logger {
	p.mu.Lock()
	defer p.mu.Unlock()
	return New(p.w, p.level, p.format)
}

// GetLoggerWithName implements LoggerProvider.GetLoggerWithName.
func (p *Provider) GetLoggerWithName(name string) Logger {
	return p.GetLogger().With(ComponentKey, name)
}

// SetLevel implements LoggerProvider.SetLevel.
func (p *Provider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
}
