// Package logger writes leveled, structured log lines and forwards errors to Sentry
package logger

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/james-see/lyrictune/internal/config"
)

const sentryFlushTimeout = 2 * time.Second

// Fields represents structured log fields
type Fields map[string]interface{}

// Level is a log severity threshold
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var threshold atomic.Int32

func init() {
	threshold.Store(int32(LevelInfo))
}

// ParseLevel maps LOG_LEVEL values to a Level, defaulting to info
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// SetLevel sets the minimum level written to the log
func SetLevel(l Level) {
	threshold.Store(int32(l))
}

func enabled(l Level) bool {
	return int32(l) >= threshold.Load()
}

// Init applies the configured log level and starts Sentry when a DSN is set.
// The returned func flushes pending Sentry events.
func Init(cfg *config.Config, release string) func() {
	SetLevel(ParseLevel(cfg.LogLevel))

	if cfg.SentryDSN == "" {
		Debug("Sentry not configured (SENTRY_DSN not set)", nil)
		return func() {}
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Release:     "lyrictune@" + release,
		Debug:       !cfg.IsProduction(),
	})
	if err != nil {
		log.Printf("Failed to initialize Sentry: %v", err)
		return func() {}
	}

	Info("Sentry initialized", Fields{"environment": cfg.Environment, "release": release})
	return func() { sentry.Flush(sentryFlushTimeout) }
}

// WithContext extracts request context for logging
func WithContext(c *gin.Context) Fields {
	return Fields{
		"request_id": c.GetString("request_id"),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
	}
}

// Debug logs a debug message with structured fields
func Debug(msg string, fields Fields) {
	if !enabled(LevelDebug) {
		return
	}
	log.Printf("[DEBUG] %s %v", msg, formatFields(fields))
	breadcrumb("debug", msg, fields, sentry.LevelDebug)
}

// Info logs an informational message with structured fields
func Info(msg string, fields Fields) {
	if !enabled(LevelInfo) {
		return
	}
	log.Printf("[INFO] %s %v", msg, formatFields(fields))
	breadcrumb("info", msg, fields, sentry.LevelInfo)
}

// Warn logs a warning message with structured fields
func Warn(msg string, fields Fields) {
	if !enabled(LevelWarn) {
		return
	}
	log.Printf("[WARN] %s %v", msg, formatFields(fields))
	breadcrumb("warning", msg, fields, sentry.LevelWarning)
}

// Error logs an error message with structured fields and sends it to Sentry
func Error(msg string, err error, fields Fields) {
	if enabled(LevelError) {
		log.Printf("[ERROR] %s: %v %v", msg, err, formatFields(fields))
	}

	hub := sentry.CurrentHub()
	if hub.Client() == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		for key, value := range fields {
			scope.SetContext(key, map[string]interface{}{
				"value": value,
			})
		}
		if requestID, ok := fields["request_id"].(string); ok {
			scope.SetTag("request_id", requestID)
		}
		if err != nil {
			hub.CaptureException(err)
		} else {
			hub.CaptureMessage(msg)
		}
	})
}

func breadcrumb(kind, msg string, fields Fields, level sentry.Level) {
	if hub := sentry.CurrentHub(); hub.Client() != nil {
		hub.AddBreadcrumb(&sentry.Breadcrumb{
			Type:     kind,
			Category: "log",
			Message:  msg,
			Data:     convertFieldsToMap(fields),
			Level:    level,
		}, nil)
	}
}

// formatFields renders fields as {k=v, ...} with sorted keys
func formatFields(fields Fields) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(formatValue(fields[k]))
	}
	b.WriteString("}")
	return b.String()
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return fmt.Sprintf("%d", val)
	case int64:
		return fmt.Sprintf("%d", val)
	case float64:
		return fmt.Sprintf("%.2f", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func convertFieldsToMap(fields Fields) map[string]interface{} {
	result := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		result[k] = v
	}
	return result
}
