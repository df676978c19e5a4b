// Package applog is the persisted observability feed: structured events
// mirrored to zap and appended to the app_logs key in the substrate,
// capped at the most recent entries.
package applog

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/serroba/pocketlink/internal/kv"
	"go.uber.org/zap"
)

// MaxEntries is the number of log entries retained; oldest drop first.
const MaxEntries = 1000

// Entry types.
const (
	TypeInfo  = "INFO"
	TypeWarn  = "WARN"
	TypeError = "ERROR"
)

// Entry is one persisted log record.
type Entry struct {
	Timestamp int64          `json:"timestamp"` // epoch milliseconds
	Type      string         `json:"type"`
	Event     string         `json:"event"`
	Data      map[string]any `json:"data,omitempty"`
}

// Logger records structured events. All methods are fire-and-forget:
// they never return an error, never panic and never block the caller on
// anything but the substrate write itself.
//
// Conventional data keys: "id", "shortCode", "targetUrl", "source",
// "geo", "error".
type Logger struct {
	mu    sync.Mutex
	store kv.Store
	zlog  *zap.Logger
	now   func() time.Time
}

// New creates a logger persisting to the given substrate.
func New(store kv.Store, zlog *zap.Logger) *Logger {
	return &Logger{
		store: store,
		zlog:  zlog,
		now:   time.Now,
	}
}

// Info records an informational event.
func (l *Logger) Info(event string, data map[string]any) {
	l.zlog.Info(event, zap.Any("data", data))
	l.append(TypeInfo, event, data)
}

// Warn records a warning event.
func (l *Logger) Warn(event string, data map[string]any) {
	l.zlog.Warn(event, zap.Any("data", data))
	l.append(TypeWarn, event, data)
}

// Error records an error event.
func (l *Logger) Error(event string, data map[string]any) {
	l.zlog.Error(event, zap.Any("data", data))
	l.append(TypeError, event, data)
}

// Entries returns the persisted log entries, oldest first. A missing or
// unparsable feed yields an empty slice.
func (l *Logger) Entries(ctx context.Context) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.load(ctx)
}

func (l *Logger) append(entryType, event string, data map[string]any) {
	defer func() {
		// A log write must never take the application down.
		if r := recover(); r != nil {
			l.zlog.Error("applog append panicked", zap.Any("panic", r))
		}
	}()

	l.mu.Lock()
	defer l.mu.Unlock()

	ctx := context.Background()

	entries := append(l.load(ctx), Entry{
		Timestamp: l.now().UnixMilli(),
		Type:      entryType,
		Event:     event,
		Data:      data,
	})

	if len(entries) > MaxEntries {
		entries = entries[len(entries)-MaxEntries:]
	}

	payload, err := json.Marshal(entries)
	if err != nil {
		l.zlog.Error("failed to marshal app logs", zap.Error(err))

		return
	}

	if err := l.store.Set(ctx, kv.KeyAppLogs, payload); err != nil {
		l.zlog.Error("failed to persist app logs", zap.Error(err))
	}
}

func (l *Logger) load(ctx context.Context) []Entry {
	payload, err := l.store.Get(ctx, kv.KeyAppLogs)
	if err != nil {
		return []Entry{}
	}

	var entries []Entry
	if err := json.Unmarshal(payload, &entries); err != nil {
		return []Entry{}
	}

	return entries
}
