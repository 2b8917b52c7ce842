// Package hooks contains bun query hooks.
package hooks

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/rise-and-shine/docrepo/logger"
	"github.com/uptrace/bun"
)

var _ bun.QueryHook = (*DebugHook)(nil)

// DebugHook logs executed statements through the module logger. Failed statements are
// logged at error level, slow ones at warn level and the rest at debug level.
type DebugHook struct {
	enabled            bool
	slowQueryThreshold time.Duration
	log                logger.Logger
}

// DebugHookOption configures a DebugHook.
type DebugHookOption func(*DebugHook)

// NewDebugHook returns an enabled hook with a 100ms slow query threshold.
func NewDebugHook(opts ...DebugHookOption) *DebugHook {
	hook := &DebugHook{
		enabled:            true,
		slowQueryThreshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(hook)
	}
	if hook.log == nil {
		hook.log = logger.Named("bun")
	}
	return hook
}

func WithEnabled(enabled bool) DebugHookOption {
	return func(h *DebugHook) { h.enabled = enabled }
}

// WithSlowQueryThreshold sets the duration from which a statement is logged as slow.
// Zero disables slow statement detection.
func WithSlowQueryThreshold(threshold time.Duration) DebugHookOption {
	return func(h *DebugHook) { h.slowQueryThreshold = threshold }
}

func WithLogger(l logger.Logger) DebugHookOption {
	return func(h *DebugHook) { h.log = l }
}

func (h *DebugHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *DebugHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if !h.enabled {
		return
	}

	duration := time.Since(event.StartTime)
	failed := event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) && !errors.Is(event.Err, sql.ErrTxDone)

	entry := h.log.WithContext(ctx).With(
		"query", strings.ReplaceAll(event.Query, `"`, ""),
		"duration", duration.Round(time.Microsecond),
	)
	msg := "[bun] " + event.Operation()

	switch {
	case failed:
		entry.With("error", event.Err.Error()).Error(msg)
	case h.slowQueryThreshold > 0 && duration >= h.slowQueryThreshold:
		entry.Warn(msg)
	default:
		entry.Debug(msg)
	}
}
