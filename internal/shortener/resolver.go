package shortener

import (
	"context"
	"time"

	"github.com/serroba/pocketlink/internal/applog"
	"go.uber.org/zap"
)

// State is a terminal outcome of a redirect resolution.
type State string

const (
	StateRedirecting State = "redirecting"
	StateExpired     State = "expired"
	StateNotFound    State = "not_found"
)

// Resolution is the terminal result of resolving a short code. TargetURL
// is set only for StateRedirecting.
type Resolution struct {
	State     State
	TargetURL string
}

// Resolver turns a short code into a redirect decision. The machine runs
// exactly once per lookup; not-found and expired are valid terminal
// states, not errors.
type Resolver struct {
	repo     Repository
	clicks   *ClickRecorder
	observer *applog.Logger
	logger   *zap.Logger
	now      func() time.Time
}

// NewResolver creates a resolver.
func NewResolver(repo Repository, clicks *ClickRecorder, observer *applog.Logger, logger *zap.Logger) *Resolver {
	return &Resolver{
		repo:     repo,
		clicks:   clicks,
		observer: observer,
		logger:   logger,
		now:      time.Now,
	}
}

// Resolve classifies a code into a terminal state. On the active path
// the click is recorded before the redirecting result is returned; a
// failed click write is logged and does not block the redirect.
func (r *Resolver) Resolve(ctx context.Context, code string) Resolution {
	if code == "" {
		return Resolution{State: StateNotFound}
	}

	record, err := r.repo.FindByCode(ctx, code)
	if err != nil {
		r.observer.Warn("redirect_not_found", map[string]any{"shortCode": code})

		return Resolution{State: StateNotFound}
	}

	if record.Expired(r.now()) {
		r.observer.Info("redirect_expired", map[string]any{"shortCode": code})

		return Resolution{State: StateExpired}
	}

	if err := r.clicks.Record(ctx, code); err != nil {
		r.logger.Error("click recording failed",
			zap.String("code", code),
			zap.Error(err),
		)
	}

	r.observer.Info("redirect_resolved", map[string]any{
		"shortCode": code,
		"targetUrl": record.OriginalURL,
	})

	return Resolution{State: StateRedirecting, TargetURL: record.OriginalURL}
}
