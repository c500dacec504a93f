package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// recentLimit caps how many delivered notifications are retained for
// inspection over the API.
const recentLimit = 50

var _ Gateway = (*LocalGateway)(nil)

// LocalGateway is the in-process Gateway implementation: delivered
// notifications are logged and kept in a bounded recent list. The permission
// decision is pluggable so headless deployments can auto-grant and tests can
// simulate denial.
type LocalGateway struct {
	lg     *zap.Logger
	decide func() Permission
	now    func() time.Time

	mu         sync.Mutex
	permission Permission
	recent     []Notification
}

// Option configures a LocalGateway.
type Option func(*LocalGateway)

// WithDecision sets the function consulted the first time permission is
// requested. The default grants.
func WithDecision(decide func() Permission) Option {
	return func(g *LocalGateway) { g.decide = decide }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(g *LocalGateway) { g.now = now }
}

// NewLocalGateway creates a gateway in the undecided permission state.
func NewLocalGateway(lg *zap.Logger, opts ...Option) *LocalGateway {
	g := &LocalGateway{
		lg:     lg,
		decide: func() Permission { return PermissionGranted },
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// RequestPermission resolves the permission state if it is still undecided.
// Once granted or denied, subsequent calls change nothing.
func (g *LocalGateway) RequestPermission() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.permission != PermissionDefault {
		return
	}
	g.permission = g.decide()
	g.lg.Info("notification permission resolved",
		zap.Stringer("permission", g.permission))
}

// Permission returns the current permission state.
func (g *LocalGateway) Permission() Permission {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.permission
}

// Notify records and logs a notification. Without a granted permission it is
// dropped silently; delivery failures are never reported to callers.
func (g *LocalGateway) Notify(title, body, tag string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.permission != PermissionGranted {
		return
	}

	n := Notification{Title: title, Body: body, Tag: tag, At: g.now()}
	g.recent = append(g.recent, n)
	if len(g.recent) > recentLimit {
		g.recent = g.recent[len(g.recent)-recentLimit:]
	}

	g.lg.Info("notification",
		zap.String("title", title),
		zap.String("body", body),
		zap.String("tag", tag))
}

// Recent returns the retained notifications, oldest first.
func (g *LocalGateway) Recent() []Notification {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Notification(nil), g.recent...)
}
