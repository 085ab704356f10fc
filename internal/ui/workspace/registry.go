package workspace

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long an idle workspace is kept.
const DefaultTTL = 30 * time.Minute

type entry struct {
	ws       *Workspace
	lastSeen time.Time
}

// Registry maps session workspace ids to workspaces.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// NewRegistry creates a registry that drops workspaces idle for longer than ttl.
func NewRegistry(ttl time.Duration, logger *slog.Logger) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
		logger:  logger,
	}
}

// Acquire returns the workspace for id, creating a new one under a fresh
// id when id is empty or unknown. The returned id is the one to keep in
// the session.
func (r *Registry) Acquire(id string) (string, *Workspace) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if e, ok := r.entries[id]; ok && id != "" {
		e.lastSeen = now
		return id, e.ws
	}

	id = uuid.NewString()
	ws := New(id)
	r.entries[id] = &entry{ws: ws, lastSeen: now}
	r.logger.Debug("workspace created", slog.String("workspace", id))
	return id, ws
}

// Get returns the workspace for id without creating one.
func (r *Registry) Get(id string) (*Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.ws, true
}

// Len returns the number of live workspaces.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep removes workspaces idle for longer than the TTL and returns how
// many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	removed := 0
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			delete(r.entries, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is cancelled.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = r.ttl / 2
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Debug("expired workspaces removed", slog.Int("count", n))
			}
		}
	}
}
