package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const sweepInterval = 5 * time.Minute

type entry struct {
	store    *Store
	lastSeen time.Time
}

// Registry maps a visitor (device and tab) to its Store.
type Registry struct {
	mu     sync.Mutex
	stores map[string]map[string]*entry
	now    func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		stores: make(map[string]map[string]*entry),
		now:    time.Now,
	}
}

// Get returns the store for a user/tab pair, creating it on first use.
func (r *Registry) Get(userID, sessionID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	tabs, ok := r.stores[userID]
	if !ok {
		tabs = make(map[string]*entry)
		r.stores[userID] = tabs
	}
	e, ok := tabs[sessionID]
	if !ok {
		e = &entry{store: NewStoreWithID(sessionID)}
		tabs[sessionID] = e
		slog.Debug("Session store created", "user_id", userID, "session_id", sessionID)
	}
	e.lastSeen = r.now()
	return e.store
}

// Lookup returns the store for a user/tab pair without creating it.
func (r *Registry) Lookup(userID, sessionID string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.stores[userID][sessionID]; ok {
		return e.store, true
	}
	return nil, false
}

// Drop discards the store of a user/tab pair.
func (r *Registry) Drop(userID, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tabs, ok := r.stores[userID]; ok {
		delete(tabs, sessionID)
		if len(tabs) == 0 {
			delete(r.stores, userID)
		}
	}
}

// Len returns the number of live stores.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, tabs := range r.stores {
		n += len(tabs)
	}
	return n
}

// EvictIdle removes stores not touched within ttl and returns how many went.
func (r *Registry) EvictIdle(ttl time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-ttl)
	evicted := 0
	for userID, tabs := range r.stores {
		for sid, e := range tabs {
			if e.lastSeen.Before(cutoff) {
				delete(tabs, sid)
				evicted++
			}
		}
		if len(tabs) == 0 {
			delete(r.stores, userID)
		}
	}
	return evicted
}

// RunSweeper evicts idle stores until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, ttl time.Duration) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	slog.Info("Session sweeper started", "interval", sweepInterval, "ttl", ttl)

	for {
		select {
		case <-ticker.C:
			if n := r.EvictIdle(ttl); n > 0 {
				slog.Info("Session sweeper evicted idle stores", "count", n)
			}
		case <-ctx.Done():
			slog.Info("Session sweeper shutting down", "reason", ctx.Err())
			return
		}
	}
}
