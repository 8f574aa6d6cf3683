package api

import (
	"context"
	"log"
	"sync"

	"resolvex/internal/complaint"
)

// verdict is the session-cached answer to "is the backend reachable?".
type verdict int

const (
	verdictUnknown verdict = iota
	verdictOnline
	verdictOffline
)

// probeState guards the cached verdict and memoizes the in-flight
// probe: when two callers ask at once, the second waits for the first
// probe's result instead of issuing a duplicate request.
type probeState struct {
	mu       sync.Mutex
	verdict  verdict
	inflight chan struct{}
}

// CanReachBackend reports whether the backend is currently reachable.
//
// The first call per session issues a GET /health probe and caches the
// verdict; later calls return the cached answer without touching the
// network. The backend counts as online only when the probe returns a
// well-formed body with ok=true - any transport error, bad status or
// malformed body classifies it offline.
func (c *Client) CanReachBackend(ctx context.Context) bool {
	s := &c.state

	s.mu.Lock()
	switch s.verdict {
	case verdictOnline:
		s.mu.Unlock()
		return true
	case verdictOffline:
		s.mu.Unlock()
		return false
	}

	if s.inflight != nil {
		// Another goroutine is probing; wait for its verdict.
		done := s.inflight
		s.mu.Unlock()
		<-done

		s.mu.Lock()
		online := s.verdict == verdictOnline
		s.mu.Unlock()
		return online
	}

	done := make(chan struct{})
	s.inflight = done
	s.mu.Unlock()

	online := c.probeHealth(ctx)

	s.mu.Lock()
	if online {
		s.verdict = verdictOnline
	} else {
		s.verdict = verdictOffline
	}
	s.inflight = nil
	s.mu.Unlock()
	close(done)

	return online
}

// probeHealth performs the actual health check.
func (c *Client) probeHealth(ctx context.Context) bool {
	var health struct {
		OK bool `json:"ok"`
	}
	if err := c.getJSON(ctx, "/health", &health); err != nil {
		log.Printf("⚠️  Backend unreachable, switching to local mode: %v", err)
		return false
	}
	return health.OK
}

// markOffline flips the cached verdict after a failed transfer.
func (c *Client) markOffline() {
	c.state.mu.Lock()
	c.state.verdict = verdictOffline
	c.state.mu.Unlock()
}

// Invalidate drops the cached verdict so the next call probes again.
// Called when the user explicitly retries a sync.
func (c *Client) Invalidate() {
	c.state.mu.Lock()
	c.state.verdict = verdictUnknown
	c.state.mu.Unlock()
}

// PushSnapshot uploads the full local state to the backend.
//
// Offline is not an error: the call reports false without touching the
// network and the caller keeps working from local state. A failure
// during the transfer flips the cached verdict to offline.
func (c *Client) PushSnapshot(ctx context.Context, snap complaint.Snapshot) bool {
	if !c.CanReachBackend(ctx) {
		return false
	}
	if err := c.sendJSON(ctx, "PUT", "/db", snap); err != nil {
		log.Printf("⚠️  Snapshot push failed: %v", err)
		c.markOffline()
		return false
	}
	return true
}

// PullSnapshot downloads the full backend state. It returns nil, false
// when the backend is offline or the transfer fails.
func (c *Client) PullSnapshot(ctx context.Context) (*complaint.Snapshot, bool) {
	if !c.CanReachBackend(ctx) {
		return nil, false
	}
	var snap complaint.Snapshot
	if err := c.getJSON(ctx, "/db", &snap); err != nil {
		log.Printf("⚠️  Snapshot pull failed: %v", err)
		c.markOffline()
		return nil, false
	}
	return &snap, true
}

// Per-resource endpoints, used instead of a full snapshot when only one
// slice of the state changed.
var resourceEndpoints = map[string]string{
	"complaints": "/complaints/sync",
	"settings":   "/settings",
	"ab":         "/ab_stats",
}

// SaveResource uploads a single resource (complaints list, A/B stats
// or settings) with the same offline gating as the snapshot calls.
func (c *Client) SaveResource(ctx context.Context, name string, payload any) bool {
	path, ok := resourceEndpoints[name]
	if !ok {
		log.Printf("⚠️  Unknown sync resource %q", name)
		return false
	}
	if !c.CanReachBackend(ctx) {
		return false
	}
	if err := c.sendJSON(ctx, "POST", path, payload); err != nil {
		log.Printf("⚠️  Saving %s to backend failed: %v", name, err)
		c.markOffline()
		return false
	}
	return true
}

// SaveComplaints uploads the complaint collection.
func (c *Client) SaveComplaints(ctx context.Context, rows []complaint.Complaint) bool {
	return c.SaveResource(ctx, "complaints", rows)
}

// SaveAB uploads the A/B counters.
func (c *Client) SaveAB(ctx context.Context, ab complaint.AbStats) bool {
	return c.SaveResource(ctx, "ab", ab)
}

// SaveSettings uploads the settings.
func (c *Client) SaveSettings(ctx context.Context, settings complaint.Settings) bool {
	return c.SaveResource(ctx, "settings", settings)
}
