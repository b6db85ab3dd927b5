package application

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// verdictCache stores recently computed placement verdicts to avoid repeated
// snapshot assembly for identical checks while a convention's assignments
// remain unchanged. Event mutations invalidate every entry for their
// convention; room, timeslot and resource mutations invalidate through
// WireVerdictInvalidation.
type verdictCache struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]verdictCacheEntry
}

type verdictCacheEntry struct {
	conventionID string
	verdict      Verdict
	expiresAt    time.Time
}

func newVerdictCache(ttl time.Duration, maxEntries int, now func() time.Time) *verdictCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 256
	}
	if now == nil {
		now = time.Now
	}
	return &verdictCache{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]verdictCacheEntry),
	}
}

func (c *verdictCache) Get(key string) (Verdict, bool) {
	if c == nil {
		return Verdict{}, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return Verdict{}, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return Verdict{}, false
	}
	return cloneVerdict(entry.verdict), true
}

func (c *verdictCache) Store(key, conventionID string, verdict Verdict) {
	if c == nil {
		return
	}
	entry := verdictCacheEntry{
		conventionID: conventionID,
		verdict:      cloneVerdict(verdict),
		expiresAt:    c.now().Add(c.ttl),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[key] = entry
}

// InvalidateConvention drops every cached verdict computed against the given
// convention's assignment state.
func (c *verdictCache) InvalidateConvention(conventionID string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	for key, entry := range c.entries {
		if entry.conventionID == conventionID {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

// InvalidateAll empties the cache. Used when a mutation touches state shared
// across conventions, such as rooms or resources.
func (c *verdictCache) InvalidateAll() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]verdictCacheEntry)
	c.mu.Unlock()
}

// WireVerdictInvalidation routes room, timeslot and resource mutations into
// the event service's verdict cache. Availability grants, capacity changes,
// deactivations and exclusivity flips all feed placement checks, so a cached
// verdict must not outlive any of them.
func WireVerdictInvalidation(events *EventService, rooms *RoomService, timeslots *TimeslotService, catalog *CatalogService) {
	if events == nil {
		return
	}
	if rooms != nil {
		rooms.invalidateVerdicts = events.InvalidateVerdicts
	}
	if timeslots != nil {
		timeslots.invalidateVerdicts = events.InvalidateVerdicts
	}
	if catalog != nil {
		catalog.invalidateVerdicts = events.InvalidateVerdicts
	}
}

func notifyVerdictsStale(hook func(conventionID string), conventionID string) {
	if hook != nil {
		hook(conventionID)
	}
}

func (c *verdictCache) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *verdictCache) evictOneLocked() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}

func cloneVerdict(verdict Verdict) Verdict {
	out := Verdict{Pass: verdict.Pass}
	if len(verdict.Violations) > 0 {
		out.Violations = make([]Violation, len(verdict.Violations))
		copy(out.Violations, verdict.Violations)
	}
	return out
}

func buildVerdictCacheKey(placement Placement) string {
	builder := strings.Builder{}
	builder.WriteString(placement.EventID)
	builder.WriteString("|")
	builder.WriteString(placement.RoomID)
	builder.WriteString("|")
	builder.WriteString(fmt.Sprintf("%d", placement.StartIndex))
	return builder.String()
}
