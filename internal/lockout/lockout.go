// Package lockout tracks failed login attempts per (client address,
// login identifier) pair and blocks further attempts once a threshold
// is crossed. State is in-memory and checked under a single lock, so a
// burst of concurrent attempts can only over-count, never slip through.
package lockout

import (
	"sync"
	"time"
)

type key struct {
	addr       string
	identifier string
}

type record struct {
	failures    int
	lastFailure time.Time
}

// Tracker is the login attempt counter. The zero value is not usable;
// call New.
type Tracker struct {
	mu          sync.Mutex
	records     map[key]record
	maxFailures int
	cooldown    time.Duration
	now         func() time.Time
}

// New creates a tracker blocking after maxFailures failed attempts for
// the duration of cooldown.
func New(maxFailures int, cooldown time.Duration) *Tracker {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	if cooldown <= 0 {
		cooldown = 10 * time.Minute
	}
	return &Tracker{
		records:     make(map[key]record),
		maxFailures: maxFailures,
		cooldown:    cooldown,
		now:         time.Now,
	}
}

// IsAllowed reports whether a login attempt for the pair may proceed.
// It must be consulted before credentials are touched.
func (t *Tracker) IsAllowed(addr, identifier string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	k := key{addr, identifier}
	rec, ok := t.records[k]
	if !ok {
		return true
	}
	if t.now().Sub(rec.lastFailure) >= t.cooldown {
		// cooldown elapsed, start over
		delete(t.records, k)
		return true
	}
	return rec.failures < t.maxFailures
}

// RecordFailure counts a failed attempt for the pair.
func (t *Tracker) RecordFailure(addr, identifier string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	k := key{addr, identifier}
	rec := t.records[k]
	if t.now().Sub(rec.lastFailure) >= t.cooldown {
		rec.failures = 0
	}
	rec.failures++
	rec.lastFailure = t.now()
	t.records[k] = rec
}

// RecordSuccess clears the counter for the pair after a successful login.
func (t *Tracker) RecordSuccess(addr, identifier string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.records, key{addr, identifier})
}
