package application

import (
	"sync"
	"time"
)

// DedupRetention is how long an interaction id is remembered.
const DedupRetention = 10 * time.Minute

type seenEntry struct {
	id string
	at time.Time
}

// Deduplicator remembers interaction ids so a redelivered interaction is
// applied at most once. Ids are evicted in arrival order by Evict; there
// are no per-entry timers.
type Deduplicator struct {
	retention time.Duration
	clock     func() time.Time

	mu    sync.Mutex
	seen  map[string]struct{}
	queue []seenEntry
}

// NewDeduplicator returns a deduplicator. A zero retention uses
// DedupRetention and a nil clock uses time.Now.
func NewDeduplicator(retention time.Duration, clock func() time.Time) *Deduplicator {
	if retention <= 0 {
		retention = DedupRetention
	}
	if clock == nil {
		clock = time.Now
	}
	return &Deduplicator{
		retention: retention,
		clock:     clock,
		seen:      make(map[string]struct{}),
	}
}

// Observe records id and reports whether it was unseen. A false result means
// the interaction must be discarded without reply.
func (d *Deduplicator) Observe(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen[id]; ok {
		return false
	}
	d.seen[id] = struct{}{}
	d.queue = append(d.queue, seenEntry{id: id, at: d.clock()})
	return true
}

// Evict drops every id older than the retention window and returns how many
// were dropped.
func (d *Deduplicator) Evict() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	cutoff := d.clock().Add(-d.retention)
	n := 0
	for n < len(d.queue) && !d.queue[n].at.After(cutoff) {
		delete(d.seen, d.queue[n].id)
		n++
	}
	if n > 0 {
		d.queue = append(d.queue[:0:0], d.queue[n:]...)
	}
	return n
}

func (d *Deduplicator) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
