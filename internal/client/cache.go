package client

import (
	"sync"
	"time"

	"github.com/2beens/ppltracker/internal/workouts"
)

// recordsCache is the read cache of the full workout collection. It is
// owned by one Client instance, never package-level, so tests do not
// share hidden state. Expired values are retained on purpose: a failed
// refetch falls back to them.
type recordsCache struct {
	mu      sync.Mutex
	records []workouts.Workout
	setAt   time.Time
}

// fresh returns the cached collection if it is younger than maxAge.
func (c *recordsCache) fresh(maxAge time.Duration) ([]workouts.Workout, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.records == nil || time.Since(c.setAt) >= maxAge {
		return nil, false
	}
	return c.records, true
}

// stale returns the cached collection regardless of age.
func (c *recordsCache) stale() ([]workouts.Workout, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.records == nil {
		return nil, false
	}
	return c.records, true
}

func (c *recordsCache) set(records []workouts.Workout) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = records
	c.setAt = time.Now()
}

func (c *recordsCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = nil
	c.setAt = time.Time{}
}
