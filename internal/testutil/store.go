// Package testutil provides in-memory stand-ins for the postgres repositories
// and the external collaborators, enforcing the same uniqueness rules as the
// SQL schema.
package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Clock hands out strictly increasing timestamps so newest-first ordering is
// deterministic within a test.
type Clock struct {
	mu   sync.Mutex
	next time.Time
}

// NewClock starts a clock at a fixed instant.
func NewClock() *Clock {
	return &Clock{next: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

// Now returns the next timestamp.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next = c.next.Add(time.Millisecond)
	return c.next
}

func newID() string {
	return uuid.NewString()
}

func sortNewestFirst[T any](items []T, at func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return at(items[i]).After(at(items[j]))
	})
}
