// Package activity keeps a bounded in-memory feed of recent control-centre
// events for the dashboard.
package activity

import (
	"fmt"
	"sync"
)

// DefaultCapacity bounds how many entries the feed retains.
const DefaultCapacity = 50

// Feed is a mutex-guarded rolling message list. New entries append to the
// end; the oldest entries fall off once capacity is reached.
type Feed struct {
	mu       sync.Mutex
	capacity int
	messages []string
}

// NewFeed returns a feed seeded with the dashboard's quick-start
// instructions. A non-positive capacity falls back to the default.
func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Feed{
		capacity: capacity,
		messages: []string{
			"Upload sample footage or pick a provider to begin.",
			"Plan routes using the survey generator or import your own.",
		},
	}
}

// Record appends a formatted message, evicting the oldest entries beyond
// capacity.
func (f *Feed) Record(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, fmt.Sprintf(format, args...))
	if overflow := len(f.messages) - f.capacity; overflow > 0 {
		f.messages = append([]string(nil), f.messages[overflow:]...)
	}
}

// Messages returns a copy of the feed, oldest first.
func (f *Feed) Messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.messages...)
}
