package client

import (
	"sync"
	"time"
)

// SearchDebounce is how long the search box waits for typing to stop.
const SearchDebounce = 300 * time.Millisecond

// Debouncer delivers the last value pushed once no new value has arrived
// for the delay, and skips a value equal to the one delivered before it.
type Debouncer struct {
	delay time.Duration
	fn    func(string)

	mu        sync.Mutex
	timer     *time.Timer
	last      string
	delivered bool
	stopped   bool
}

func NewDebouncer(delay time.Duration, fn func(string)) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Push restarts the wait with v as the pending value.
func (d *Debouncer) Push(v string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(v) })
}

func (d *Debouncer) fire(v string) {
	d.mu.Lock()
	if d.stopped || (d.delivered && v == d.last) {
		d.mu.Unlock()
		return
	}
	d.last = v
	d.delivered = true
	d.mu.Unlock()

	d.fn(v)
}

// Stop drops any pending value. Nothing is delivered after Stop returns,
// apart from a delivery that had already started.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
