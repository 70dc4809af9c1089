package socketio

import (
	"sync"
	"time"
)

// Broadcast topics
const (
	TopicState    = "state"
	TopicStations = "stations"
)

// BroadcastDebouncer collapses rapid session events into batched broadcasts.
// Multiple changes within the debounce window result in a single broadcast
// for each affected topic.
type BroadcastDebouncer struct {
	window           time.Duration
	stateCallback    func()
	stationsCallback func()

	mu              sync.Mutex
	pendingState    bool
	pendingStations bool
	timer           *time.Timer
	stopped         bool
}

// NewBroadcastDebouncer creates a debouncer with the given window duration.
func NewBroadcastDebouncer(window time.Duration, stateCallback, stationsCallback func()) *BroadcastDebouncer {
	return &BroadcastDebouncer{
		window:           window,
		stateCallback:    stateCallback,
		stationsCallback: stationsCallback,
	}
}

// Trigger records that topic has changed. A stations change also refreshes
// the state since the selection indices refer to the list.
func (d *BroadcastDebouncer) Trigger(topic string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	switch topic {
	case TopicState:
		d.pendingState = true
	case TopicStations:
		d.pendingState = true
		d.pendingStations = true
	default:
		return
	}

	// Reset the timer
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flush)
}

// flush fires callbacks for any pending flags and resets them.
func (d *BroadcastDebouncer) flush() {
	d.mu.Lock()
	doState := d.pendingState
	doStations := d.pendingStations
	d.pendingState = false
	d.pendingStations = false
	d.mu.Unlock()

	if doStations && d.stationsCallback != nil {
		d.stationsCallback()
	}
	if doState && d.stateCallback != nil {
		d.stateCallback()
	}
}

// Stop prevents any further callbacks from firing.
func (d *BroadcastDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pendingState = false
	d.pendingStations = false
}
