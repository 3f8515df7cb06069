package progress

import (
	"encoding/json"
	"reflect"
	"sync"
	"time"
)

// Stage is the state of one sync direction.
type Stage string

const (
	StageIdle        Stage = "idle"
	StageListing     Stage = "listing"
	StagePreviewing  Stage = "previewing"
	StageDownloading Stage = "downloading"
	StageUploading   Stage = "uploading"
	StageDeleting    Stage = "deleting"
)

// Event represents a progress event
type Event struct {
	Stage     Stage     `json:"stage"`
	Progress  float64   `json:"progress"`
	Message   string    `json:"message"`
	Blob      string    `json:"blob,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error,omitempty"`
}

// Tracker follows the operations of one direction (upload or download).
// Progress is a fraction in [0,1]: reset to 0 when an operation begins, never
// decreasing while it runs, and set to 1 only on completion. A failed
// operation leaves progress where it was.
type Tracker struct {
	mu        sync.RWMutex
	name      string
	stage     Stage
	progress  float64
	message   string
	blob      string
	err       error
	listeners []func(Event)
}

// NewTracker creates an idle tracker.
func NewTracker(name string) *Tracker {
	return &Tracker{
		name:      name,
		stage:     StageIdle,
		listeners: make([]func(Event), 0),
	}
}

// Name returns the direction this tracker follows.
func (t *Tracker) Name() string {
	return t.name
}

// AddListener adds a new progress event listener
func (t *Tracker) AddListener(listener func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, listener)
}

// RemoveListener removes a progress event listener
func (t *Tracker) RemoveListener(listener func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	listenerPtr := reflect.ValueOf(listener).Pointer()
	for i := range t.listeners {
		if reflect.ValueOf(t.listeners[i]).Pointer() == listenerPtr {
			t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
			break
		}
	}
}

// Begin starts an operation at stage and resets progress to 0.
func (t *Tracker) Begin(stage Stage, blob, message string) {
	t.mu.Lock()
	t.stage = stage
	t.progress = 0
	t.message = message
	t.blob = blob
	t.err = nil
	event := t.eventLocked()
	t.mu.Unlock()

	t.notifyListeners(event)
}

// Advance raises progress to fraction. Lower values are ignored and values
// at or above 1 are held just below it until Complete.
func (t *Tracker) Advance(fraction float64, message string) {
	t.mu.Lock()
	if t.stage == StageIdle {
		t.mu.Unlock()
		return
	}
	if fraction >= 1 {
		fraction = 0.99
	}
	if fraction > t.progress {
		t.progress = fraction
	}
	if message != "" {
		t.message = message
	}
	event := t.eventLocked()
	t.mu.Unlock()

	t.notifyListeners(event)
}

// Complete marks the operation finished and returns to idle.
func (t *Tracker) Complete(message string) {
	t.mu.Lock()
	t.progress = 1
	t.message = message
	event := t.eventLocked()
	t.stage = StageIdle
	t.mu.Unlock()

	t.notifyListeners(event)
}

// Fail records err and returns to idle without touching progress.
func (t *Tracker) Fail(err error) {
	t.mu.Lock()
	t.err = err
	t.message = err.Error()
	event := t.eventLocked()
	t.stage = StageIdle
	t.mu.Unlock()

	t.notifyListeners(event)
}

func (t *Tracker) eventLocked() Event {
	event := Event{
		Stage:     t.stage,
		Progress:  t.progress,
		Message:   t.message,
		Blob:      t.blob,
		Timestamp: time.Now(),
	}
	if t.err != nil {
		event.Error = t.err.Error()
	}
	return event
}

// notifyListeners sends an event to all registered listeners
func (t *Tracker) notifyListeners(event Event) {
	t.mu.RLock()
	listeners := append([]func(Event){}, t.listeners...)
	t.mu.RUnlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// Snapshot returns the current progress state
func (t *Tracker) Snapshot() Event {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.eventLocked()
}

// Progress returns the current fraction.
func (t *Tracker) Progress() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.progress
}

// MarshalJSON implements json.Marshaler for Event
func (e Event) MarshalJSON() ([]byte, error) {
	type Alias Event
	return json.Marshal(&struct {
		Timestamp string `json:"timestamp"`
		*Alias
	}{
		Timestamp: e.Timestamp.Format(time.RFC3339),
		Alias:     (*Alias)(&e),
	})
}

// UnmarshalJSON implements json.Unmarshaler for Event
func (e *Event) UnmarshalJSON(data []byte) error {
	type Alias Event
	aux := &struct {
		Timestamp string `json:"timestamp"`
		*Alias
	}{
		Alias: (*Alias)(e),
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t, err := time.Parse(time.RFC3339, aux.Timestamp)
	if err != nil {
		return err
	}
	e.Timestamp = t
	return nil
}
