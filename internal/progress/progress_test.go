package progress

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestTrackerLifecycle(t *testing.T) {
	tracker := NewTracker("upload")

	var receivedEvents []Event
	tracker.AddListener(func(event Event) {
		receivedEvents = append(receivedEvents, event)
	})

	tracker.Begin(StageUploading, "Gig 1.json", "Uploading")
	tracker.Advance(0.5, "Encoded")
	tracker.Complete("Uploaded")

	if len(receivedEvents) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(receivedEvents))
	}
	if receivedEvents[0].Progress != 0 {
		t.Errorf("Expected progress reset to 0, got %f", receivedEvents[0].Progress)
	}
	if receivedEvents[2].Stage != StageUploading || receivedEvents[2].Progress != 1 {
		t.Errorf("Expected completed upload event, got %s at %f", receivedEvents[2].Stage, receivedEvents[2].Progress)
	}

	state := tracker.Snapshot()
	if state.Stage != StageIdle {
		t.Errorf("Expected idle stage, got %s", state.Stage)
	}
	if state.Blob != "Gig 1.json" {
		t.Errorf("Expected blob Gig 1.json, got %s", state.Blob)
	}
}

func TestProgressIsMonotonic(t *testing.T) {
	tracker := NewTracker("download")
	tracker.Begin(StageDownloading, "a.dat", "")

	tracker.Advance(0.6, "")
	tracker.Advance(0.3, "")
	if got := tracker.Progress(); got != 0.6 {
		t.Errorf("Expected progress 0.6, got %f", got)
	}

	tracker.Advance(1, "")
	if got := tracker.Progress(); got >= 1 {
		t.Errorf("Expected progress below 1 before completion, got %f", got)
	}

	// A new operation starts again from zero.
	tracker.Begin(StageListing, "", "")
	if got := tracker.Progress(); got != 0 {
		t.Errorf("Expected progress reset, got %f", got)
	}
}

func TestAdvanceWhileIdleIsIgnored(t *testing.T) {
	tracker := NewTracker("upload")
	tracker.Advance(0.5, "stray")

	if got := tracker.Progress(); got != 0 {
		t.Errorf("Expected progress 0, got %f", got)
	}
}

func TestFailLeavesProgress(t *testing.T) {
	tracker := NewTracker("upload")
	tracker.Begin(StageUploading, "Gig 1.json", "")
	tracker.Advance(0.5, "")

	tracker.Fail(context.Canceled)

	state := tracker.Snapshot()
	if state.Stage != StageIdle {
		t.Errorf("Expected idle stage, got %s", state.Stage)
	}
	if state.Progress != 0.5 {
		t.Errorf("Expected progress 0.5, got %f", state.Progress)
	}
	if state.Error != context.Canceled.Error() {
		t.Errorf("Expected error %v, got %s", context.Canceled, state.Error)
	}

	tracker.Begin(StageUploading, "Gig 2.json", "")
	if tracker.Snapshot().Error != "" {
		t.Error("Expected error cleared by Begin")
	}
}

func TestEventJSON(t *testing.T) {
	event := Event{
		Stage:     StageDownloading,
		Progress:  0.5,
		Message:   "Downloading...",
		Blob:      "Gig 1.json",
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("Failed to marshal event: %v", err)
	}

	var unmarshaled Event
	if err := json.Unmarshal(data, &unmarshaled); err != nil {
		t.Fatalf("Failed to unmarshal event: %v", err)
	}

	if unmarshaled.Stage != event.Stage {
		t.Errorf("Expected stage %s, got %s", event.Stage, unmarshaled.Stage)
	}
	if unmarshaled.Progress != event.Progress {
		t.Errorf("Expected progress %f, got %f", event.Progress, unmarshaled.Progress)
	}
	if unmarshaled.Blob != event.Blob {
		t.Errorf("Expected blob %s, got %s", event.Blob, unmarshaled.Blob)
	}
}

func TestListenerManagement(t *testing.T) {
	tracker := NewTracker("upload")

	var receivedEvents []Event
	listener := func(event Event) {
		receivedEvents = append(receivedEvents, event)
	}
	tracker.AddListener(listener)

	tracker.Begin(StageUploading, "", "Test")

	if len(receivedEvents) != 1 {
		t.Errorf("Expected 1 event, got %d", len(receivedEvents))
	}

	tracker.RemoveListener(listener)

	tracker.Advance(0.75, "Test 2")

	if len(receivedEvents) != 1 {
		t.Errorf("Expected 1 event after removal, got %d", len(receivedEvents))
	}
}
