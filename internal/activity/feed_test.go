package activity

import (
	"fmt"
	"testing"
)

func TestNewFeed_SeedsQuickStart(t *testing.T) {
	feed := NewFeed(0)

	messages := feed.Messages()
	if len(messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(messages))
	}
	if messages[0] != "Upload sample footage or pick a provider to begin." {
		t.Errorf("messages[0] = %q", messages[0])
	}
	if messages[1] != "Plan routes using the survey generator or import your own." {
		t.Errorf("messages[1] = %q", messages[1])
	}
}

func TestRecord_AppendsNewestLast(t *testing.T) {
	feed := NewFeed(10)

	feed.Record("Planned %d waypoints", 9)

	messages := feed.Messages()
	if messages[len(messages)-1] != "Planned 9 waypoints" {
		t.Errorf("last message = %q", messages[len(messages)-1])
	}
}

func TestRecord_EvictsOldestBeyondCapacity(t *testing.T) {
	feed := NewFeed(3)

	for i := 0; i < 5; i++ {
		feed.Record(fmt.Sprintf("event %d", i))
	}

	messages := feed.Messages()
	if len(messages) != 3 {
		t.Fatalf("messages = %d, want 3", len(messages))
	}
	want := []string{"event 2", "event 3", "event 4"}
	for i := range want {
		if messages[i] != want[i] {
			t.Errorf("messages[%d] = %q, want %q", i, messages[i], want[i])
		}
	}
}

func TestMessages_ReturnsDetachedCopy(t *testing.T) {
	feed := NewFeed(10)

	messages := feed.Messages()
	messages[0] = "tampered"

	if feed.Messages()[0] == "tampered" {
		t.Error("mutating the returned slice leaked into feed state")
	}
}
