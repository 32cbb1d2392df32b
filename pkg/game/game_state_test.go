package game

import (
	"testing"

	"github.com/decker502/trashcatch/pkg/config"
)

func TestNewGameState(t *testing.T) {
	gs := NewGameState(config.DefaultTuning())

	if gs.Level != 1 {
		t.Errorf("Level: got %d, want 1", gs.Level)
	}
	if gs.Recycled != 0 {
		t.Errorf("Recycled: got %d, want 0", gs.Recycled)
	}
	if gs.SpeedMultiplier != 1 {
		t.Errorf("SpeedMultiplier: got %v, want 1", gs.SpeedMultiplier)
	}
	if gs.TargetCount != 3 {
		t.Errorf("TargetCount: got %d, want 3", gs.TargetCount)
	}
}

// TestLevelUpProgression 每次升级数量为 min(12, 3+level)，速度倍率 +0.18
func TestLevelUpProgression(t *testing.T) {
	gs := NewGameState(config.DefaultTuning())

	tests := []struct {
		level int
		count int
	}{
		{2, 5}, {3, 6}, {4, 7}, {5, 8}, {6, 9}, {7, 10}, {8, 11}, {9, 12}, {10, 12}, {15, 12},
	}

	prevSpeed := gs.SpeedMultiplier
	for _, tt := range tests {
		for gs.Level < tt.level {
			gs.LevelUp()
			if gs.SpeedMultiplier <= prevSpeed {
				t.Fatalf("speed multiplier should increase, got %v after %v", gs.SpeedMultiplier, prevSpeed)
			}
			prevSpeed = gs.SpeedMultiplier
		}
		if gs.TargetCount != tt.count {
			t.Errorf("level %d: TargetCount got %d, want %d", tt.level, gs.TargetCount, tt.count)
		}
	}

	want := 1 + 0.18*float64(gs.Level-1)
	if diff := gs.SpeedMultiplier - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("SpeedMultiplier at level %d: got %v, want %v", gs.Level, gs.SpeedMultiplier, want)
	}
}

func TestAddRecycled(t *testing.T) {
	gs := NewGameState(config.DefaultTuning())
	for i := 1; i <= 4; i++ {
		if got := gs.AddRecycled(); got != i {
			t.Errorf("AddRecycled #%d: got %d", i, got)
		}
	}
}

func TestEventQueueDrain(t *testing.T) {
	var q EventQueue
	if q.Drain() != nil {
		t.Error("empty queue should drain to nil")
	}

	q.Push(Event{Type: EventCaptured, Recycled: 1})
	q.Push(Event{Type: EventLevelUp, Level: 2})
	if q.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", q.Len())
	}

	events := q.Drain()
	if len(events) != 2 || events[0].Type != EventCaptured || events[1].Type != EventLevelUp {
		t.Errorf("unexpected drain order: %+v", events)
	}
	if q.Len() != 0 {
		t.Error("queue should be empty after drain")
	}
}

func TestEventTypeString(t *testing.T) {
	names := map[EventType]string{
		EventCaptured: "captured",
		EventLevelUp:  "level_up",
		EventMessage:  "message",
		EventSpawned:  "spawned",
		EventPaw:      "paw",
		EventShuffled: "shuffled",
		EventType(99): "unknown",
	}
	for typ, want := range names {
		if got := typ.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", typ, got, want)
		}
	}
}

func TestEventQueueStampsFrame(t *testing.T) {
	var q EventQueue
	q.SetFrame(42)
	q.Push(Event{Type: EventSpawned, Count: 3})
	events := q.Drain()
	if len(events) != 1 || events[0].Frame != 42 {
		t.Errorf("expected frame 42, got %+v", events)
	}
}
