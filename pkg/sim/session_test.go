package sim

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/decker502/trashcatch/pkg/components"
	"github.com/decker502/trashcatch/pkg/config"
	"github.com/decker502/trashcatch/pkg/game"
	"github.com/decker502/trashcatch/pkg/systems"
)

func stepSeconds(s *Session, seconds float64) {
	frames := int(seconds*float64(s.Tuning().FrameRate) + 0.5)
	for i := 0; i < frames; i++ {
		s.Step()
	}
}

// dropInBin 把实体拖进垃圾桶中心
func dropInBin(s *Session, e EntityView) {
	half := float64(e.Size) / 2
	bin := s.Tuning().Layout.Bin
	s.PointerPressed(e.X+half, e.Y+half)
	s.PointerMoved(bin.X+bin.W/2, bin.Y+bin.H/2)
	s.PointerReleased(bin.X+bin.W/2, bin.Y+bin.H/2)
}

// topmostActive 返回最上层的活动实体，按下其中心一定命中它
func topmostActive(t *testing.T, s *Session) EntityView {
	t.Helper()
	views := activeViews(s.Snapshot())
	if len(views) == 0 {
		t.Fatal("no active entities")
	}
	return views[len(views)-1]
}

func activeViews(snap Snapshot) []EntityView {
	var out []EntityView
	for _, e := range snap.Entities {
		if e.State != components.TrashCaptured {
			out = append(out, e)
		}
	}
	return out
}

func TestNewSessionSpawnsFirstBatch(t *testing.T) {
	tuning := config.DefaultTuning()
	tuning.Shuffle.Chance = 0
	s := NewSession(tuning, 1)

	snap := s.Snapshot()
	if snap.Level != 1 || snap.Recycled != 0 {
		t.Errorf("expected level 1 / recycled 0, got %d / %d", snap.Level, snap.Recycled)
	}
	if len(snap.Entities) != 3 {
		t.Errorf("expected 3 entities, got %d", len(snap.Entities))
	}
	if snap.Message != systems.MessageWelcome {
		t.Errorf("expected welcome message, got %q", snap.Message)
	}

	stepSeconds(s, 2)
	if msg := s.Snapshot().Message; msg != "" {
		t.Errorf("welcome message should expire, got %q", msg)
	}
}

func TestCaptureWholeBatchScenario(t *testing.T) {
	s := NewSession(config.DefaultTuning(), 42)

	for i := 0; i < 3; i++ {
		dropInBin(s, topmostActive(t, s))
	}
	if s.Recycled() != 3 {
		t.Fatalf("expected recycled 3, got %d", s.Recycled())
	}
	if s.Level() != 2 {
		t.Fatalf("expected level 2, got %d", s.Level())
	}

	stepSeconds(s, 1)
	snap := s.Snapshot()
	if n := len(activeViews(snap)); n != 5 {
		t.Errorf("expected 5 new entities at level 2, got %d", n)
	}
	if len(snap.Entities) != 5 {
		t.Errorf("captured entities should be gone after the fade, got %d total", len(snap.Entities))
	}

	var captured, levelUps, spawned int
	for _, e := range s.DrainEvents() {
		switch e.Type {
		case game.EventCaptured:
			captured++
		case game.EventLevelUp:
			levelUps++
		case game.EventSpawned:
			spawned++
		}
	}
	if captured != 3 || levelUps != 1 || spawned != 2 {
		t.Errorf("expected 3 captured / 1 level-up / 2 spawned events, got %d / %d / %d", captured, levelUps, spawned)
	}
}

func TestSameSeedSameInputsSameState(t *testing.T) {
	run := func() Snapshot {
		s := NewSession(config.DefaultTuning(), 2024)
		rng := rand.New(rand.NewSource(5))
		for i := 0; i < 600; i++ {
			s.PointerMoved(rng.Float64()*800, rng.Float64()*600)
			if i%97 == 0 {
				if views := activeViews(s.Snapshot()); len(views) > 0 {
					dropInBin(s, views[len(views)-1])
				}
			}
			s.Step()
		}
		return s.Snapshot()
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Error("identical seed and inputs produced different snapshots")
	}
}

func TestEntitiesStayInBoundsUnderRandomInput(t *testing.T) {
	tuning := config.DefaultTuning()
	tuning.Shuffle.Chance = 0.05
	s := NewSession(tuning, 7)
	rng := rand.New(rand.NewSource(8))
	margin := tuning.Movement.Margin

	for i := 0; i < 3000; i++ {
		x, y := rng.Float64()*900-50, rng.Float64()*700-50
		switch rng.Intn(10) {
		case 0:
			s.PointerPressed(x, y)
		case 1:
			s.PointerReleased(x, y)
		default:
			s.PointerMoved(x, y)
		}
		s.Step()

		for _, e := range s.Snapshot().Entities {
			size := float64(e.Size)
			if e.X < margin-1e-9 || e.Y < margin-1e-9 ||
				e.X > tuning.Layout.Width-size-margin+1e-9 || e.Y > tuning.Layout.Height-size-margin+1e-9 {
				t.Fatalf("frame %d: entity %d out of bounds at (%f, %f)", i, e.ID, e.X, e.Y)
			}
		}
	}
}

func TestDistantPointerOnlyJitters(t *testing.T) {
	tuning := config.DefaultTuning()
	tuning.Shuffle.Chance = 0
	s := NewSession(tuning, 3)

	before := s.Snapshot()
	target := before.Entities[0]
	half := float64(target.Size) / 2
	// 指针距中心 200
	s.PointerMoved(target.X+half+200, target.Y+half)
	s.Step()

	after, _ := s.Snapshot().EntityAt(target.ID)
	if after.Fleeing {
		t.Error("entity 200 away must not flee")
	}
}

func TestSkipLevel(t *testing.T) {
	s := NewSession(config.DefaultTuning(), 11)

	if !s.SkipLevel() {
		t.Fatal("SkipLevel should succeed")
	}
	if s.Level() != 2 {
		t.Errorf("expected level 2, got %d", s.Level())
	}
	if s.ActiveCount() != 0 {
		t.Errorf("current batch should be removed, got %d active", s.ActiveCount())
	}
	if s.SkipLevel() {
		t.Error("SkipLevel must be rejected while the next batch is pending")
	}

	stepSeconds(s, 1)
	if s.ActiveCount() != 5 {
		t.Errorf("expected 5 entities at level 2, got %d", s.ActiveCount())
	}
	if s.Recycled() != 0 {
		t.Errorf("skipping must not count as recycling, got %d", s.Recycled())
	}
}

func TestSkipLevelWhileDragging(t *testing.T) {
	s := NewSession(config.DefaultTuning(), 12)
	e := s.Snapshot().Entities[0]
	s.PointerPressed(e.X+1, e.Y+1)

	s.SkipLevel()
	s.PointerMoved(400, 300)
	s.PointerReleased(400, 300)
	stepSeconds(s, 1)

	if s.Recycled() != 0 {
		t.Errorf("expected no recycle, got %d", s.Recycled())
	}
}

func TestSpawnOne(t *testing.T) {
	s := NewSession(config.DefaultTuning(), 13)
	if _, ok := s.SpawnOne(); !ok {
		t.Fatal("SpawnOne should succeed")
	}
	if s.ActiveCount() != 4 {
		t.Errorf("expected 4 active, got %d", s.ActiveCount())
	}
}

func TestSpawnOneWaitsForNextBatch(t *testing.T) {
	s := NewSession(config.DefaultTuning(), 13)
	if !s.SkipLevel() {
		t.Fatal("SkipLevel should succeed")
	}
	if _, ok := s.SpawnOne(); ok {
		t.Error("SpawnOne must be rejected while the next batch is pending")
	}
	stepSeconds(s, 1)
	if s.Level() != 2 || s.ActiveCount() != 5 {
		t.Errorf("expected a single batch of 5 at level 2, got level %d with %d active", s.Level(), s.ActiveCount())
	}
}

func TestCapturedEntityFadesInSnapshot(t *testing.T) {
	tuning := config.DefaultTuning()
	tuning.Shuffle.Chance = 0
	s := NewSession(tuning, 14)
	e := topmostActive(t, s)
	dropInBin(s, e)

	stepSeconds(s, tuning.Capture.FadeDuration/2)
	view, ok := s.Snapshot().EntityAt(e.ID)
	if !ok {
		t.Fatal("entity should still exist mid-fade")
	}
	if view.State != components.TrashCaptured {
		t.Errorf("expected captured state, got %s", view.State)
	}
	if view.Alpha <= 0 || view.Alpha >= 1 || view.Scale >= 1 || view.Rotation <= 0 {
		t.Errorf("unexpected fade visuals %+v", view)
	}

	stepSeconds(s, tuning.Capture.FadeDuration)
	if _, ok := s.Snapshot().EntityAt(e.ID); ok {
		t.Error("entity should be removed after the fade")
	}
}

type memoryRecorder struct {
	frames   []uint64
	events   []systems.PointerEvent
	commands []Command
}

func (m *memoryRecorder) RecordCommand(frame uint64, cmd Command) error {
	m.commands = append(m.commands, cmd)
	return nil
}

func (m *memoryRecorder) RecordInput(frame uint64, ev systems.PointerEvent) error {
	m.frames = append(m.frames, frame)
	m.events = append(m.events, ev)
	return nil
}

func TestRecorderSeesInputs(t *testing.T) {
	s := NewSession(config.DefaultTuning(), 15)
	rec := &memoryRecorder{}
	s.SetRecorder(rec)

	s.Step()
	s.PointerMoved(10, 20)
	s.Step()
	s.PointerPressed(30, 40)

	if len(rec.events) != 2 {
		t.Fatalf("expected 2 recorded inputs, got %d", len(rec.events))
	}
	if rec.frames[0] != 1 || rec.frames[1] != 2 {
		t.Errorf("unexpected frames %v", rec.frames)
	}
	if rec.events[1].Kind != systems.PointerPress || rec.events[1].X != 30 {
		t.Errorf("unexpected event %+v", rec.events[1])
	}
}
