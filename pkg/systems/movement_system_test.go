package systems

import (
	"math"
	"testing"

	"github.com/decker502/trashcatch/pkg/components"
	"github.com/decker502/trashcatch/pkg/ecs"
)

const eps = 1e-9

func TestMovementBounceOffLeftEdge(t *testing.T) {
	w := newTestWorld(quietTuning())
	id := addTrash(w.em, 4, 300, -2, 0, 50)

	w.movement.Update()

	pos := posOf(w.em, id)
	vel := velOf(w.em, id)
	if pos.X != 6 {
		t.Errorf("expected x clamped to margin 6, got %f", pos.X)
	}
	if math.Abs(vel.VX-1.6) > eps {
		t.Errorf("expected vx flipped and damped to 1.6, got %f", vel.VX)
	}
}

func TestMovementBounceOffBottomRight(t *testing.T) {
	w := newTestWorld(quietTuning())
	size := 50
	maxX := w.tuning.Layout.Width - float64(size) - 6
	maxY := w.tuning.Layout.Height - float64(size) - 6
	id := addTrash(w.em, maxX, maxY, 3, 1, size)

	w.movement.Update()

	pos := posOf(w.em, id)
	vel := velOf(w.em, id)
	if pos.X != maxX || pos.Y != maxY {
		t.Errorf("expected clamp to (%f, %f), got (%f, %f)", maxX, maxY, pos.X, pos.Y)
	}
	if math.Abs(vel.VX+2.4) > eps || math.Abs(vel.VY+0.8) > eps {
		t.Errorf("expected velocity (-2.4, -0.8), got (%f, %f)", vel.VX, vel.VY)
	}
}

func TestMovementFleesFromPointer(t *testing.T) {
	w := newTestWorld(quietTuning())
	id := addTrash(w.em, 275, 275, 0, 0, 50) // 中心 (300, 300)
	w.pointer.Set(250, 300)                  // 距离 50

	w.movement.Update()

	// max(2, 70/18) * (0.6 + 0.15) * 1 * 0.06
	want := (70.0 / 18.0) * 0.75 * 0.06
	vel := velOf(w.em, id)
	if math.Abs(vel.VX-want) > eps {
		t.Errorf("expected vx %f, got %f", want, vel.VX)
	}
	if math.Abs(vel.VY) > eps {
		t.Errorf("expected vy 0, got %f", vel.VY)
	}
	if !trashOf(w.em, id).Fleeing {
		t.Error("expected entity to be marked fleeing")
	}
}

func TestMovementIgnoresDistantPointer(t *testing.T) {
	w := newTestWorld(quietTuning())
	id := addTrash(w.em, 275, 275, 0, 0, 50)
	w.pointer.Set(100, 100)

	w.movement.Update()

	vel := velOf(w.em, id)
	if vel.VX != 0 || vel.VY != 0 {
		t.Errorf("expected no flee outside radius, got (%f, %f)", vel.VX, vel.VY)
	}
	if trashOf(w.em, id).Fleeing {
		t.Error("entity should not be fleeing")
	}
}

func TestMovementIgnoresUnknownPointer(t *testing.T) {
	w := newTestWorld(quietTuning())
	id := addTrash(w.em, 300, 300, 0, 0, 50)

	w.movement.Update()

	vel := velOf(w.em, id)
	if vel.VX != 0 || vel.VY != 0 {
		t.Errorf("pointer not yet seen, expected no flee, got (%f, %f)", vel.VX, vel.VY)
	}
}

func TestMovementPointerOnCenterPicksDirection(t *testing.T) {
	w := newTestWorld(quietTuning())
	id := addTrash(w.em, 275, 275, 0, 0, 50)
	w.pointer.Set(300, 300)

	w.movement.Update()

	vel := velOf(w.em, id)
	got := math.Hypot(vel.VX, vel.VY)
	want := w.movement.FleeStrength(0) * w.tuning.Movement.FleeImpulse
	if math.IsNaN(got) || math.Abs(got-want) > 1e-6 {
		t.Errorf("expected impulse magnitude %f, got %f", want, got)
	}
}

func TestMovementSkipsDraggedAndCaptured(t *testing.T) {
	w := newTestWorld(quietTuning())
	dragged := addTrash(w.em, 100, 100, 1, 1, 50)
	trashOf(w.em, dragged).State = components.TrashDragging
	caught := addTrash(w.em, 200, 200, 1, 1, 50)
	trashOf(w.em, caught).Caught = true
	trashOf(w.em, caught).State = components.TrashCaptured

	w.movement.Update()

	if p := posOf(w.em, dragged); p.X != 100 || p.Y != 100 {
		t.Errorf("dragged entity moved to (%f, %f)", p.X, p.Y)
	}
	if p := posOf(w.em, caught); p.X != 200 || p.Y != 200 {
		t.Errorf("captured entity moved to (%f, %f)", p.X, p.Y)
	}
}

func TestMovementClampsSpeed(t *testing.T) {
	w := newTestWorld(quietTuning())
	id := addTrash(w.em, 300, 300, 30, 40, 50)

	w.movement.Update()

	vel := velOf(w.em, id)
	if speed := math.Hypot(vel.VX, vel.VY); math.Abs(speed-w.tuning.Movement.MaxSpeed) > 1e-6 {
		t.Errorf("expected speed capped at %f, got %f", w.tuning.Movement.MaxSpeed, speed)
	}
}

func TestFleeStrengthNonIncreasingWithDistance(t *testing.T) {
	w := newTestWorld(quietTuning())
	prev := w.movement.FleeStrength(0)
	for d := 1.0; d < w.tuning.Movement.FleeRadius; d++ {
		cur := w.movement.FleeStrength(d)
		if cur > prev+eps {
			t.Fatalf("flee strength increased from %f to %f at distance %f", prev, cur, d)
		}
		if cur <= 0 {
			t.Fatalf("flee strength must stay positive inside radius, got %f", cur)
		}
		prev = cur
	}
}

func TestMovementStaysInBounds(t *testing.T) {
	tuning := quietTuning()
	tuning.Movement.Jitter = 0.03
	w := newTestWorld(tuning)
	for i := 0; i < 8; i++ {
		addTrash(w.em, 100+float64(i)*60, 200, float64(i%3)-1, float64(i%2)*2-1, 40+i*5)
	}

	margin := tuning.Movement.Margin
	for frame := 0; frame < 2000; frame++ {
		// 指针在场内来回扫动
		w.pointer.Set(float64(frame*7%800), float64(frame*3%600))
		w.movement.Update()

		for _, id := range ecs.GetEntitiesWith1[*components.TrashComponent](w.em) {
			trash := trashOf(w.em, id)
			pos := posOf(w.em, id)
			size := float64(trash.Size)
			if pos.X < margin || pos.Y < margin ||
				pos.X > tuning.Layout.Width-size-margin || pos.Y > tuning.Layout.Height-size-margin {
				t.Fatalf("frame %d: entity %d out of bounds at (%f, %f)", frame, id, pos.X, pos.Y)
			}
		}
	}
}
