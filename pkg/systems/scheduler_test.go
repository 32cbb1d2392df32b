package systems

import (
	"testing"

	"github.com/decker502/trashcatch/pkg/ecs"
)

func TestSchedulerFiresInDueOrder(t *testing.T) {
	s := NewScheduler(ecs.NewEntityManager())
	var order []string

	s.After(0.5, "b", func() { order = append(order, "b") })
	s.After(0.2, "a", func() { order = append(order, "a") })
	s.After(0.5, "c", func() { order = append(order, "c") })

	s.Update(0.1)
	if len(order) != 0 {
		t.Fatalf("nothing should fire before 0.2s, got %v", order)
	}

	s.Update(0.5)
	want := []string{"a", "b", "c"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d]: expected %s, got %s", i, want[i], order[i])
		}
	}
	if s.Pending() != 0 {
		t.Errorf("expected no pending tasks, got %d", s.Pending())
	}
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler(ecs.NewEntityManager())
	fired := false
	tok := s.After(0.1, "cancel-me", func() { fired = true })

	if !s.Cancel(tok) {
		t.Fatal("Cancel should succeed for a pending task")
	}
	if s.Cancel(tok) {
		t.Error("second Cancel should report false")
	}
	s.Update(1)
	if fired {
		t.Error("cancelled task fired")
	}
}

func TestSchedulerDropsTaskForRemovedOwner(t *testing.T) {
	em := ecs.NewEntityManager()
	s := NewScheduler(em)
	id := em.CreateEntity()

	fired := false
	s.AfterFor(id, 0.1, "owned", func() { fired = true })

	em.DestroyEntity(id)
	em.RemoveMarkedEntities()
	s.Update(0.2)

	if fired {
		t.Error("task of a removed entity must not fire")
	}
}

func TestSchedulerCancelOwner(t *testing.T) {
	em := ecs.NewEntityManager()
	s := NewScheduler(em)
	a := em.CreateEntity()
	b := em.CreateEntity()

	var fired []ecs.EntityID
	s.AfterFor(a, 0.1, "a1", func() { fired = append(fired, a) })
	s.AfterFor(a, 0.2, "a2", func() { fired = append(fired, a) })
	s.AfterFor(b, 0.1, "b1", func() { fired = append(fired, b) })

	if n := s.CancelOwner(a); n != 2 {
		t.Errorf("expected 2 cancelled tasks, got %d", n)
	}
	s.Update(1)
	if len(fired) != 1 || fired[0] != b {
		t.Errorf("expected only b to fire, got %v", fired)
	}
}

func TestSchedulerZeroDelayScheduledFromCallback(t *testing.T) {
	s := NewScheduler(ecs.NewEntityManager())
	count := 0
	s.After(0.1, "outer", func() {
		count++
		s.After(0, "inner", func() { count++ })
	})
	s.Update(0.1)
	if count != 2 {
		t.Errorf("expected both tasks to fire in one update, got %d", count)
	}
}
