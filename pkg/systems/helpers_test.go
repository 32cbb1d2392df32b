package systems

import (
	"math/rand"

	"github.com/decker502/trashcatch/pkg/components"
	"github.com/decker502/trashcatch/pkg/config"
	"github.com/decker502/trashcatch/pkg/ecs"
	"github.com/decker502/trashcatch/pkg/game"
)

// quietTuning 默认数值，但关闭抖动和猫爪，便于精确断言
func quietTuning() config.Tuning {
	t := config.DefaultTuning()
	t.Movement.Jitter = 0
	t.Shuffle.Chance = 0
	return t
}

type testWorld struct {
	tuning   config.Tuning
	em       *ecs.EntityManager
	gs       *game.GameState
	rng      *rand.Rand
	sched    *Scheduler
	events   *game.EventQueue
	pointer  *Pointer
	messages *MessageSystem
	spawner  *SpawnSystem
	level    *LevelSystem
	capture  *CaptureSystem
	drag     *DragSystem
	router   *InputRouter
	movement *MovementSystem
	shuffle  *ShuffleSystem
	fade     *FadeSystem
}

func newTestWorld(t config.Tuning) *testWorld {
	w := &testWorld{
		tuning:  t,
		em:      ecs.NewEntityManager(),
		rng:     rand.New(rand.NewSource(1)),
		events:  &game.EventQueue{},
		pointer: &Pointer{},
	}
	w.gs = game.NewGameState(t)
	w.sched = NewScheduler(w.em)
	w.messages = NewMessageSystem(w.sched, w.events, t.Message)
	w.spawner = NewSpawnSystem(w.em, w.gs, w.rng, w.sched, w.events, t)
	w.level = NewLevelSystem(w.em, w.gs, w.sched, w.events, w.messages, w.spawner, t)
	w.capture = NewCaptureSystem(w.em, w.gs, w.sched, w.events, w.messages, w.level, t)
	w.drag = NewDragSystem(w.em, w.capture, t)
	w.router = NewInputRouter(w.drag, w.pointer)
	w.movement = NewMovementSystem(w.em, w.gs, w.pointer, w.rng, t)
	w.shuffle = NewShuffleSystem(w.em, w.rng, w.sched, w.events, w.messages, t)
	w.fade = NewFadeSystem(w.em)
	return w
}

// step 模拟一帧，与 sim.Session.Step 的顺序一致
func (w *testWorld) step() {
	dt := w.tuning.FrameDuration()
	w.movement.Update()
	w.shuffle.Update()
	w.fade.Update(dt)
	w.sched.Update(dt)
	for _, id := range w.em.RemoveMarkedEntities() {
		w.sched.CancelOwner(id)
	}
}

func (w *testWorld) run(seconds float64) {
	frames := int(seconds*float64(w.tuning.FrameRate) + 0.5)
	for i := 0; i < frames; i++ {
		w.step()
	}
}

func addTrash(em *ecs.EntityManager, x, y, vx, vy float64, size int) ecs.EntityID {
	id := em.CreateEntity()
	em.AddComponent(id, &components.TrashComponent{Kind: components.TrashAvocado, Size: size})
	em.AddComponent(id, &components.PositionComponent{X: x, Y: y})
	em.AddComponent(id, &components.VelocityComponent{VX: vx, VY: vy})
	em.AddComponent(id, &components.DraggableComponent{})
	return id
}

func trashOf(em *ecs.EntityManager, id ecs.EntityID) *components.TrashComponent {
	c, _ := ecs.GetComponent[*components.TrashComponent](em, id)
	return c
}

func posOf(em *ecs.EntityManager, id ecs.EntityID) *components.PositionComponent {
	c, _ := ecs.GetComponent[*components.PositionComponent](em, id)
	return c
}

func velOf(em *ecs.EntityManager, id ecs.EntityID) *components.VelocityComponent {
	c, _ := ecs.GetComponent[*components.VelocityComponent](em, id)
	return c
}

// activeTrash 返回未被回收、未被标记删除的垃圾
func activeTrash(w *testWorld) []ecs.EntityID {
	var ids []ecs.EntityID
	for _, id := range ecs.GetEntitiesWith1[*components.TrashComponent](w.em) {
		if w.em.IsMarked(id) || trashOf(w.em, id).Caught {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
