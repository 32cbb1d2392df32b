package systems

import (
	"log"

	"github.com/decker502/trashcatch/pkg/components"
	"github.com/decker502/trashcatch/pkg/config"
	"github.com/decker502/trashcatch/pkg/ecs"
	"github.com/decker502/trashcatch/pkg/game"
)

// CaptureSystem 回收垃圾：计数、提示、淡出删除，并检查是否升级
type CaptureSystem struct {
	entityManager *ecs.EntityManager
	gameState     *game.GameState
	scheduler     *Scheduler
	events        *game.EventQueue
	messages      *MessageSystem
	level         *LevelSystem
	bin           config.Rect
	fadeDuration  float64
}

// NewCaptureSystem 创建回收系统
func NewCaptureSystem(em *ecs.EntityManager, gs *game.GameState, s *Scheduler, events *game.EventQueue, messages *MessageSystem, level *LevelSystem, t config.Tuning) *CaptureSystem {
	return &CaptureSystem{
		entityManager: em,
		gameState:     gs,
		scheduler:     s,
		events:        events,
		messages:      messages,
		level:         level,
		bin:           t.Layout.Bin,
		fadeDuration:  t.Capture.FadeDuration,
	}
}

// InBin 判断垃圾中心是否严格位于垃圾桶内
func (s *CaptureSystem) InBin(id ecs.EntityID) bool {
	trash, ok := ecs.GetComponent[*components.TrashComponent](s.entityManager, id)
	if !ok {
		return false
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
	if !ok {
		return false
	}
	return s.bin.ContainsStrict(trash.Center(pos))
}

// Capture 回收垃圾
// 每个实体只能被回收一次，重复调用返回 false
func (s *CaptureSystem) Capture(id ecs.EntityID) bool {
	trash, ok := ecs.GetComponent[*components.TrashComponent](s.entityManager, id)
	if !ok || trash.Caught {
		return false
	}
	trash.Caught = true
	trash.State = components.TrashCaptured
	trash.Fleeing = false
	if drag, ok := ecs.GetComponent[*components.DraggableComponent](s.entityManager, id); ok {
		drag.Dragging = false
	}

	recycled := s.gameState.AddRecycled()
	s.events.Push(game.Event{Type: game.EventCaptured, EntityID: uint64(id), Recycled: recycled})
	s.messages.Show(MessageRecycled, 0)
	log.Printf("[CaptureSystem] 回收实体 %d (%s)，累计 %d", id, trash.Kind, recycled)

	s.entityManager.AddComponent(id, &components.FadeComponent{Duration: s.fadeDuration})
	s.scheduler.AfterFor(id, s.fadeDuration, "fade-remove", func() {
		s.entityManager.DestroyEntity(id)
	})

	s.level.CheckBatchCleared()
	return true
}
