package systems

import (
	"log"

	"github.com/decker502/trashcatch/pkg/components"
	"github.com/decker502/trashcatch/pkg/config"
	"github.com/decker502/trashcatch/pkg/ecs"
	"github.com/decker502/trashcatch/pkg/game"
)

// LevelSystem 关卡推进
//
// 当前批次的垃圾全部回收后进入下一关，并在 RespawnDelay 秒后生成新一批。
// 等待生成期间不会再次升级，因此同一时刻最多只有一批垃圾。
type LevelSystem struct {
	entityManager *ecs.EntityManager
	gameState     *game.GameState
	scheduler     *Scheduler
	events        *game.EventQueue
	messages      *MessageSystem
	spawner       *SpawnSystem
	respawnDelay  float64

	respawnPending bool
}

// NewLevelSystem 创建关卡系统
func NewLevelSystem(em *ecs.EntityManager, gs *game.GameState, s *Scheduler, events *game.EventQueue, messages *MessageSystem, spawner *SpawnSystem, t config.Tuning) *LevelSystem {
	return &LevelSystem{
		entityManager: em,
		gameState:     gs,
		scheduler:     s,
		events:        events,
		messages:      messages,
		spawner:       spawner,
		respawnDelay:  t.Level.RespawnDelay,
	}
}

// ActiveCount 返回未被回收、未被标记删除的垃圾数量
func (s *LevelSystem) ActiveCount() int {
	n := 0
	for _, id := range ecs.GetEntitiesWith1[*components.TrashComponent](s.entityManager) {
		if s.entityManager.IsMarked(id) {
			continue
		}
		trash, _ := ecs.GetComponent[*components.TrashComponent](s.entityManager, id)
		if trash.Active() {
			n++
		}
	}
	return n
}

// RespawnPending 是否正在等待生成下一批
func (s *LevelSystem) RespawnPending() bool {
	return s.respawnPending
}

// CheckBatchCleared 当前批次清空时升级，返回是否升级
func (s *LevelSystem) CheckBatchCleared() bool {
	if s.respawnPending || s.ActiveCount() > 0 {
		return false
	}
	s.LevelUp()
	return true
}

// LevelUp 无条件进入下一关并安排生成新一批
// 等待生成期间调用会被忽略
func (s *LevelSystem) LevelUp() {
	if s.respawnPending {
		return
	}
	level := s.gameState.LevelUp()
	s.events.Push(game.Event{Type: game.EventLevelUp, Level: level})
	s.messages.Show(MessageLevelUp, 0)
	log.Printf("[LevelSystem] 进入第 %d 关，速度倍率 %.2f，下一批 %d 个",
		level, s.gameState.SpeedMultiplier, s.gameState.TargetCount)

	s.respawnPending = true
	s.scheduler.After(s.respawnDelay, "respawn", func() {
		s.respawnPending = false
		s.spawner.SpawnBatch(s.gameState.TargetCount)
	})
}
