package systems

import (
	"log"
	"math"
	"math/rand"

	"github.com/decker502/trashcatch/pkg/components"
	"github.com/decker502/trashcatch/pkg/config"
	"github.com/decker502/trashcatch/pkg/ecs"
	"github.com/decker502/trashcatch/pkg/game"
	"github.com/decker502/trashcatch/pkg/utils"
)

// SpawnSystem 生成垃圾实体
//
// 尺寸随关卡变小，初速度随关卡和全局速度倍率变大。
// 新实体以 PopScale 的缩放出现，PopDelay 秒后恢复到 1.0。
type SpawnSystem struct {
	entityManager *ecs.EntityManager
	gameState     *game.GameState
	rng           *rand.Rand
	scheduler     *Scheduler
	events        *game.EventQueue
	spawn         config.SpawnConfig
	layout        config.LayoutConfig
}

// NewSpawnSystem 创建生成系统
func NewSpawnSystem(em *ecs.EntityManager, gs *game.GameState, rng *rand.Rand, s *Scheduler, events *game.EventQueue, t config.Tuning) *SpawnSystem {
	return &SpawnSystem{
		entityManager: em,
		gameState:     gs,
		rng:           rng,
		scheduler:     s,
		events:        events,
		spawn:         t.Spawn,
		layout:        t.Layout,
	}
}

// SpawnBatch 生成 count 个垃圾，返回新实体ID
func (s *SpawnSystem) SpawnBatch(count int) []ecs.EntityID {
	ids := make([]ecs.EntityID, 0, count)
	for i := 0; i < count; i++ {
		ids = append(ids, s.spawnOne())
	}
	s.events.Push(game.Event{Type: game.EventSpawned, Count: count, Level: s.gameState.Level})
	log.Printf("[SpawnSystem] 第 %d 关生成 %d 个垃圾", s.gameState.Level, count)
	return ids
}

// SizeForLevel 返回一次尺寸抽样：max(SizeFloor, round(U(SizeMin, SizeMax) - level*SizeLevelStep))
func (s *SpawnSystem) SizeForLevel(level int) int {
	raw := utils.RandRange(s.rng, s.spawn.SizeMin, s.spawn.SizeMax) - float64(level)*s.spawn.SizeLevelStep
	size := int(math.Round(raw))
	if size < s.spawn.SizeFloor {
		size = s.spawn.SizeFloor
	}
	return size
}

func (s *SpawnSystem) spawnOne() ecs.EntityID {
	level := s.gameState.Level
	size := s.SizeForLevel(level)

	margin := s.spawn.Margin
	x := utils.RandRange(s.rng, margin, s.layout.Width-float64(size)-margin)
	y := utils.RandRange(s.rng, margin, s.layout.Height-float64(size)-margin)

	speed := (s.spawn.SpeedBase + float64(level)*s.spawn.SpeedLevelStep) * s.gameState.SpeedMultiplier
	vx := utils.RandSign(s.rng, s.spawn.SpeedRange) * speed
	vy := utils.RandSign(s.rng, s.spawn.SpeedRange) * speed

	kind := components.TrashKind(s.rng.Intn(components.TrashKindCount))

	id := s.entityManager.CreateEntity()
	s.entityManager.AddComponent(id, &components.TrashComponent{
		Kind:  kind,
		Size:  size,
		State: components.TrashIdle,
	})
	s.entityManager.AddComponent(id, &components.PositionComponent{X: x, Y: y})
	s.entityManager.AddComponent(id, &components.VelocityComponent{VX: vx, VY: vy})
	s.entityManager.AddComponent(id, &components.DraggableComponent{})

	pop := &components.PopComponent{Scale: s.spawn.PopScale}
	s.entityManager.AddComponent(id, pop)
	s.scheduler.AfterFor(id, s.spawn.PopDelay, "spawn-pop", func() {
		pop.Scale = 1
	})

	return id
}
