package systems

import (
	"github.com/decker502/trashcatch/pkg/components"
	"github.com/decker502/trashcatch/pkg/ecs"
)

// FadeSystem 推进被回收垃圾的淡出进度
// 实体删除由回收时调度的任务完成，这里只负责动画进度
type FadeSystem struct {
	entityManager *ecs.EntityManager
}

// NewFadeSystem 创建淡出系统
func NewFadeSystem(em *ecs.EntityManager) *FadeSystem {
	return &FadeSystem{
		entityManager: em,
	}
}

// Update 更新所有拥有淡出组件的实体
func (s *FadeSystem) Update(deltaTime float64) {
	entities := ecs.GetEntitiesWith1[*components.FadeComponent](s.entityManager)

	for _, id := range entities {
		fade, ok := ecs.GetComponent[*components.FadeComponent](s.entityManager, id)
		if !ok {
			continue
		}
		fade.Elapsed += deltaTime
		if fade.Elapsed > fade.Duration {
			fade.Elapsed = fade.Duration
		}
	}
}
