package systems

import (
	"github.com/decker502/trashcatch/pkg/components"
	"github.com/decker502/trashcatch/pkg/config"
	"github.com/decker502/trashcatch/pkg/ecs"
)

// DragSystem 垃圾拖拽
//
// 实现 HitTester：按下点落在某个空闲垃圾的包围盒内时返回该垃圾的拖拽句柄，
// 多个垃圾重叠时选择最后生成的（最上层）。
// 拖拽中位置由指针驱动并钳制在游戏区域内，释放时中心在垃圾桶内则回收，
// 否则恢复为空闲并保留原速度。
type DragSystem struct {
	entityManager *ecs.EntityManager
	capture       *CaptureSystem
	layout        config.LayoutConfig
	margin        float64
}

// NewDragSystem 创建拖拽系统
func NewDragSystem(em *ecs.EntityManager, capture *CaptureSystem, t config.Tuning) *DragSystem {
	return &DragSystem{
		entityManager: em,
		capture:       capture,
		layout:        t.Layout,
		margin:        t.Movement.Margin,
	}
}

// HitTest 实现 HitTester
func (s *DragSystem) HitTest(x, y float64) (Draggable, bool) {
	entities := ecs.GetEntitiesWith3[
		*components.TrashComponent,
		*components.PositionComponent,
		*components.DraggableComponent,
	](s.entityManager)

	// 升序遍历，后生成的覆盖先生成的
	var hit ecs.EntityID
	for _, id := range entities {
		trash, _ := ecs.GetComponent[*components.TrashComponent](s.entityManager, id)
		if trash.Caught || trash.State != components.TrashIdle {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		box := config.Rect{X: pos.X, Y: pos.Y, W: float64(trash.Size), H: float64(trash.Size)}
		if box.Contains(x, y) {
			hit = id
		}
	}
	if hit == 0 {
		return nil, false
	}
	return &trashHandle{system: s, id: hit}, true
}

// trashHandle 单个垃圾实体的拖拽句柄
type trashHandle struct {
	system *DragSystem
	id     ecs.EntityID
}

func (h *trashHandle) lookup() (*components.TrashComponent, *components.PositionComponent, *components.DraggableComponent, bool) {
	em := h.system.entityManager
	trash, ok1 := ecs.GetComponent[*components.TrashComponent](em, h.id)
	pos, ok2 := ecs.GetComponent[*components.PositionComponent](em, h.id)
	drag, ok3 := ecs.GetComponent[*components.DraggableComponent](em, h.id)
	return trash, pos, drag, ok1 && ok2 && ok3
}

func (h *trashHandle) OnPressStart(x, y float64) bool {
	trash, pos, drag, ok := h.lookup()
	if !ok || trash.Caught || trash.State != components.TrashIdle {
		return false
	}
	trash.State = components.TrashDragging
	trash.Fleeing = false
	drag.Dragging = true
	drag.OffsetX = x - pos.X
	drag.OffsetY = y - pos.Y
	return true
}

func (h *trashHandle) OnMove(x, y float64) {
	trash, pos, drag, ok := h.lookup()
	if !ok || trash.State != components.TrashDragging {
		return
	}
	pos.X, pos.Y = h.system.clamp(x-drag.OffsetX, y-drag.OffsetY, trash.Size)
}

func (h *trashHandle) OnRelease(x, y float64) {
	trash, pos, drag, ok := h.lookup()
	if !ok || trash.State != components.TrashDragging {
		return
	}
	pos.X, pos.Y = h.system.clamp(x-drag.OffsetX, y-drag.OffsetY, trash.Size)
	drag.Dragging = false

	if h.system.capture.InBin(h.id) {
		h.system.capture.Capture(h.id)
		return
	}
	trash.State = components.TrashIdle
}

func (s *DragSystem) clamp(x, y float64, size int) (float64, float64) {
	maxX := s.layout.Width - float64(size) - s.margin
	maxY := s.layout.Height - float64(size) - s.margin
	return clampFloat(x, s.margin, maxX), clampFloat(y, s.margin, maxY)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
