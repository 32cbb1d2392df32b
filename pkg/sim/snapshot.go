package sim

import (
	"github.com/decker502/trashcatch/pkg/components"
	"github.com/decker502/trashcatch/pkg/config"
	"github.com/decker502/trashcatch/pkg/ecs"
	"github.com/decker502/trashcatch/pkg/utils"
)

// 淡出动画参数：结束时缩放到 0.5、旋转 20 度、完全透明（按 ease 曲线插值）
const (
	fadeEndScale    = 0.5
	fadeEndRotation = 20.0
)

// EntityView 单个垃圾的只读视图（渲染和网络同步使用）
type EntityView struct {
	ID       uint64
	Kind     components.TrashKind
	X, Y     float64 // 左上角
	Size     int
	State    components.TrashState
	Fleeing  bool
	Scale    float64 // 弹出/淡出缩放
	Alpha    float64 // 不透明度 [0, 1]
	Rotation float64 // 旋转角度（度）
}

// PawView 猫爪视图
type PawView struct {
	Visible bool
	X, Y    float64
	Size    float64
}

// Snapshot 某一帧的完整只读状态
type Snapshot struct {
	Frame           uint64
	Level           int
	Recycled        int
	SpeedMultiplier float64
	Message         string
	Width, Height   float64
	Bin             config.Rect
	Paw             PawView
	Entities        []EntityView // 按 ID 升序，即由下到上的绘制顺序
}

// Snapshot 生成当前状态的快照
func (s *Session) Snapshot() Snapshot {
	paw := s.shuffle.Paw()
	snap := Snapshot{
		Frame:           s.frame,
		Level:           s.gameState.Level,
		Recycled:        s.gameState.Recycled,
		SpeedMultiplier: s.gameState.SpeedMultiplier,
		Message:         s.messages.Text(),
		Width:           s.tuning.Layout.Width,
		Height:          s.tuning.Layout.Height,
		Bin:             s.tuning.Layout.Bin,
		Paw:             PawView{Visible: paw.Visible, X: paw.X, Y: paw.Y, Size: paw.Size},
	}

	ids := ecs.GetEntitiesWith2[*components.TrashComponent, *components.PositionComponent](s.entityManager)
	snap.Entities = make([]EntityView, 0, len(ids))
	for _, id := range ids {
		trash, _ := ecs.GetComponent[*components.TrashComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)

		view := EntityView{
			ID:      uint64(id),
			Kind:    trash.Kind,
			X:       pos.X,
			Y:       pos.Y,
			Size:    trash.Size,
			State:   trash.State,
			Fleeing: trash.Fleeing,
			Scale:   1,
			Alpha:   1,
		}
		if pop, ok := ecs.GetComponent[*components.PopComponent](s.entityManager, id); ok {
			view.Scale = pop.Scale
		}
		if fade, ok := ecs.GetComponent[*components.FadeComponent](s.entityManager, id); ok {
			p := utils.Ease(fade.Progress())
			view.Scale = 1 - (1-fadeEndScale)*p
			view.Alpha = 1 - p
			view.Rotation = fadeEndRotation * p
		}
		snap.Entities = append(snap.Entities, view)
	}
	return snap
}

// EntityAt 返回指定ID的实体视图
func (snap Snapshot) EntityAt(id uint64) (EntityView, bool) {
	for _, e := range snap.Entities {
		if e.ID == id {
			return e, true
		}
	}
	return EntityView{}, false
}
