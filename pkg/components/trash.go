package components

// TrashKind 垃圾种类（仅影响外观）
type TrashKind int

const (
	TrashMapleLeaf TrashKind = iota // 枫叶
	TrashLollipop                   // 棒棒糖
	TrashFallenLeaf                 // 落叶
	TrashAvocado                    // 牛油果
	TrashClown                      // 小丑
)

// TrashKindCount 垃圾种类数量
const TrashKindCount = 5

// String 返回种类名称
func (k TrashKind) String() string {
	switch k {
	case TrashMapleLeaf:
		return "maple_leaf"
	case TrashLollipop:
		return "lollipop"
	case TrashFallenLeaf:
		return "fallen_leaf"
	case TrashAvocado:
		return "avocado"
	case TrashClown:
		return "clown"
	}
	return "unknown"
}

// Glyph 返回用于文字界面的显示字符
func (k TrashKind) Glyph() rune {
	switch k {
	case TrashMapleLeaf:
		return '🍁'
	case TrashLollipop:
		return '🍭'
	case TrashFallenLeaf:
		return '🍂'
	case TrashAvocado:
		return '🥑'
	case TrashClown:
		return '🤡'
	}
	return '?'
}

// TrashState 垃圾的拖拽状态机
//
//	Idle -> Dragging -> Captured（在垃圾桶上释放）
//	                 -> Idle（在其他位置释放）
type TrashState int

const (
	TrashIdle     TrashState = iota // 自由移动（受模拟驱动）
	TrashDragging                   // 被拖拽中（位置由指针驱动）
	TrashCaptured                   // 已回收（淡出后删除）
)

// String 返回状态名称
func (s TrashState) String() string {
	switch s {
	case TrashIdle:
		return "idle"
	case TrashDragging:
		return "dragging"
	case TrashCaptured:
		return "captured"
	}
	return "unknown"
}

// TrashComponent 标记实体为垃圾，并存储垃圾特定的状态
type TrashComponent struct {
	Kind   TrashKind
	Size   int        // 边长（正方形包围盒），随关卡变小
	State  TrashState // 当前状态
	Caught bool       // 是否已被回收（与 State == TrashCaptured 同步）

	// Fleeing 本帧是否处于指针的逃离半径内（渲染时上浮）
	Fleeing bool
}

// Active 返回垃圾是否仍在活动列表中（未被回收）
func (t *TrashComponent) Active() bool {
	return !t.Caught
}

// Center 返回垃圾中心点坐标
func (t *TrashComponent) Center(pos *PositionComponent) (float64, float64) {
	half := float64(t.Size) / 2
	return pos.X + half, pos.Y + half
}
