package components

// DraggableComponent 标记实体可以被指针拖拽
type DraggableComponent struct {
	// 按下点相对于实体左上角的偏移量，拖拽时保持不变（避免实体跳到指针位置）
	OffsetX float64
	OffsetY float64
	// Dragging 是否正在被拖拽
	Dragging bool
}
