package components

// PositionComponent 存储实体在游戏区域中的位置
// 垃圾实体的位置是其左上角坐标（与尺寸一起构成包围盒）
type PositionComponent struct {
	X float64
	Y float64
}

// VelocityComponent 存储实体的速度（单位/帧）
type VelocityComponent struct {
	VX float64
	VY float64
}
