package systems

// Pointer 最近一次已知的指针位置（游戏区域坐标）
// 指针出现之前 Known 为 false，此时不触发逃离
type Pointer struct {
	X, Y  float64
	Known bool
}

// Set 更新指针位置
func (p *Pointer) Set(x, y float64) {
	p.X = x
	p.Y = y
	p.Known = true
}
