package config

// 布局配置
// 所有坐标都是"游戏区域坐标"（相对于游戏区域左上角），与窗口缩放无关

const (
	// GameWindowWidth 是逻辑屏幕宽度
	GameWindowWidth = 800

	// GameWindowHeight 是逻辑屏幕高度
	GameWindowHeight = 600
)

// Rect 轴对齐矩形
type Rect struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// Right 返回右边界
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom 返回下边界
func (r Rect) Bottom() float64 { return r.Y + r.H }

// ContainsStrict 判断点是否严格位于矩形内部（边界上不算）
func (r Rect) ContainsStrict(x, y float64) bool {
	return x > r.X && x < r.Right() && y > r.Y && y < r.Bottom()
}

// Contains 判断点是否位于矩形内（含左上边界）
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// LayoutConfig 游戏区域和垃圾桶的布局
type LayoutConfig struct {
	Width  float64 `yaml:"width"`  // 游戏区域宽度
	Height float64 `yaml:"height"` // 游戏区域高度
	Bin    Rect    `yaml:"bin"`    // 垃圾桶区域（游戏区域坐标）
}

// DefaultLayout 返回默认布局：800x600 的游戏区域，垃圾桶在右下角
func DefaultLayout() LayoutConfig {
	return LayoutConfig{
		Width:  GameWindowWidth,
		Height: GameWindowHeight,
		Bin:    Rect{X: GameWindowWidth - 140, Y: GameWindowHeight - 160, W: 120, H: 140},
	}
}

// PlayArea 返回游戏区域矩形
func (l LayoutConfig) PlayArea() Rect {
	return Rect{X: 0, Y: 0, W: l.Width, H: l.Height}
}
