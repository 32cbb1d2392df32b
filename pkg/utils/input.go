// Package utils 提供通用工具函数
//
// 本包不依赖 Ebitengine，模拟核心和服务端都可以使用。
package utils

// PointerActionKind 指针动作类型
type PointerActionKind int

const (
	// PointerActionMove 指针移动
	PointerActionMove PointerActionKind = iota
	// PointerActionPress 按下
	PointerActionPress
	// PointerActionRelease 释放
	PointerActionRelease
)

// PointerAction 一个指针动作（屏幕坐标）
type PointerAction struct {
	Kind PointerActionKind
	X, Y int
}

// PointerSample 一帧的原始指针采样
type PointerSample struct {
	// X, Y 当前位置（触摸释放后无效）
	X, Y int
	// Down 是否按下
	Down bool
	// Touch 是否来自触摸输入
	Touch bool
	// TouchID 触摸ID（鼠标为 -1）
	TouchID int
}

// PointerTracker 指针跟踪器
//
// 每帧用 Feed 交给它一次采样，按 移动 -> 按下/释放 的顺序产生动作。
// 采样来源由调用方决定（Ebitengine 鼠标/触摸、终端鼠标事件）。
// 触摸时只跟踪第一个按下的手指，手指抬起时在最后已知位置释放。
type PointerTracker struct {
	down    bool
	touchID int
	isTouch bool
	lastX   int
	lastY   int
	hasPos  bool
}

// NewPointerTracker 创建指针跟踪器
func NewPointerTracker() *PointerTracker {
	return &PointerTracker{touchID: -1}
}

// Feed 处理一次采样，返回产生的动作
func (pt *PointerTracker) Feed(s PointerSample) []PointerAction {
	var actions []PointerAction

	if !pt.hasPos || s.X != pt.lastX || s.Y != pt.lastY {
		actions = append(actions, PointerAction{Kind: PointerActionMove, X: s.X, Y: s.Y})
		pt.lastX, pt.lastY = s.X, s.Y
		pt.hasPos = true
	}

	switch {
	case !pt.down && s.Down:
		pt.down = true
		pt.isTouch = s.Touch
		pt.touchID = s.TouchID
		actions = append(actions, PointerAction{Kind: PointerActionPress, X: s.X, Y: s.Y})
	case pt.down && !s.Down:
		pt.Reset()
		actions = append(actions, PointerAction{Kind: PointerActionRelease, X: pt.lastX, Y: pt.lastY})
	}
	return actions
}

// Reset 放弃当前按下状态（保留最后位置）
func (pt *PointerTracker) Reset() {
	pt.down = false
	pt.isTouch = false
	pt.touchID = -1
}

// IsDown 是否处于按下状态
func (pt *PointerTracker) IsDown() bool {
	return pt.down
}

// Position 返回最后已知位置
func (pt *PointerTracker) Position() (int, int, bool) {
	return pt.lastX, pt.lastY, pt.hasPos
}

// Tracking 返回正在跟踪的触摸ID，未按下或鼠标输入时 ok 为 false
func (pt *PointerTracker) Tracking() (id int, ok bool) {
	if !pt.down || !pt.isTouch {
		return -1, false
	}
	return pt.touchID, true
}
