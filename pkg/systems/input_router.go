package systems

// PointerKind 指针事件类型
type PointerKind int

const (
	PointerMove    PointerKind = iota // 移动
	PointerPress                      // 按下
	PointerRelease                    // 释放
)

// String 返回事件类型名称（网络协议和录像使用）
func (k PointerKind) String() string {
	switch k {
	case PointerMove:
		return "move"
	case PointerPress:
		return "press"
	case PointerRelease:
		return "release"
	}
	return "unknown"
}

// ParsePointerKind 解析事件类型名称
func ParsePointerKind(s string) (PointerKind, bool) {
	switch s {
	case "move":
		return PointerMove, true
	case "press":
		return PointerPress, true
	case "release":
		return PointerRelease, true
	}
	return 0, false
}

// PointerEvent 游戏区域坐标下的指针事件
type PointerEvent struct {
	Kind PointerKind
	X, Y float64
}

// Draggable 可被指针拖拽的对象
type Draggable interface {
	// OnPressStart 开始拖拽，返回 false 表示拒绝
	OnPressStart(x, y float64) bool
	// OnMove 拖拽中的指针移动
	OnMove(x, y float64)
	// OnRelease 释放
	OnRelease(x, y float64)
}

// HitTester 查找指针下方最上层的可拖拽对象
type HitTester interface {
	HitTest(x, y float64) (Draggable, bool)
}

// InputRouter 将指针事件分发给拖拽目标
//
// 同一时刻最多一个活动拖拽目标。按下时命中测试选择目标，
// 移动和释放只发给该目标，与指针当前位于何处无关。
type InputRouter struct {
	hitTester HitTester
	pointer   *Pointer
	active    Draggable
}

// NewInputRouter 创建输入路由器
func NewInputRouter(h HitTester, pointer *Pointer) *InputRouter {
	return &InputRouter{
		hitTester: h,
		pointer:   pointer,
	}
}

// Route 处理一个指针事件，返回是否被拖拽目标消费
func (r *InputRouter) Route(ev PointerEvent) bool {
	r.pointer.Set(ev.X, ev.Y)

	switch ev.Kind {
	case PointerPress:
		if r.active != nil {
			return false
		}
		target, ok := r.hitTester.HitTest(ev.X, ev.Y)
		if !ok || !target.OnPressStart(ev.X, ev.Y) {
			return false
		}
		r.active = target
		return true

	case PointerMove:
		if r.active == nil {
			return false
		}
		r.active.OnMove(ev.X, ev.Y)
		return true

	case PointerRelease:
		if r.active == nil {
			return false
		}
		target := r.active
		r.active = nil
		target.OnRelease(ev.X, ev.Y)
		return true
	}
	return false
}

// Dragging 是否存在活动拖拽
func (r *InputRouter) Dragging() bool {
	return r.active != nil
}

// Cancel 放弃当前拖拽目标（不调用 OnRelease），用于目标被外部删除时
func (r *InputRouter) Cancel() {
	r.active = nil
}
