package game

// EventType 游戏事件类型
type EventType int

const (
	EventCaptured EventType = iota + 1 // 垃圾被回收
	EventLevelUp                       // 进入新关卡
	EventMessage                       // 提示消息变化
	EventSpawned                       // 生成了一批垃圾
	EventPaw                           // 猫爪出现/消失
	EventShuffled                      // 猫爪打乱了垃圾位置
)

// String 返回事件名称（用于日志和网络协议）
func (t EventType) String() string {
	switch t {
	case EventCaptured:
		return "captured"
	case EventLevelUp:
		return "level_up"
	case EventMessage:
		return "message"
	case EventSpawned:
		return "spawned"
	case EventPaw:
		return "paw"
	case EventShuffled:
		return "shuffled"
	}
	return "unknown"
}

// Event 模拟产生的事件，由前端（渲染、音效、网络）消费
// 只有与事件类型相关的字段有意义
type Event struct {
	Type  EventType
	Frame uint64 // 产生事件的帧号

	EntityID uint64  // EventCaptured
	Recycled int     // EventCaptured
	Level    int     // EventLevelUp
	Count    int     // EventSpawned, EventShuffled
	Text     string  // EventMessage（空字符串表示清除）
	X, Y     float64 // EventPaw
	Visible  bool    // EventPaw
}

// EventQueue 单消费者事件队列
// 模拟线程写入，前端在同一线程中每帧取出
type EventQueue struct {
	events []Event
	frame  uint64
}

// SetFrame 设置当前帧号，之后写入的事件都带上该帧号
func (q *EventQueue) SetFrame(frame uint64) {
	q.frame = frame
}

// Push 追加事件
func (q *EventQueue) Push(e Event) {
	e.Frame = q.frame
	q.events = append(q.events, e)
}

// Drain 取出所有事件（FIFO）并清空队列
func (q *EventQueue) Drain() []Event {
	if len(q.events) == 0 {
		return nil
	}
	out := q.events
	q.events = nil
	return out
}

// Len 返回未取出的事件数量
func (q *EventQueue) Len() int {
	return len(q.events)
}
