package systems

import (
	"github.com/decker502/trashcatch/pkg/config"
	"github.com/decker502/trashcatch/pkg/game"
)

// 提示消息文本
const (
	MessageWelcome  = "Click anywhere to start the music and spawn trash. Drag trash into the bin."
	MessageRecycled = "Nice! You recycled one."
	MessageLevelUp  = "Level up! New trash incoming..."
	MessageShuffled = "A sneaky paw shuffled the trash!"
)

// MessageSystem 管理单条提示消息
// 新消息替换旧消息并重新开始计时，到期后清空
type MessageSystem struct {
	scheduler *Scheduler
	events    *game.EventQueue
	timeout   float64

	text  string
	token Token
}

// NewMessageSystem 创建消息系统
func NewMessageSystem(s *Scheduler, events *game.EventQueue, cfg config.MessageConfig) *MessageSystem {
	return &MessageSystem{
		scheduler: s,
		events:    events,
		timeout:   cfg.Timeout,
	}
}

// Show 显示消息，timeout <= 0 时使用默认时长
func (m *MessageSystem) Show(text string, timeout float64) {
	if m.token != 0 {
		m.scheduler.Cancel(m.token)
		m.token = 0
	}
	if timeout <= 0 {
		timeout = m.timeout
	}
	m.text = text
	m.events.Push(game.Event{Type: game.EventMessage, Text: text})
	m.token = m.scheduler.After(timeout, "message-clear", m.clear)
}

// Text 返回当前消息，没有消息时为空字符串
func (m *MessageSystem) Text() string {
	return m.text
}

func (m *MessageSystem) clear() {
	m.token = 0
	m.text = ""
	m.events.Push(game.Event{Type: game.EventMessage, Text: ""})
}
