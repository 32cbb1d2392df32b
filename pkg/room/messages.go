package room

import "github.com/decker502/trashcatch/pkg/systems"

// Conn 客户端连接（WebSocket 或测试用的假连接）
type Conn interface {
	Send([]byte) error
	Close() error
}

// Join 在 hello 解析完成后发送一次
type Join struct {
	Conn  Conn
	Name  string
	Reply chan<- JoinResult
}

type JoinResult struct {
	ClientID string
}

// PointerInput 客户端的指针事件
type PointerInput struct {
	ClientID string
	Event    systems.PointerEvent
}

// Leave 断开连接时发送
type Leave struct {
	ClientID string
}
