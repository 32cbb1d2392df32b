// Package protocol 定义服务端与远程客户端之间的 WebSocket 消息
//
// 每条消息都是一个信封 {"t": 类型, "p": 载荷}。
// 客户端发送 hello 和 pointer，服务端发送 welcome、state 和 event。
package protocol

import (
	"encoding/json"
)

// Version 协议版本
const Version = 1

const (
	MsgHello   = "hello"
	MsgPointer = "pointer"
	MsgWelcome = "welcome"
	MsgState   = "state"
	MsgEvent   = "event"
)

const (
	SimTickHz   = 60
	BroadcastHz = 20
)

type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"` // 原始载荷
}

// 客户端 -> 服务端

type Hello struct {
	V    int    `json:"v"`              // 协议版本
	Name string `json:"name,omitempty"` // 可选昵称
}

type Pointer struct {
	Kind string  `json:"kind"` // move | press | release
	X    float64 `json:"x"`    // 游戏区域坐标
	Y    float64 `json:"y"`
}

// 服务端 -> 客户端

type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type Welcome struct {
	SessionID string  `json:"sessionId"`
	ClientID  string  `json:"clientId"`
	Seed      int64   `json:"seed"`
	TickHz    int     `json:"tickHz"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Bin       Rect    `json:"bin"`
}

type Entity struct {
	ID       uint64  `json:"id"`
	Kind     string  `json:"kind"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Size     int     `json:"size"`
	State    string  `json:"state"`
	Fleeing  bool    `json:"fleeing,omitempty"`
	Scale    float64 `json:"scale"`
	Alpha    float64 `json:"alpha"`
	Rotation float64 `json:"rotation,omitempty"`
}

type Paw struct {
	Visible bool    `json:"visible"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Size    float64 `json:"size"`
}

type State struct {
	Tick     uint64   `json:"tick"`
	Level    int      `json:"level"`
	Recycled int      `json:"recycled"`
	Message  string   `json:"message"`
	Entities []Entity `json:"entities"`
	Paw      Paw      `json:"paw"`
}

// Event 游戏事件，只有与 Kind 相关的字段有值
type Event struct {
	Kind     string  `json:"kind"`
	Frame    uint64  `json:"frame"`
	EntityID uint64  `json:"entityId,omitempty"`
	Recycled int     `json:"recycled,omitempty"`
	Level    int     `json:"level,omitempty"`
	Count    int     `json:"count,omitempty"`
	Text     string  `json:"text,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	Visible  bool    `json:"visible,omitempty"`
}
