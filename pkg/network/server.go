// Package network 把房间暴露为 WebSocket 服务
package network

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/decker502/trashcatch/pkg/protocol"
	"github.com/decker502/trashcatch/pkg/room"
	"github.com/decker502/trashcatch/pkg/store"
	"github.com/decker502/trashcatch/pkg/systems"
)

const (
	handshakeTimeout = 5 * time.Second
	readTimeout      = 60 * time.Second
	writeTimeout     = 10 * time.Second
	pingInterval     = 25 * time.Second
	sendQueue        = 64
	maxMessageSize   = 1 << 16
)

var (
	errSendQueueFull = errors.New("send queue full") // 客户端读得太慢
	errConnClosed    = errors.New("connection closed")
)

// SessionLister 查询会话历史（可为 nil）
type SessionLister interface {
	RecentSessions(ctx context.Context, limit int) ([]store.SessionRow, error)
}

type Server struct {
	rooms     *room.Manager
	sessions  SessionLister
	validator *protocol.Validator

	upgrader websocket.Upgrader
}

func NewServer(rooms *room.Manager, sessions SessionLister, validator *protocol.Validator) *Server {
	return &Server{
		rooms:     rooms,
		sessions:  sessions,
		validator: validator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // 开发环境允许所有来源
		},
	}
}

// Routes 返回 HTTP 路由
//
//	GET /ws?room=CODE  WebSocket，没有房间码时创建新房间
//	GET /rooms         活动房间列表
//	GET /sessions      最近的会话历史
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/rooms", s.handleRooms)
	mux.HandleFunc("/sessions", s.handleSessions)
	return mux
}

func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.rooms.ListRooms())
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		http.Error(w, "session history disabled", http.StatusNotFound)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := s.sessions.RecentSessions(r.Context(), limit)
	if err != nil {
		log.Printf("[Network] sessions query failed: %v", err)
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, rows)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Network] write response failed: %v", err)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Network] upgrade: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	hello, ok := s.handshake(conn)
	if !ok {
		return
	}

	var rm *room.Room
	if code := r.URL.Query().Get("room"); code != "" {
		rm = s.rooms.GetOrCreateRoom(code)
	} else {
		rm = s.rooms.GetOrCreateRoom(s.rooms.CreateRoom())
	}

	c := newWSConn(conn)
	go c.writeLoop()

	reply := make(chan room.JoinResult, 1)
	var clientID string
	select {
	case rm.Inbox <- room.Join{Conn: c, Name: hello.Name, Reply: reply}:
	case <-rm.Done():
		_ = c.Close()
		return
	}
	select {
	case res := <-reply:
		clientID = res.ClientID
	case <-rm.Done():
		_ = c.Close()
		return
	}

	s.readLoop(conn, rm, clientID)

	select {
	case rm.Inbox <- room.Leave{ClientID: clientID}:
	case <-rm.Done():
	}
	_ = c.Close()
}

// handshake 读取第一条消息，必须是 hello
func (s *Server) handshake(conn *websocket.Conn) (protocol.Hello, bool) {
	_ = conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return protocol.Hello{}, false
	}
	env, err := s.validator.Decode(msg)
	if err != nil || env.T != protocol.MsgHello {
		reason := "expected hello"
		if err != nil {
			reason = err.Error()
		}
		closeWith(conn, websocket.ClosePolicyViolation, reason)
		return protocol.Hello{}, false
	}
	hello, err := protocol.DecodePayload[protocol.Hello](env)
	if err != nil {
		closeWith(conn, websocket.ClosePolicyViolation, "bad hello")
		return protocol.Hello{}, false
	}
	return hello, true
}

func (s *Server) readLoop(conn *websocket.Conn, rm *room.Room, clientID string) {
	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

		env, err := s.validator.Decode(msg)
		if err != nil || env.T != protocol.MsgPointer {
			continue
		}
		p, err := protocol.DecodePayload[protocol.Pointer](env)
		if err != nil {
			continue
		}
		kind, ok := systems.ParsePointerKind(p.Kind)
		if !ok {
			continue
		}
		select {
		case rm.Inbox <- room.PointerInput{ClientID: clientID, Event: systems.PointerEvent{Kind: kind, X: p.X, Y: p.Y}}:
		case <-rm.Done():
			return
		}
	}
}

func closeWith(conn *websocket.Conn, code int, reason string) {
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(time.Second))
}

// wsConn 实现 room.Conn：房间 goroutine 写入发送队列，写 goroutine 负责真正的网络写入
type wsConn struct {
	conn *websocket.Conn
	out  chan []byte

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

func newWSConn(conn *websocket.Conn) *wsConn {
	ctx, cancel := context.WithCancel(context.Background())
	return &wsConn{
		conn:   conn,
		out:    make(chan []byte, sendQueue),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (c *wsConn) Send(b []byte) error {
	select {
	case <-c.ctx.Done():
		return errConnClosed
	default:
	}
	select {
	case c.out <- b:
		return nil
	default:
		return errSendQueueFull
	}
}

func (c *wsConn) Close() error {
	c.once.Do(func() {
		c.cancel()
		closeWith(c.conn, websocket.CloseNormalClosure, "")
		_ = c.conn.Close()
	})
	return nil
}

func (c *wsConn) writeLoop() {
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()
	for {
		select {
		case <-c.ctx.Done():
			return
		case b := <-c.out:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				c.cancel()
				return
			}
		case <-ping.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.cancel()
				return
			}
		}
	}
}
