// Package room 在服务端运行一局游戏
//
// Room 是一个 actor：连接的读 goroutine 把命令写入 Inbox，
// 只有房间自己的 goroutine 修改 Session，按固定频率推进模拟并广播状态。
package room

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/decker502/trashcatch/pkg/config"
	"github.com/decker502/trashcatch/pkg/game"
	"github.com/decker502/trashcatch/pkg/protocol"
	"github.com/decker502/trashcatch/pkg/sim"
)

// History 记录会话历史（可为 nil）
type History interface {
	SessionStarted(id string, seed int64, at time.Time)
	LevelUp(id string, level int, frame uint64, at time.Time)
	SessionEnded(id string, level, recycled int, at time.Time)
}

// Config 房间参数
type Config struct {
	Tuning      config.Tuning
	Seed        int64
	TickHz      int // 0 表示 protocol.SimTickHz
	BroadcastHz int // 0 表示 protocol.BroadcastHz
	History     History
}

type client struct {
	conn Conn
	name string
}

// Room 一个房间对应一局游戏，所有状态只在 Run 的 goroutine 中修改
type Room struct {
	Inbox chan any

	Code    string            // 房间码
	OnEmpty func(code string) // 最后一个客户端离开时调用（在房间 goroutine 中）

	id             string
	seed           int64
	tickHz         int
	broadcastEvery int
	session        *sim.Session
	history        History
	clients        map[string]*client
	order          []string // 加入顺序，广播按此顺序进行
	numClients     atomic.Int32

	quit     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// New 创建房间并开始一局新游戏
func New(cfg Config) *Room {
	tickHz := cfg.TickHz
	if tickHz <= 0 {
		tickHz = protocol.SimTickHz
	}
	broadcastHz := cfg.BroadcastHz
	if broadcastHz <= 0 {
		broadcastHz = protocol.BroadcastHz
	}
	broadcastEvery := tickHz / broadcastHz
	if broadcastEvery <= 0 {
		broadcastEvery = 1
	}
	r := &Room{
		Inbox:          make(chan any, 256),
		id:             uuid.NewString(),
		seed:           cfg.Seed,
		tickHz:         tickHz,
		broadcastEvery: broadcastEvery,
		session:        sim.NewSession(cfg.Tuning, cfg.Seed),
		history:        cfg.History,
		clients:        make(map[string]*client),
		quit:           make(chan struct{}),
		done:           make(chan struct{}),
	}
	if r.history != nil {
		r.history.SessionStarted(r.id, r.seed, time.Now())
	}
	return r
}

// ID 返回会话 ID
func (r *Room) ID() string { return r.id }

// Stop 停止房间（可重复调用）
func (r *Room) Stop() {
	r.stopOnce.Do(func() { close(r.quit) })
}

// Done 在 Run 返回后关闭
func (r *Room) Done() <-chan struct{} { return r.done }

// Run 房间主循环，直到 Stop 被调用
func (r *Room) Run() {
	defer close(r.done)
	ticker := time.NewTicker(time.Second / time.Duration(r.tickHz))
	defer ticker.Stop()

	for {
		select {
		case <-r.quit:
			r.shutdown()
			return
		case cmd := <-r.Inbox:
			r.handleCommand(cmd)
		case <-ticker.C:
			r.tick()
		}
	}
}

func (r *Room) tick() {
	r.session.Step()
	r.flushEvents()
	if r.session.Frame()%uint64(r.broadcastEvery) == 0 {
		r.broadcastState()
	}
}

func (r *Room) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case Join:
		clientID := uuid.NewString()
		name := c.Name
		if name == "" {
			name = "player-" + clientID[:4]
		}
		r.clients[clientID] = &client{conn: c.Conn, name: name}
		r.order = append(r.order, clientID)
		r.numClients.Store(int32(len(r.clients)))
		log.Printf("[Room %s] %s 加入 (%s)", r.Code, name, clientID)
		r.sendWelcome(clientID, c.Conn)
		r.sendTo(clientID, protocol.MsgState, protocol.StateFrom(r.session.Snapshot()))
		c.Reply <- JoinResult{ClientID: clientID}
	case PointerInput:
		if _, ok := r.clients[c.ClientID]; !ok {
			return
		}
		r.session.HandlePointer(c.Event)
	case Leave:
		r.handleLeave(c.ClientID)
	}
}

func (r *Room) sendWelcome(clientID string, c Conn) {
	t := r.session.Tuning()
	w := protocol.Welcome{
		SessionID: r.id,
		ClientID:  clientID,
		Seed:      r.seed,
		TickHz:    r.tickHz,
		Width:     t.Layout.Width,
		Height:    t.Layout.Height,
		Bin:       protocol.RectFrom(t.Layout.Bin),
	}
	b, err := protocol.Encode(protocol.MsgWelcome, w)
	if err != nil {
		return
	}
	_ = c.Send(b)
}

func (r *Room) handleLeave(clientID string) {
	if _, ok := r.clients[clientID]; !ok {
		return
	}
	r.removeClient(clientID)
	r.checkEmpty()
}

// checkEmpty 在最后一个客户端离开后通知管理器
func (r *Room) checkEmpty() {
	if len(r.clients) == 0 && r.OnEmpty != nil && r.Code != "" {
		r.OnEmpty(r.Code)
	}
}

func (r *Room) removeClient(clientID string) {
	if c, ok := r.clients[clientID]; ok {
		_ = c.conn.Close()
		log.Printf("[Room %s] %s 离开", r.Code, c.name)
	}
	delete(r.clients, clientID)
	r.numClients.Store(int32(len(r.clients)))
	for i, id := range r.order {
		if id == clientID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// flushEvents 广播本帧的事件，并把升级写入历史
func (r *Room) flushEvents() {
	for _, ev := range r.session.DrainEvents() {
		if ev.Type == game.EventLevelUp && r.history != nil {
			r.history.LevelUp(r.id, ev.Level, ev.Frame, time.Now())
		}
		b, err := protocol.Encode(protocol.MsgEvent, protocol.EventFrom(ev))
		if err != nil {
			continue
		}
		r.broadcast(b)
	}
}

func (r *Room) broadcastState() {
	b, err := protocol.Encode(protocol.MsgState, protocol.StateFrom(r.session.Snapshot()))
	if err != nil {
		return
	}
	r.broadcast(b)
}

func (r *Room) broadcast(b []byte) {
	var failed []string
	for _, id := range r.order {
		if err := r.clients[id].conn.Send(b); err != nil {
			failed = append(failed, id)
		}
	}
	for _, id := range failed {
		r.removeClient(id)
	}
	if len(failed) > 0 {
		r.checkEmpty()
	}
}

func (r *Room) sendTo(clientID, t string, payload any) {
	c, ok := r.clients[clientID]
	if !ok {
		return
	}
	b, err := protocol.Encode(t, payload)
	if err != nil {
		return
	}
	if err := c.conn.Send(b); err != nil {
		r.removeClient(clientID)
		r.checkEmpty()
	}
}

func (r *Room) shutdown() {
	for _, id := range append([]string(nil), r.order...) {
		r.removeClient(id)
	}
	if r.history != nil {
		r.history.SessionEnded(r.id, r.session.Level(), r.session.Recycled(), time.Now())
	}
	log.Printf("[Room %s] 结束：第 %d 关，回收 %d", r.Code, r.session.Level(), r.session.Recycled())
}

// NumClients 返回连接数，可在任意 goroutine 中调用
func (r *Room) NumClients() int {
	return int(r.numClients.Load())
}
