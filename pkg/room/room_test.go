package room

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/decker502/trashcatch/pkg/config"
	"github.com/decker502/trashcatch/pkg/protocol"
	"github.com/decker502/trashcatch/pkg/systems"
)

type fakeConn struct {
	sendCh chan []byte
	mu     sync.Mutex
	closed bool
	broken atomic.Bool // 为 true 时 Send 返回错误
}

func newFakeConn() *fakeConn {
	return &fakeConn{sendCh: make(chan []byte, 256)}
}

func (f *fakeConn) Send(b []byte) error {
	if f.broken.Load() {
		return errors.New("connection reset")
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	select {
	case f.sendCh <- cp:
	default:
	}
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// next 等待下一条类型为 t 的消息
func (f *fakeConn) next(t *testing.T, msgType string) protocol.Envelope {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case b := <-f.sendCh:
			env, err := protocol.DecodeEnvelope(b)
			if err != nil {
				t.Fatalf("decode envelope: %v", err)
			}
			if env.T == msgType {
				return env
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %q", msgType)
		}
	}
}

type fakeHistory struct {
	mu       sync.Mutex
	started  []string
	ended    []string
	levelUps []int
}

func (h *fakeHistory) SessionStarted(id string, seed int64, at time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started = append(h.started, id)
}

func (h *fakeHistory) LevelUp(id string, level int, frame uint64, at time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.levelUps = append(h.levelUps, level)
}

func (h *fakeHistory) SessionEnded(id string, level, recycled int, at time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ended = append(h.ended, id)
}

func (h *fakeHistory) endedCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.ended)
}

func slowConfig() Config {
	tuning := config.DefaultTuning()
	tuning.Shuffle.Chance = 0
	return Config{Tuning: tuning, Seed: 3, TickHz: 5, BroadcastHz: 5}
}

func join(t *testing.T, r *Room, fc *fakeConn, name string) string {
	t.Helper()
	reply := make(chan JoinResult, 1)
	r.Inbox <- Join{Conn: fc, Name: name, Reply: reply}
	select {
	case res := <-reply:
		if res.ClientID == "" {
			t.Fatal("expected client id")
		}
		return res.ClientID
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for join reply")
	}
	return ""
}

func TestRoomJoinSendsWelcomeAndState(t *testing.T) {
	r := New(slowConfig())
	go r.Run()
	defer r.Stop()

	fc := newFakeConn()
	clientID := join(t, r, fc, "cat")

	w, err := protocol.DecodePayload[protocol.Welcome](fc.next(t, protocol.MsgWelcome))
	if err != nil {
		t.Fatalf("decode welcome: %v", err)
	}
	if w.ClientID != clientID || w.SessionID != r.ID() || w.Seed != 3 {
		t.Errorf("unexpected welcome %+v", w)
	}
	if w.Width != 800 || w.Height != 600 || w.Bin.W == 0 {
		t.Errorf("unexpected play area in welcome %+v", w)
	}

	st, err := protocol.DecodePayload[protocol.State](fc.next(t, protocol.MsgState))
	if err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if st.Level != 1 || len(st.Entities) != 3 {
		t.Errorf("expected level 1 with 3 entities, got level %d with %d", st.Level, len(st.Entities))
	}
}

func TestRoomPointerCapturesTrash(t *testing.T) {
	cfg := slowConfig()
	r := New(cfg)
	go r.Run()
	defer r.Stop()

	fc := newFakeConn()
	clientID := join(t, r, fc, "")
	st, err := protocol.DecodePayload[protocol.State](fc.next(t, protocol.MsgState))
	if err != nil {
		t.Fatalf("decode state: %v", err)
	}
	top := st.Entities[len(st.Entities)-1]
	half := float64(top.Size) / 2
	bin := cfg.Tuning.Layout.Bin

	r.Inbox <- PointerInput{ClientID: clientID, Event: systems.PointerEvent{Kind: systems.PointerPress, X: top.X + half, Y: top.Y + half}}
	r.Inbox <- PointerInput{ClientID: clientID, Event: systems.PointerEvent{Kind: systems.PointerRelease, X: bin.X + bin.W/2, Y: bin.Y + bin.H/2}}

	timeout := time.After(3 * time.Second)
	for {
		select {
		case <-timeout:
			t.Fatal("timed out waiting for captured event")
		default:
		}
		ev, err := protocol.DecodePayload[protocol.Event](fc.next(t, protocol.MsgEvent))
		if err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if ev.Kind != "captured" {
			continue
		}
		if ev.EntityID != top.ID || ev.Recycled != 1 {
			t.Errorf("unexpected captured event %+v (expected entity %d)", ev, top.ID)
		}
		return
	}
}

func TestRoomIgnoresUnknownClient(t *testing.T) {
	r := New(slowConfig())
	go r.Run()
	defer r.Stop()

	fc := newFakeConn()
	join(t, r, fc, "a")
	r.Inbox <- PointerInput{ClientID: "nobody", Event: systems.PointerEvent{Kind: systems.PointerPress, X: 1, Y: 1}}
	r.Inbox <- Leave{ClientID: "nobody"}
	if n := r.NumClients(); n != 1 {
		t.Errorf("expected 1 client, got %d", n)
	}
}

func TestManagerRemovesEmptyRoom(t *testing.T) {
	history := &fakeHistory{}
	cfg := slowConfig()
	cfg.History = history
	m := NewManager(cfg, func() int64 { return 11 })

	r := m.GetOrCreateRoom("ABC123")
	if r == nil {
		t.Fatal("expected room")
	}
	if again := m.GetOrCreateRoom("ABC123"); again != r {
		t.Error("expected the same room for the same code")
	}
	if m.GetOrCreateRoom("") != nil {
		t.Error("empty code should not create a room")
	}

	fc := newFakeConn()
	clientID := join(t, r, fc, "cat")
	if rooms := m.ListRooms(); len(rooms) != 1 || rooms[0].Code != "ABC123" || rooms[0].Clients != 1 {
		t.Fatalf("unexpected room list %+v", rooms)
	}

	r.Inbox <- Leave{ClientID: clientID}
	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("room did not stop after last client left")
	}
	if !fc.isClosed() {
		t.Error("leaving client connection should be closed")
	}
	if rooms := m.ListRooms(); len(rooms) != 0 {
		t.Errorf("expected no rooms, got %+v", rooms)
	}
	if history.endedCount() != 1 {
		t.Errorf("expected one ended session, got %d", history.endedCount())
	}
}

func TestManagerCreateRoomAndStopAll(t *testing.T) {
	m := NewManager(slowConfig(), nil)
	a := m.CreateRoom()
	b := m.CreateRoom()
	if len(a) != 6 || a == b {
		t.Fatalf("unexpected codes %q %q", a, b)
	}
	if n := len(m.ListRooms()); n != 2 {
		t.Fatalf("expected 2 rooms, got %d", n)
	}
	m.StopAll()
	if n := len(m.ListRooms()); n != 0 {
		t.Errorf("expected 0 rooms after StopAll, got %d", n)
	}
}

func TestManagerRemovesRoomAfterFailedSend(t *testing.T) {
	history := &fakeHistory{}
	cfg := slowConfig()
	cfg.History = history
	m := NewManager(cfg, func() int64 { return 5 })

	r := m.GetOrCreateRoom("ABC")
	fc := newFakeConn()
	clientID := join(t, r, fc, "cat")
	fc.broken.Store(true)

	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("room still running after its only client failed; rooms=%+v", m.ListRooms())
	}
	if rooms := m.ListRooms(); len(rooms) != 0 {
		t.Errorf("expected no rooms, got %+v", rooms)
	}
	if history.endedCount() != 1 {
		t.Errorf("expected one ended session, got %d", history.endedCount())
	}

	// 连接处理器随后发送的 Leave 不应影响同名的新房间
	r.Inbox <- Leave{ClientID: clientID}
	next := m.GetOrCreateRoom("ABC")
	if next == r {
		t.Fatal("expected a fresh room for the reused code")
	}
	m.StopAll()
}

func TestStopAllWaitsForRemovedRooms(t *testing.T) {
	history := &fakeHistory{}
	cfg := slowConfig()
	cfg.History = history
	m := NewManager(cfg, nil)

	r := m.GetOrCreateRoom("XYZ")
	clientID := join(t, r, newFakeConn(), "dog")
	r.Inbox <- Leave{ClientID: clientID}

	m.StopAll()
	select {
	case <-r.Done():
	default:
		t.Fatal("StopAll returned before the removed room finished")
	}
	if history.endedCount() != 1 {
		t.Errorf("expected one ended session, got %d", history.endedCount())
	}
}
