package room

import (
	"crypto/rand"
	"math/big"
	"sort"
	"sync"
	"time"
)

// RoomInfo 房间列表接口返回的信息
type RoomInfo struct {
	Code      string `json:"code"`
	SessionID string `json:"sessionId"`
	Clients   int    `json:"clients"`
}

// Manager 按房间码管理多个房间
// 房间在第一次加入时创建，最后一个客户端离开时移除
type Manager struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	wg    sync.WaitGroup // 所有房间 goroutine，含已移除但尚未结束的

	base Config
	seed func() int64 // 每个新房间的种子
}

// NewManager 创建管理器，seed 为 nil 时使用当前时间
func NewManager(base Config, seed func() int64) *Manager {
	if seed == nil {
		seed = func() int64 { return time.Now().UnixNano() }
	}
	return &Manager{
		rooms: make(map[string]*Room),
		base:  base,
		seed:  seed,
	}
}

// GetOrCreateRoom 返回房间码对应的房间，不存在时创建
func (m *Manager) GetOrCreateRoom(code string) *Room {
	if code == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rooms[code]; ok {
		return r
	}
	return m.startLocked(code)
}

const codeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CreateRoom 生成唯一的 6 位房间码并创建房间
func (m *Manager) CreateRoom() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for {
		code := generateCode(6)
		if _, exists := m.rooms[code]; exists {
			continue
		}
		m.startLocked(code)
		return code
	}
}

func (m *Manager) startLocked(code string) *Room {
	cfg := m.base
	cfg.Seed = m.seed()
	r := New(cfg)
	r.Code = code
	r.OnEmpty = func(code string) { m.removeRoom(code, r) }
	m.rooms[code] = r
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		r.Run()
	}()
	return r
}

// removeRoom 只移除仍登记在该房间码下的同一个房间
func (m *Manager) removeRoom(code string, r *Room) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.rooms[code]; ok && cur == r {
		delete(m.rooms, code)
	}
	r.Stop()
}

// ListRooms 返回所有活动房间（按房间码排序）
func (m *Manager) ListRooms() []RoomInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]RoomInfo, 0, len(m.rooms))
	for code, r := range m.rooms {
		out = append(out, RoomInfo{Code: code, SessionID: r.ID(), Clients: r.NumClients()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// StopAll 停止所有房间，并等待包括已被移除的房间在内的全部 goroutine 结束
func (m *Manager) StopAll() {
	m.mu.Lock()
	for code, r := range m.rooms {
		r.Stop()
		delete(m.rooms, code)
	}
	m.mu.Unlock()
	m.wg.Wait()
}

func generateCode(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(codeChars)))
	for i := range b {
		idx, _ := rand.Int(rand.Reader, max)
		b[i] = codeChars[idx.Int64()]
	}
	return string(b)
}
