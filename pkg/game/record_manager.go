package game

import (
	"log"
	"time"

	"github.com/quasilyte/gdata/v2"
)

// Records 跨局保存的个人记录
type Records struct {
	BestLevel      int       `yaml:"bestLevel"`      // 到达过的最高关卡
	BestRecycled   int       `yaml:"bestRecycled"`   // 单局最多回收数量
	TotalRecycled  int       `yaml:"totalRecycled"`  // 累计回收数量
	SessionsPlayed int       `yaml:"sessionsPlayed"` // 开始过的局数
	LastPlayedAt   time.Time `yaml:"lastPlayedAt"`   // 最后一次游戏时间
}

// RecordManager 记录管理器
//
// 职责：
//   - 在升级和回收时更新最高记录
//   - 通过 gdata 持久化（YAML 格式）
//
// 一局内的回收数量以增量方式累计到 TotalRecycled，
// 因此 Observe 可以被反复调用而不会重复计数
type RecordManager struct {
	store   yamlStore
	records Records

	sessionRecycled int // 当前局已计入 TotalRecycled 的数量
	dirty           bool
}

// NewRecordManager 创建记录管理器，gdataManager 可为 nil
func NewRecordManager(gdataManager *gdata.Manager) *RecordManager {
	rm := &RecordManager{
		store: yamlStore{manager: gdataManager, object: "records", property: "player"},
	}
	if _, err := rm.store.load(&rm.records); err != nil {
		log.Printf("[RecordManager] Warning: Failed to load records: %v (starting fresh)", err)
		rm.records = Records{}
	}
	return rm
}

// BeginSession 开始新的一局
func (rm *RecordManager) BeginSession(now time.Time) {
	rm.records.SessionsPlayed++
	rm.records.LastPlayedAt = now
	rm.sessionRecycled = 0
	rm.dirty = true
}

// Observe 根据当前局的状态更新记录
// 返回是否刷新了最高关卡
func (rm *RecordManager) Observe(gs *GameState) bool {
	newBest := false
	if gs.Level > rm.records.BestLevel {
		rm.records.BestLevel = gs.Level
		rm.dirty = true
		newBest = true
	}
	if gs.Recycled > rm.records.BestRecycled {
		rm.records.BestRecycled = gs.Recycled
		rm.dirty = true
	}
	if delta := gs.Recycled - rm.sessionRecycled; delta > 0 {
		rm.records.TotalRecycled += delta
		rm.sessionRecycled = gs.Recycled
		rm.dirty = true
	}
	return newBest
}

// Records 返回当前记录的副本
func (rm *RecordManager) Records() Records {
	return rm.records
}

// Save 有改动时写入存储
func (rm *RecordManager) Save() error {
	if !rm.dirty {
		return nil
	}
	if err := rm.store.save(rm.records); err != nil {
		return err
	}
	rm.dirty = false
	return nil
}
