package game

import "github.com/decker502/trashcatch/pkg/config"

// GameState 存储一局游戏的状态
// 由 sim.Session 持有并传递给各系统，不使用全局单例（每局一个实例，便于测试和多房间服务端）
type GameState struct {
	Level           int     // 当前关卡，从 1 开始单调递增
	Recycled        int     // 已回收数量，单调递增
	SpeedMultiplier float64 // 全局速度倍率，每次升级增加
	TargetCount     int     // 当前关卡每批生成的垃圾数量

	spawn config.SpawnConfig
	level config.LevelConfig
}

// NewGameState 创建第 1 关的初始状态
func NewGameState(t config.Tuning) *GameState {
	return &GameState{
		Level:           1,
		Recycled:        0,
		SpeedMultiplier: 1,
		TargetCount:     t.Spawn.InitialCount,
		spawn:           t.Spawn,
		level:           t.Level,
	}
}

// AddRecycled 回收数量加一，返回新的回收数量
func (gs *GameState) AddRecycled() int {
	gs.Recycled++
	return gs.Recycled
}

// LevelUp 进入下一关
// 关卡加一，每批数量变为 min(MaxCount, CountBase + level)，速度倍率增加
// 返回新的关卡号
func (gs *GameState) LevelUp() int {
	gs.Level++
	gs.TargetCount = gs.spawn.CountBase + gs.Level
	if gs.TargetCount > gs.spawn.MaxCount {
		gs.TargetCount = gs.spawn.MaxCount
	}
	gs.SpeedMultiplier += gs.level.SpeedStep
	return gs.Level
}
