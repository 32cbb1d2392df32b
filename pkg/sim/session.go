// Package sim 是游戏的纯模拟核心
//
// Session 持有一局游戏的全部状态（实体、关卡、调度器、随机数），
// 不依赖任何渲染或音频库，桌面端、终端端和服务端房间都驱动同一个 Session。
// 给定相同的数值配置、种子和输入序列，模拟结果完全一致。
package sim

import (
	"log"
	"math/rand"

	"github.com/decker502/trashcatch/pkg/components"
	"github.com/decker502/trashcatch/pkg/config"
	"github.com/decker502/trashcatch/pkg/ecs"
	"github.com/decker502/trashcatch/pkg/game"
	"github.com/decker502/trashcatch/pkg/systems"
)

// InputRecorder 记录进入模拟的指针事件和调试命令（录像）
type InputRecorder interface {
	RecordInput(frame uint64, ev systems.PointerEvent) error
	RecordCommand(frame uint64, cmd Command) error
}

// Command 调试命令，会改变随机数序列和实体列表，因此也要录像
type Command string

const (
	CommandSpawn   Command = "spawn"
	CommandSkip    Command = "skip"
	CommandShuffle Command = "shuffle"
)

// ParseCommand 解析命令名
func ParseCommand(name string) (Command, bool) {
	switch c := Command(name); c {
	case CommandSpawn, CommandSkip, CommandShuffle:
		return c, true
	}
	return "", false
}

// Session 一局游戏
// 非并发安全：所有方法必须在同一个 goroutine 中调用
type Session struct {
	tuning config.Tuning
	seed   int64
	frame  uint64

	rng           *rand.Rand
	entityManager *ecs.EntityManager
	gameState     *game.GameState
	scheduler     *systems.Scheduler
	events        *game.EventQueue
	pointer       *systems.Pointer

	movement *systems.MovementSystem
	spawner  *systems.SpawnSystem
	messages *systems.MessageSystem
	level    *systems.LevelSystem
	capture  *systems.CaptureSystem
	drag     *systems.DragSystem
	router   *systems.InputRouter
	shuffle  *systems.ShuffleSystem
	fade     *systems.FadeSystem

	recorder InputRecorder
}

// NewSession 创建一局游戏并生成第一批垃圾
func NewSession(t config.Tuning, seed int64) *Session {
	s := &Session{
		tuning:        t,
		seed:          seed,
		rng:           rand.New(rand.NewSource(seed)),
		entityManager: ecs.NewEntityManager(),
		events:        &game.EventQueue{},
		pointer:       &systems.Pointer{},
	}
	s.gameState = game.NewGameState(t)
	s.scheduler = systems.NewScheduler(s.entityManager)
	s.messages = systems.NewMessageSystem(s.scheduler, s.events, t.Message)
	s.spawner = systems.NewSpawnSystem(s.entityManager, s.gameState, s.rng, s.scheduler, s.events, t)
	s.level = systems.NewLevelSystem(s.entityManager, s.gameState, s.scheduler, s.events, s.messages, s.spawner, t)
	s.capture = systems.NewCaptureSystem(s.entityManager, s.gameState, s.scheduler, s.events, s.messages, s.level, t)
	s.drag = systems.NewDragSystem(s.entityManager, s.capture, t)
	s.router = systems.NewInputRouter(s.drag, s.pointer)
	s.movement = systems.NewMovementSystem(s.entityManager, s.gameState, s.pointer, s.rng, t)
	s.shuffle = systems.NewShuffleSystem(s.entityManager, s.rng, s.scheduler, s.events, s.messages, t)
	s.fade = systems.NewFadeSystem(s.entityManager)

	s.messages.Show(systems.MessageWelcome, 0)
	s.spawner.SpawnBatch(s.gameState.TargetCount)
	log.Printf("[Session] 新会话，种子 %d", seed)
	return s
}

// SetRecorder 设置输入录像，nil 表示不录像
func (s *Session) SetRecorder(r InputRecorder) {
	s.recorder = r
}

// Step 推进一帧
//
// 顺序：运动 -> 猫爪骰子 -> 淡出动画 -> 到期任务 -> 清理删除的实体
func (s *Session) Step() {
	s.frame++
	s.events.SetFrame(s.frame)

	dt := s.tuning.FrameDuration()
	s.movement.Update()
	s.shuffle.Update()
	s.fade.Update(dt)
	s.scheduler.Update(dt)

	for _, id := range s.entityManager.RemoveMarkedEntities() {
		s.scheduler.CancelOwner(id)
	}
}

// HandlePointer 处理一个指针事件（游戏区域坐标）
func (s *Session) HandlePointer(ev systems.PointerEvent) {
	if s.recorder != nil {
		s.recordErr(s.recorder.RecordInput(s.frame, ev))
	}
	s.router.Route(ev)
}

func (s *Session) recordErr(err error) {
	if err != nil {
		log.Printf("[Session] 录像写入失败: %v", err)
		s.recorder = nil
	}
}

func (s *Session) recordCommand(cmd Command) {
	if s.recorder != nil {
		s.recordErr(s.recorder.RecordCommand(s.frame, cmd))
	}
}

// Command 执行一个调试命令，返回是否生效
func (s *Session) Command(cmd Command) bool {
	switch cmd {
	case CommandSpawn:
		_, ok := s.SpawnOne()
		return ok
	case CommandSkip:
		return s.SkipLevel()
	case CommandShuffle:
		return s.TriggerShuffle()
	}
	return false
}

// PointerMoved 指针移动
func (s *Session) PointerMoved(x, y float64) {
	s.HandlePointer(systems.PointerEvent{Kind: systems.PointerMove, X: x, Y: y})
}

// PointerPressed 指针按下
func (s *Session) PointerPressed(x, y float64) {
	s.HandlePointer(systems.PointerEvent{Kind: systems.PointerPress, X: x, Y: y})
}

// PointerReleased 指针释放
func (s *Session) PointerReleased(x, y float64) {
	s.HandlePointer(systems.PointerEvent{Kind: systems.PointerRelease, X: x, Y: y})
}

// SpawnOne 调试：立即生成一个垃圾
// 等待生成下一批期间不生成，返回 false
func (s *Session) SpawnOne() (ecs.EntityID, bool) {
	if s.level.RespawnPending() {
		return 0, false
	}
	s.recordCommand(CommandSpawn)
	return s.spawner.SpawnBatch(1)[0], true
}

// SkipLevel 调试：清除当前批次并进入下一关
// 等待生成下一批期间返回 false
func (s *Session) SkipLevel() bool {
	if s.level.RespawnPending() {
		return false
	}
	s.recordCommand(CommandSkip)
	s.router.Cancel()
	for _, id := range ecs.GetEntitiesWith1[*components.TrashComponent](s.entityManager) {
		trash, _ := ecs.GetComponent[*components.TrashComponent](s.entityManager, id)
		if trash.Caught {
			continue
		}
		s.entityManager.DestroyEntity(id)
		s.scheduler.CancelOwner(id)
	}
	s.level.LevelUp()
	return true
}

// TriggerShuffle 调试：立即触发猫爪
func (s *Session) TriggerShuffle() bool {
	if !s.shuffle.Trigger() {
		return false
	}
	s.recordCommand(CommandShuffle)
	return true
}

// DrainEvents 取出本帧之前产生的所有事件
func (s *Session) DrainEvents() []game.Event {
	return s.events.Drain()
}

// Frame 返回当前帧号
func (s *Session) Frame() uint64 { return s.frame }

// Seed 返回随机种子
func (s *Session) Seed() int64 { return s.seed }

// Tuning 返回数值配置
func (s *Session) Tuning() config.Tuning { return s.tuning }

// Level 返回当前关卡
func (s *Session) Level() int { return s.gameState.Level }

// Recycled 返回已回收数量
func (s *Session) Recycled() int { return s.gameState.Recycled }

// ActiveCount 返回活动垃圾数量
func (s *Session) ActiveCount() int { return s.level.ActiveCount() }

// GameState 返回游戏状态（只读使用）
func (s *Session) GameState() *game.GameState { return s.gameState }
