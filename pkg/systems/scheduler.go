package systems

import (
	"log"
	"sort"

	"github.com/decker502/trashcatch/pkg/ecs"
)

// Token 标识一个已调度的任务，可用于取消
// 0 表示无效 Token
type Token uint64

type scheduledTask struct {
	token     Token
	due       float64      // 到期时间（调度器时钟，秒）
	owner     ecs.EntityID // 任务所属实体，0 表示不属于任何实体
	name      string
	fn        func()
	cancelled bool
}

// Scheduler 模拟时钟上的延时任务
//
// 所有定时行为（弹出动画、淡出删除、升级后重新生成、猫爪、提示消息过期）都经由调度器，
// 在模拟线程的 Update 中执行，不使用 goroutine 或 time.AfterFunc。
//
// 任务按到期时间执行，到期时间相同时按调度顺序执行。
// 绑定实体的任务在实体已不存在时直接丢弃，实体被删除时应调用 CancelOwner。
type Scheduler struct {
	entityManager *ecs.EntityManager
	now           float64
	nextToken     Token
	tasks         []*scheduledTask // 按 (due, token) 升序
	byToken       map[Token]*scheduledTask
}

// NewScheduler 创建调度器
func NewScheduler(em *ecs.EntityManager) *Scheduler {
	return &Scheduler{
		entityManager: em,
		nextToken:     1,
		byToken:       make(map[Token]*scheduledTask),
	}
}

// Now 返回调度器当前时间（秒）
func (s *Scheduler) Now() float64 {
	return s.now
}

// Pending 返回尚未执行的任务数量
func (s *Scheduler) Pending() int {
	return len(s.byToken)
}

// After 在 delay 秒后执行 fn
func (s *Scheduler) After(delay float64, name string, fn func()) Token {
	return s.AfterFor(0, delay, name, fn)
}

// AfterFor 在 delay 秒后执行 fn，任务绑定到实体 owner
func (s *Scheduler) AfterFor(owner ecs.EntityID, delay float64, name string, fn func()) Token {
	if delay < 0 {
		delay = 0
	}
	task := &scheduledTask{
		token: s.nextToken,
		due:   s.now + delay,
		owner: owner,
		name:  name,
		fn:    fn,
	}
	s.nextToken++

	i := sort.Search(len(s.tasks), func(i int) bool {
		t := s.tasks[i]
		if t.due != task.due {
			return t.due > task.due
		}
		return t.token > task.token
	})
	s.tasks = append(s.tasks, nil)
	copy(s.tasks[i+1:], s.tasks[i:])
	s.tasks[i] = task
	s.byToken[task.token] = task
	return task.token
}

// Cancel 取消任务，任务不存在或已执行时返回 false
func (s *Scheduler) Cancel(token Token) bool {
	task, ok := s.byToken[token]
	if !ok {
		return false
	}
	task.cancelled = true
	delete(s.byToken, token)
	return true
}

// CancelOwner 取消绑定到实体的所有任务，返回取消数量
func (s *Scheduler) CancelOwner(owner ecs.EntityID) int {
	if owner == 0 {
		return 0
	}
	n := 0
	for _, task := range s.tasks {
		if task.owner == owner && !task.cancelled {
			task.cancelled = true
			delete(s.byToken, task.token)
			n++
		}
	}
	return n
}

// Update 推进时钟并执行所有到期任务
// 任务回调中新调度的、已到期的任务也会在本次 Update 中执行
func (s *Scheduler) Update(deltaTime float64) {
	s.now += deltaTime

	for len(s.tasks) > 0 && s.tasks[0].due <= s.now {
		task := s.tasks[0]
		s.tasks[0] = nil
		s.tasks = s.tasks[1:]

		if task.cancelled {
			continue
		}
		delete(s.byToken, task.token)

		if task.owner != 0 && !s.entityManager.Exists(task.owner) {
			log.Printf("[Scheduler] 丢弃任务 %q: 实体 %d 已不存在", task.name, task.owner)
			continue
		}
		task.fn()
	}
}
