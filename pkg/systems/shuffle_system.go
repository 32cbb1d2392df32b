package systems

import (
	"log"
	"math/rand"

	"github.com/decker502/trashcatch/pkg/components"
	"github.com/decker502/trashcatch/pkg/config"
	"github.com/decker502/trashcatch/pkg/ecs"
	"github.com/decker502/trashcatch/pkg/game"
	"github.com/decker502/trashcatch/pkg/utils"
)

// Paw 猫爪的显示状态
type Paw struct {
	Visible bool
	X, Y    float64
	Size    float64
}

// ShuffleSystem 猫爪打乱事件
//
// 每帧以 Chance 的概率触发：猫爪出现在随机位置，Delay 秒后把所有空闲垃圾
// 移到随机位置，PawHide 秒后猫爪消失。猫爪显示期间不会再次触发。
type ShuffleSystem struct {
	entityManager *ecs.EntityManager
	rng           *rand.Rand
	scheduler     *Scheduler
	events        *game.EventQueue
	messages      *MessageSystem
	shuffle       config.ShuffleConfig
	layout        config.LayoutConfig

	paw Paw
}

// NewShuffleSystem 创建猫爪系统
func NewShuffleSystem(em *ecs.EntityManager, rng *rand.Rand, s *Scheduler, events *game.EventQueue, messages *MessageSystem, t config.Tuning) *ShuffleSystem {
	return &ShuffleSystem{
		entityManager: em,
		rng:           rng,
		scheduler:     s,
		events:        events,
		messages:      messages,
		shuffle:       t.Shuffle,
		layout:        t.Layout,
		paw:           Paw{Size: t.Shuffle.PawSize},
	}
}

// Paw 返回猫爪当前状态
func (s *ShuffleSystem) Paw() Paw {
	return s.paw
}

// Update 每帧掷一次骰子
// 无论是否触发都消耗一个随机数，保证回放时随机序列一致
func (s *ShuffleSystem) Update() {
	roll := s.rng.Float64()
	if s.paw.Visible || roll >= s.shuffle.Chance {
		return
	}
	s.Trigger()
}

// Trigger 立即触发一次猫爪事件，猫爪已显示时返回 false
func (s *ShuffleSystem) Trigger() bool {
	if s.paw.Visible {
		return false
	}
	margin := s.shuffle.Margin
	s.paw.Visible = true
	s.paw.X = utils.RandRange(s.rng, margin, s.layout.Width-s.shuffle.PawSize)
	s.paw.Y = utils.RandRange(s.rng, margin, s.layout.Height-s.shuffle.PawSize)
	s.events.Push(game.Event{Type: game.EventPaw, Visible: true, X: s.paw.X, Y: s.paw.Y})

	s.scheduler.After(s.shuffle.Delay, "paw-shuffle", s.scatter)
	s.scheduler.After(s.shuffle.PawHide, "paw-hide", func() {
		s.paw.Visible = false
		s.events.Push(game.Event{Type: game.EventPaw, Visible: false, X: s.paw.X, Y: s.paw.Y})
	})
	return true
}

// scatter 把所有空闲垃圾移到随机位置（速度不变）
func (s *ShuffleSystem) scatter() {
	entities := ecs.GetEntitiesWith2[*components.TrashComponent, *components.PositionComponent](s.entityManager)

	margin := s.shuffle.Margin
	moved := 0
	for _, id := range entities {
		trash, _ := ecs.GetComponent[*components.TrashComponent](s.entityManager, id)
		if trash.Caught || trash.State != components.TrashIdle {
			continue
		}
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		size := float64(trash.Size)
		pos.X = utils.RandRange(s.rng, margin, s.layout.Width-size-margin)
		pos.Y = utils.RandRange(s.rng, margin, s.layout.Height-size-margin)
		moved++
	}

	s.events.Push(game.Event{Type: game.EventShuffled, Count: moved})
	s.messages.Show(MessageShuffled, 0)
	log.Printf("[ShuffleSystem] 猫爪打乱了 %d 个垃圾", moved)
}
