package systems

import (
	"math"
	"math/rand"

	"github.com/decker502/trashcatch/pkg/components"
	"github.com/decker502/trashcatch/pkg/config"
	"github.com/decker502/trashcatch/pkg/ecs"
	"github.com/decker502/trashcatch/pkg/game"
	"github.com/decker502/trashcatch/pkg/utils"
)

// MovementSystem 每帧推进空闲垃圾的运动
//
// 对每个未被拖拽、未被回收的垃圾依次执行：
//  1. 指针在逃离半径内时，沿远离指针的方向施加速度增量
//  2. 每轴叠加 ±Jitter 的随机抖动
//  3. 限制速度上限
//  4. 位置加上速度
//  5. 超出边界时钳制位置并以 Bounce 阻尼反弹
type MovementSystem struct {
	entityManager *ecs.EntityManager
	gameState     *game.GameState
	pointer       *Pointer
	rng           *rand.Rand
	movement      config.MovementConfig
	layout        config.LayoutConfig
}

// NewMovementSystem 创建运动系统
func NewMovementSystem(em *ecs.EntityManager, gs *game.GameState, pointer *Pointer, rng *rand.Rand, t config.Tuning) *MovementSystem {
	return &MovementSystem{
		entityManager: em,
		gameState:     gs,
		pointer:       pointer,
		rng:           rng,
		movement:      t.Movement,
		layout:        t.Layout,
	}
}

// Update 推进一帧（速度单位为每帧，与 deltaTime 无关）
func (s *MovementSystem) Update() {
	entities := ecs.GetEntitiesWith3[
		*components.TrashComponent,
		*components.PositionComponent,
		*components.VelocityComponent,
	](s.entityManager)

	for _, id := range entities {
		trash, _ := ecs.GetComponent[*components.TrashComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		vel, _ := ecs.GetComponent[*components.VelocityComponent](s.entityManager, id)

		trash.Fleeing = false
		if trash.Caught || trash.State != components.TrashIdle {
			continue
		}

		s.applyFlee(trash, pos, vel)

		vel.VX += utils.RandSign(s.rng, s.movement.Jitter)
		vel.VY += utils.RandSign(s.rng, s.movement.Jitter)
		s.clampSpeed(vel)

		pos.X += vel.VX
		pos.Y += vel.VY
		s.bounce(trash, pos, vel)
	}
}

// FleeStrength 返回距离 dist 处的逃离强度
// max(FleeMin, (radius - dist) / falloff) * (base + level*step) * speedMultiplier
func (s *MovementSystem) FleeStrength(dist float64) float64 {
	m := s.movement
	strength := math.Max(m.FleeMin, (m.FleeRadius-dist)/m.FleeFalloff)
	return strength * (m.FleeBase + float64(s.gameState.Level)*m.FleeLevelStep) * s.gameState.SpeedMultiplier
}

func (s *MovementSystem) applyFlee(trash *components.TrashComponent, pos *components.PositionComponent, vel *components.VelocityComponent) {
	if !s.pointer.Known {
		return
	}
	cx, cy := trash.Center(pos)
	dx := cx - s.pointer.X
	dy := cy - s.pointer.Y
	dist := math.Hypot(dx, dy)
	if dist >= s.movement.FleeRadius {
		return
	}

	var nx, ny float64
	if dist == 0 {
		// 指针正好在中心，随机选一个方向
		angle := s.rng.Float64() * 2 * math.Pi
		nx, ny = math.Cos(angle), math.Sin(angle)
	} else {
		nx, ny = dx/dist, dy/dist
	}

	flee := s.FleeStrength(dist)
	vel.VX += nx * flee * s.movement.FleeImpulse
	vel.VY += ny * flee * s.movement.FleeImpulse
	trash.Fleeing = true
}

func (s *MovementSystem) clampSpeed(vel *components.VelocityComponent) {
	limit := s.movement.MaxSpeed
	if limit <= 0 {
		return
	}
	speed := math.Hypot(vel.VX, vel.VY)
	if speed > limit {
		scale := limit / speed
		vel.VX *= scale
		vel.VY *= scale
	}
}

func (s *MovementSystem) bounce(trash *components.TrashComponent, pos *components.PositionComponent, vel *components.VelocityComponent) {
	margin := s.movement.Margin
	size := float64(trash.Size)
	maxX := s.layout.Width - size - margin
	maxY := s.layout.Height - size - margin

	if pos.X < margin {
		pos.X = margin
		vel.VX *= -s.movement.Bounce
	}
	if pos.Y < margin {
		pos.Y = margin
		vel.VY *= -s.movement.Bounce
	}
	if pos.X > maxX {
		pos.X = maxX
		vel.VX *= -s.movement.Bounce
	}
	if pos.Y > maxY {
		pos.Y = maxY
		vel.VY *= -s.movement.Bounce
	}
}
