package scenes

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/trashcatch/pkg/components"
	"github.com/decker502/trashcatch/pkg/sim"
)

var (
	colorDebugBox  = color.RGBA{R: 255, G: 0, B: 255, A: 160}
	colorDebugDrag = color.RGBA{R: 255, G: 140, B: 0, A: 220}
	colorDebugFlee = color.RGBA{R: 0, G: 160, B: 255, A: 120}
)

// debugLines 调试信息文本
func debugLines(snap sim.Snapshot, fps, tps float64) []string {
	dragging := 0
	for _, e := range snap.Entities {
		if e.State == components.TrashDragging {
			dragging++
		}
	}
	return []string{
		fmt.Sprintf("FPS %.0f  TPS %.0f", fps, tps),
		fmt.Sprintf("frame %d  entities %d  dragging %d", snap.Frame, len(snap.Entities), dragging),
		fmt.Sprintf("speed x%.2f", snap.SpeedMultiplier),
		"[N] spawn  [L] skip level  [P] shuffle  [R] restart  [M] music",
	}
}

// drawDebug 绘制包围盒、逃离半径和调试文本
func (s *GameScene) drawDebug(screen *ebiten.Image, snap sim.Snapshot) {
	fleeRadius := float32(s.session.Tuning().Movement.FleeRadius)
	for _, e := range snap.Entities {
		clr := colorDebugBox
		if e.State == components.TrashDragging {
			clr = colorDebugDrag
		}
		vector.StrokeRect(screen, float32(e.X), float32(e.Y), float32(e.Size), float32(e.Size), 1, clr, false)
	}
	if x, y, ok := s.pointer.Position(); ok {
		vector.StrokeCircle(screen, float32(x), float32(y), fleeRadius, 1, colorDebugFlee, true)
	}
	bx, by := binCenter(snap.Bin)
	vector.DrawFilledCircle(screen, float32(bx), float32(by), 3, colorDebugBox, true)

	y := int(snap.Height) - 16*4 - 8
	for _, line := range debugLines(snap, ebiten.ActualFPS(), ebiten.ActualTPS()) {
		ebitenutil.DebugPrintAt(screen, line, 8, y)
		y += 16
	}
}
