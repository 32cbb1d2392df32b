package scenes

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/trashcatch/pkg/utils"
)

// samplePointer 读取当前帧的鼠标/触摸状态
func samplePointer(pt *utils.PointerTracker) utils.PointerSample {
	// 拖拽中的触摸优先
	if id, ok := pt.Tracking(); ok {
		for _, tid := range ebiten.AppendTouchIDs(nil) {
			if int(tid) == id {
				x, y := ebiten.TouchPosition(tid)
				return utils.PointerSample{X: x, Y: y, Down: true, Touch: true, TouchID: id}
			}
		}
		// 手指已抬起
		x, y, _ := pt.Position()
		return utils.PointerSample{X: x, Y: y, Touch: true, TouchID: id}
	}

	// 新的触摸
	if !pt.IsDown() {
		if ids := inpututil.AppendJustPressedTouchIDs(nil); len(ids) > 0 {
			x, y := ebiten.TouchPosition(ids[0])
			return utils.PointerSample{X: x, Y: y, Down: true, Touch: true, TouchID: int(ids[0])}
		}
	}

	// 鼠标
	x, y := ebiten.CursorPosition()
	return utils.PointerSample{
		X:       x,
		Y:       y,
		Down:    ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		TouchID: -1,
	}
}
