package scenes

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/trashcatch/pkg/components"
	"github.com/decker502/trashcatch/pkg/sim"
)

// spriteSize 预绘制精灵的边长（像素），绘制时按垃圾尺寸缩放
const spriteSize = 64

// trashSprites 每种垃圾一张精灵
type trashSprites [components.TrashKindCount]*ebiten.Image

func newTrashSprites() trashSprites {
	var sprites trashSprites
	for k := range sprites {
		img := ebiten.NewImage(spriteSize, spriteSize)
		drawTrashSprite(img, components.TrashKind(k))
		sprites[k] = img
	}
	return sprites
}

func (ts trashSprites) get(k components.TrashKind) *ebiten.Image {
	if int(k) < 0 || int(k) >= len(ts) {
		return ts[0]
	}
	return ts[k]
}

var (
	colorMaple     = color.RGBA{R: 222, G: 72, B: 36, A: 255}
	colorMapleDark = color.RGBA{R: 160, G: 40, B: 20, A: 255}
	colorCandy     = color.RGBA{R: 240, G: 96, B: 170, A: 255}
	colorCandyLite = color.RGBA{R: 255, G: 200, B: 230, A: 255}
	colorStick     = color.RGBA{R: 235, G: 235, B: 235, A: 255}
	colorLeaf      = color.RGBA{R: 196, G: 128, B: 48, A: 255}
	colorLeafVein  = color.RGBA{R: 120, G: 72, B: 24, A: 255}
	colorAvoSkin   = color.RGBA{R: 52, G: 92, B: 40, A: 255}
	colorAvoFlesh  = color.RGBA{R: 190, G: 220, B: 110, A: 255}
	colorAvoPit    = color.RGBA{R: 130, G: 82, B: 40, A: 255}
	colorFace      = color.RGBA{R: 252, G: 240, B: 225, A: 255}
	colorHair      = color.RGBA{R: 250, G: 140, B: 30, A: 255}
	colorNose      = color.RGBA{R: 230, G: 30, B: 40, A: 255}
	colorInk       = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	colorPaw       = color.RGBA{R: 120, G: 110, B: 105, A: 235}
	colorPawPad    = color.RGBA{R: 240, G: 170, B: 180, A: 255}
)

// drawTrashSprite 用简单图形画出垃圾的样子
func drawTrashSprite(img *ebiten.Image, k components.TrashKind) {
	switch k {
	case components.TrashMapleLeaf:
		// 五片叶瓣围绕中心
		vector.DrawFilledCircle(img, 32, 34, 14, colorMaple, true)
		vector.DrawFilledCircle(img, 32, 14, 11, colorMaple, true)
		vector.DrawFilledCircle(img, 14, 26, 11, colorMaple, true)
		vector.DrawFilledCircle(img, 50, 26, 11, colorMaple, true)
		vector.DrawFilledCircle(img, 20, 44, 9, colorMaple, true)
		vector.DrawFilledCircle(img, 44, 44, 9, colorMaple, true)
		vector.StrokeLine(img, 32, 34, 32, 62, 3, colorMapleDark, true)
	case components.TrashLollipop:
		vector.StrokeLine(img, 32, 34, 32, 62, 5, colorStick, true)
		vector.DrawFilledCircle(img, 32, 24, 21, colorCandy, true)
		vector.StrokeCircle(img, 32, 24, 13, 4, colorCandyLite, true)
		vector.DrawFilledCircle(img, 32, 24, 5, colorCandyLite, true)
	case components.TrashFallenLeaf:
		vector.DrawFilledCircle(img, 26, 38, 18, colorLeaf, true)
		vector.DrawFilledCircle(img, 38, 26, 18, colorLeaf, true)
		vector.StrokeLine(img, 12, 52, 50, 14, 3, colorLeafVein, true)
		vector.StrokeLine(img, 8, 58, 14, 50, 3, colorLeafVein, true)
	case components.TrashAvocado:
		vector.DrawFilledCircle(img, 32, 38, 24, colorAvoSkin, true)
		vector.DrawFilledCircle(img, 32, 20, 16, colorAvoSkin, true)
		vector.DrawFilledCircle(img, 32, 38, 19, colorAvoFlesh, true)
		vector.DrawFilledCircle(img, 32, 22, 12, colorAvoFlesh, true)
		vector.DrawFilledCircle(img, 32, 40, 10, colorAvoPit, true)
	case components.TrashClown:
		vector.DrawFilledCircle(img, 10, 28, 10, colorHair, true)
		vector.DrawFilledCircle(img, 54, 28, 10, colorHair, true)
		vector.DrawFilledCircle(img, 32, 34, 25, colorFace, true)
		vector.DrawFilledCircle(img, 23, 27, 3.5, colorInk, true)
		vector.DrawFilledCircle(img, 41, 27, 3.5, colorInk, true)
		vector.DrawFilledCircle(img, 32, 36, 6, colorNose, true)
		vector.StrokeLine(img, 21, 46, 32, 51, 3, colorNose, true)
		vector.StrokeLine(img, 32, 51, 43, 46, 3, colorNose, true)
	}
}

// newPawSprite 猫爪：一个肉垫加四个趾垫
func newPawSprite() *ebiten.Image {
	img := ebiten.NewImage(spriteSize, spriteSize)
	vector.DrawFilledCircle(img, 32, 40, 20, colorPaw, true)
	vector.DrawFilledCircle(img, 32, 42, 11, colorPawPad, true)
	for _, toe := range [][2]float32{{12, 22}, {24, 12}, {40, 12}, {52, 22}} {
		vector.DrawFilledCircle(img, toe[0], toe[1], 8, colorPaw, true)
		vector.DrawFilledCircle(img, toe[0], toe[1], 4.5, colorPawPad, true)
	}
	return img
}

// fleeLift 逃离中的垃圾上浮像素
const fleeLift = 4

// trashGeoM 计算垃圾精灵的变换：以中心为原点旋转缩放，再平移到垃圾中心
func trashGeoM(e sim.EntityView) ebiten.GeoM {
	var m ebiten.GeoM
	m.Translate(-spriteSize/2, -spriteSize/2)
	m.Rotate(e.Rotation * math.Pi / 180)
	m.Scale(float64(e.Size)*e.Scale/spriteSize, float64(e.Size)*e.Scale/spriteSize)
	half := float64(e.Size) / 2
	cy := e.Y + half
	if e.Fleeing {
		cy -= fleeLift
	}
	m.Translate(e.X+half, cy)
	return m
}

// drawTrash 按 ID 顺序绘制垃圾（越新越靠上）
func (s *GameScene) drawTrash(screen *ebiten.Image, snap sim.Snapshot) {
	for _, e := range snap.Entities {
		if e.Alpha <= 0 || e.Scale <= 0 {
			continue
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM = trashGeoM(e)
		op.ColorScale.ScaleAlpha(float32(e.Alpha))
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(s.sprites.get(e.Kind), op)
	}
}

func (s *GameScene) drawPaw(screen *ebiten.Image, paw sim.PawView) {
	if !paw.Visible || paw.Size <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(paw.Size/spriteSize, paw.Size/spriteSize)
	op.GeoM.Translate(paw.X, paw.Y)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(s.pawImg, op)
}
