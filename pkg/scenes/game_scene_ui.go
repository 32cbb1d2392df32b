package scenes

import (
	"bytes"
	"fmt"
	"image/color"
	"log"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/examples/resources/fonts"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/trashcatch/pkg/config"
	"github.com/decker502/trashcatch/pkg/sim"
	"github.com/decker502/trashcatch/pkg/utils"
)

const (
	hudFontSize  = 20
	msgFontSize  = 18
	hudPadding   = 12
	msgMaxWidth  = 520
	msgLineSpace = 1.3
)

var (
	colorBackground = color.RGBA{R: 236, G: 244, B: 228, A: 255}
	colorBinFill    = color.RGBA{R: 60, G: 130, B: 200, A: 200}
	colorBinBorder  = color.RGBA{R: 30, G: 80, B: 140, A: 255}
	colorHUDText    = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	colorMsgPanel   = color.RGBA{R: 255, G: 255, B: 255, A: 210}
)

// loadFonts 加载 HUD 和消息字体，失败时返回 nil（回退到调试字体）
func loadFonts() (hud, msg *text.GoTextFace) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(fonts.MPlus1pRegular_ttf))
	if err != nil {
		log.Printf("[GameScene] 加载字体失败: %v", err)
		return nil, nil
	}
	return &text.GoTextFace{Source: source, Size: hudFontSize},
		&text.GoTextFace{Source: source, Size: msgFontSize}
}

// faceMeasure 用字体测量文本宽度；face 为 nil 时按调试字体每字符 6 像素估算
func faceMeasure(face *text.GoTextFace) utils.MeasureFunc {
	if face == nil {
		return func(line string) float64 {
			return float64(utf8.RuneCountInString(line) * 6)
		}
	}
	return func(line string) float64 {
		w, _ := text.Measure(line, face, 0)
		return w
	}
}

// drawPlayArea 绘制背景和回收箱
func (s *GameScene) drawPlayArea(screen *ebiten.Image, snap sim.Snapshot) {
	screen.Fill(colorBackground)

	bin := snap.Bin
	vector.DrawFilledRect(screen, float32(bin.X), float32(bin.Y), float32(bin.W), float32(bin.H), colorBinFill, true)
	vector.StrokeRect(screen, float32(bin.X), float32(bin.Y), float32(bin.W), float32(bin.H), 3, colorBinBorder, true)
	// 箱口
	vector.StrokeLine(screen, float32(bin.X-6), float32(bin.Y), float32(bin.Right()+6), float32(bin.Y), 6, colorBinBorder, true)

	s.drawText(screen, "BIN", s.hudFont, bin.X+bin.W/2, bin.Y+bin.H/2, true, color.White)
}

// hudLine 生成 HUD 文本
func hudLine(snap sim.Snapshot, best int) string {
	line := fmt.Sprintf("Level %d   Recycled %d", snap.Level, snap.Recycled)
	if best > 0 {
		line += fmt.Sprintf("   Best %d", best)
	}
	return line
}

// drawHUD 绘制关卡/回收数量和当前消息
func (s *GameScene) drawHUD(screen *ebiten.Image, snap sim.Snapshot) {
	best := 0
	if s.records != nil {
		best = s.records.Records().BestLevel
	}
	s.drawText(screen, hudLine(snap, best), s.hudFont, hudPadding, hudPadding, false, colorHUDText)

	if snap.Message == "" {
		return
	}
	s.drawMessage(screen, snap)
}

// drawMessage 在屏幕上方居中绘制消息面板
func (s *GameScene) drawMessage(screen *ebiten.Image, snap sim.Snapshot) {
	lines := utils.WrapText(snap.Message, msgMaxWidth, faceMeasure(s.msgFont))
	lineHeight := float64(msgFontSize) * msgLineSpace
	if s.msgFont == nil {
		lineHeight = 16
	}

	panelW := float64(msgMaxWidth + 2*hudPadding)
	panelH := float64(len(lines))*lineHeight + 2*hudPadding
	panelX := (snap.Width - panelW) / 2
	panelY := float64(hudPadding * 4)
	vector.DrawFilledRect(screen, float32(panelX), float32(panelY), float32(panelW), float32(panelH), colorMsgPanel, true)

	y := panelY + hudPadding + lineHeight/2
	for _, line := range lines {
		s.drawText(screen, line, s.msgFont, snap.Width/2, y, true, colorHUDText)
		y += lineHeight
	}
}

// drawText 绘制文本；centered 为 true 时 (x, y) 是文本中心，否则是左上角
func (s *GameScene) drawText(screen *ebiten.Image, str string, face *text.GoTextFace, x, y float64, centered bool, clr color.Color) {
	if face == nil {
		// 回退：调试字体不支持颜色和精确居中
		if centered {
			x -= faceMeasure(nil)(str) / 2
			y -= 8
		}
		ebitenutil.DebugPrintAt(screen, str, int(x), int(y))
		return
	}

	op := &text.DrawOptions{}
	if centered {
		op.PrimaryAlign = text.AlignCenter
		op.SecondaryAlign = text.AlignCenter
	}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, str, face, op)
}

// binCenter 回收箱中心（调试绘制使用）
func binCenter(bin config.Rect) (float64, float64) {
	return bin.X + bin.W/2, bin.Y + bin.H/2
}
