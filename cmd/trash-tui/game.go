package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/trashcatch/pkg/components"
	"github.com/decker502/trashcatch/pkg/config"
	"github.com/decker502/trashcatch/pkg/replay"
	"github.com/decker502/trashcatch/pkg/sim"
	"github.com/decker502/trashcatch/pkg/utils"
)

var (
	styleHUD     = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorLightGreen)
	styleBin     = tcell.StyleDefault.Foreground(tcell.ColorDodgerBlue)
	styleFleeing = tcell.StyleDefault.Bold(true)
	styleFading  = tcell.StyleDefault.Dim(true)
	styleDebug   = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// tuiGame 终端版游戏
type tuiGame struct {
	screen  tcell.Screen
	tuning  config.Tuning
	session *sim.Session
	view    viewport
	sound   *soundPlayer
	debug   bool

	// recorder 只录制第一局
	recorder *replay.Recorder
	recorded *sim.Session

	// tcell 只报告按键状态，按下/释放由跟踪器比较得出
	pointer *utils.PointerTracker
}

func newTUIGame(screen tcell.Screen, t config.Tuning, session *sim.Session, sound *soundPlayer, debug bool) *tuiGame {
	g := &tuiGame{
		screen:  screen,
		tuning:  t,
		session: session,
		sound:   sound,
		debug:   debug,
		pointer: utils.NewPointerTracker(),
	}
	g.resize()
	return g
}

func (g *tuiGame) resize() {
	cols, rows := g.screen.Size()
	g.view = newViewport(cols, rows, g.tuning.Layout.Width, g.tuning.Layout.Height)
}

// run 主循环：模拟按固定帧率推进，输入事件在两帧之间处理
func (g *tuiGame) run() {
	ticker := time.NewTicker(time.Duration(g.tuning.FrameDuration() * float64(time.Second)))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				// Fini 之后返回 nil
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-eventChan:
			if !ok || !g.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			g.session.Step()
			g.sound.handleEvents(g.session.DrainEvents())
			g.draw()
		}
	}
}

// handleEvent 处理一个终端事件，返回 false 表示退出
func (g *tuiGame) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return g.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventMouse:
		x, y := ev.Position()
		g.handleMouse(x, y, ev.Buttons()&tcell.Button1 != 0)
	case *tcell.EventResize:
		g.resize()
		g.screen.Sync()
	}
	return true
}

// handleKey 处理按键，返回 false 表示退出
func (g *tuiGame) handleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
	default:
		return true
	}

	switch r {
	case 'q':
		return false
	case 'm':
		muted := g.sound.toggleMute()
		log.Printf("[TUI] 静音: %v", muted)
	}
	if !g.debug {
		return true
	}
	switch r {
	case 'n':
		g.session.SpawnOne()
	case 'l':
		g.session.SkipLevel()
	case 'p':
		g.session.TriggerShuffle()
	case 'r':
		g.restart()
	}
	return true
}

// handleMouse 把单元格坐标转换为游戏坐标交给模拟
func (g *tuiGame) handleMouse(cx, cy int, pressed bool) {
	sample := utils.PointerSample{X: cx, Y: cy, Down: pressed, TouchID: -1}
	for _, a := range g.pointer.Feed(sample) {
		x, y := g.view.toWorld(a.X, a.Y)
		switch a.Kind {
		case utils.PointerActionMove:
			g.session.PointerMoved(x, y)
		case utils.PointerActionPress:
			g.sound.startMusic()
			g.session.PointerPressed(x, y)
		case utils.PointerActionRelease:
			g.session.PointerReleased(x, y)
		}
	}
}

// restart 开始新的一局，结束第一局的录像
func (g *tuiGame) restart() {
	g.finishRecording()
	g.session = sim.NewSession(g.tuning, time.Now().UnixNano())
	g.pointer.Reset()
	log.Printf("[TUI] 新的一局（种子 %d）", g.session.Seed())
}

func (g *tuiGame) finishRecording() {
	if g.recorder == nil {
		return
	}
	if err := g.recorder.Finish(g.recorded); err != nil {
		log.Printf("[TUI] 录像保存失败: %v", err)
	}
	g.recorder = nil
	g.recorded = nil
}

func (g *tuiGame) draw() {
	snap := g.session.Snapshot()
	g.screen.Clear()
	g.drawBin(snap.Bin)
	for _, e := range snap.Entities {
		g.drawEntity(e)
	}
	if snap.Paw.Visible {
		half := snap.Paw.Size / 2
		cx, cy := g.view.toCell(snap.Paw.X+half, snap.Paw.Y+half)
		g.screen.SetContent(cx, cy, '🐾', nil, tcell.StyleDefault)
	}
	g.drawHUD(snap)
	g.screen.Show()
}

func (g *tuiGame) drawEntity(e sim.EntityView) {
	if e.Alpha <= 0 {
		return
	}
	half := float64(e.Size) / 2
	cx, cy := g.view.toCell(e.X+half, e.Y+half)
	style := tcell.StyleDefault
	switch {
	case e.State == components.TrashCaptured:
		style = styleFading
	case e.Fleeing:
		style = styleFleeing
	}
	g.screen.SetContent(cx, cy, e.Kind.Glyph(), nil, style)
	if g.debug {
		g.drawText(cx+2, cy, styleDebug, e.State.String())
	}
}

// drawBin 用制表符画出回收箱边框
func (g *tuiGame) drawBin(bin config.Rect) {
	x0, y0, x1, y1 := g.view.rectCells(bin)
	for x := x0 + 1; x < x1; x++ {
		g.screen.SetContent(x, y0, tcell.RuneHLine, nil, styleBin)
		g.screen.SetContent(x, y1, tcell.RuneHLine, nil, styleBin)
	}
	for y := y0 + 1; y < y1; y++ {
		g.screen.SetContent(x0, y, tcell.RuneVLine, nil, styleBin)
		g.screen.SetContent(x1, y, tcell.RuneVLine, nil, styleBin)
	}
	g.screen.SetContent(x0, y0, tcell.RuneULCorner, nil, styleBin)
	g.screen.SetContent(x1, y0, tcell.RuneURCorner, nil, styleBin)
	g.screen.SetContent(x0, y1, tcell.RuneLLCorner, nil, styleBin)
	g.screen.SetContent(x1, y1, tcell.RuneLRCorner, nil, styleBin)
	g.drawText((x0+x1)/2-1, (y0+y1)/2, styleBin, "BIN")
}

func (g *tuiGame) drawHUD(snap sim.Snapshot) {
	for x := 0; x < g.view.cols; x++ {
		g.screen.SetContent(x, 0, ' ', nil, styleHUD)
	}
	g.drawText(0, 0, styleHUD, hudText(snap, g.sound.muted))
}

// hudText 状态栏文本
func hudText(snap sim.Snapshot, muted bool) string {
	s := fmt.Sprintf(" Level %d  Recycled %d", snap.Level, snap.Recycled)
	if muted {
		s += "  [muted]"
	}
	if snap.Message != "" {
		s += "  | " + snap.Message
	}
	return s
}

func (g *tuiGame) drawText(x, y int, style tcell.Style, s string) {
	for _, r := range s {
		g.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
