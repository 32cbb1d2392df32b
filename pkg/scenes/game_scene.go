package scenes

import (
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/decker502/trashcatch/pkg/game"
	"github.com/decker502/trashcatch/pkg/sim"
	"github.com/decker502/trashcatch/pkg/sound"
	"github.com/decker502/trashcatch/pkg/utils"
)

// GameScene 游戏主场景
//
// 场景本身不包含玩法逻辑：它把鼠标/触摸输入转交给 sim.Session，
// 按模拟帧率推进 Session，消费事件播放音效、更新记录，并绘制快照。
type GameScene struct {
	session      *sim.Session
	sceneManager *SceneManager       // 可为 nil（不支持重新开始）
	audio        *sound.AudioManager // 可为 nil
	records      *game.RecordManager // 可为 nil
	settings     *game.SettingsManager

	pointer *utils.PointerTracker
	debug   bool

	// 固定步长累加器（秒）
	accumulator float64
	// 首次点击时开始播放音乐
	musicStarted bool

	sprites trashSprites
	pawImg  *ebiten.Image
	hudFont *text.GoTextFace
	msgFont *text.GoTextFace
}

// GameSceneOptions 创建场景所需的依赖
type GameSceneOptions struct {
	Session      *sim.Session
	SceneManager *SceneManager
	Audio        *sound.AudioManager
	Records      *game.RecordManager
	Settings     *game.SettingsManager
	Debug        bool // 启用调试按键和调试信息
}

// NewGameScene 创建游戏场景
func NewGameScene(opts GameSceneOptions) *GameScene {
	s := &GameScene{
		session:      opts.Session,
		sceneManager: opts.SceneManager,
		audio:        opts.Audio,
		records:      opts.Records,
		settings:     opts.Settings,
		pointer:      utils.NewPointerTracker(),
		debug:        opts.Debug,
		sprites:      newTrashSprites(),
		pawImg:       newPawSprite(),
	}
	s.hudFont, s.msgFont = loadFonts()
	if s.records != nil {
		s.records.BeginSession(time.Now())
	}
	log.Printf("[GameScene] 场景已创建（种子 %d，调试 %v）", s.session.Seed(), s.debug)
	return s
}

// Session 返回当前局
func (s *GameScene) Session() *sim.Session {
	return s.session
}

// Update 处理输入并推进模拟
func (s *GameScene) Update(deltaTime float64) {
	for _, a := range s.pointer.Feed(samplePointer(s.pointer)) {
		s.applyPointer(a)
	}
	s.handleKeys()

	frame := s.session.Tuning().FrameDuration()
	s.accumulator += deltaTime
	for s.accumulator >= frame {
		s.accumulator -= frame
		s.session.Step()
		s.consumeEvents(s.session.DrainEvents())
	}
}

// applyPointer 把屏幕坐标的指针动作交给模拟（屏幕即游戏区域）
func (s *GameScene) applyPointer(a utils.PointerAction) {
	x, y := float64(a.X), float64(a.Y)
	switch a.Kind {
	case utils.PointerActionMove:
		s.session.PointerMoved(x, y)
	case utils.PointerActionPress:
		s.startMusic()
		s.session.PointerPressed(x, y)
	case utils.PointerActionRelease:
		s.session.PointerReleased(x, y)
	}
}

func (s *GameScene) startMusic() {
	if s.musicStarted || s.audio == nil {
		return
	}
	s.musicStarted = true
	s.audio.PlayMusic()
}

// handleKeys 处理键盘：M 静音，调试模式下 N/L/P/R
func (s *GameScene) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		s.toggleMusic()
	}
	if !s.debug {
		return
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		if id, ok := s.session.SpawnOne(); ok {
			log.Printf("[GameScene] 调试：生成垃圾 %d", id)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		if !s.session.SkipLevel() {
			log.Printf("[GameScene] 调试：正在生成下一批，忽略跳关")
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		s.session.TriggerShuffle()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		if s.sceneManager != nil {
			s.sceneManager.Restart()
		}
	}
}

func (s *GameScene) toggleMusic() {
	if s.settings == nil {
		return
	}
	enabled := !s.settings.GetSettings().MusicEnabled
	s.settings.SetMusicEnabled(enabled)
	if s.audio == nil {
		return
	}
	if enabled {
		s.musicStarted = true
		s.audio.PlayMusic()
	} else {
		s.audio.StopMusic()
	}
}

// consumeEvents 播放音效并更新个人记录
func (s *GameScene) consumeEvents(events []game.Event) {
	if len(events) == 0 {
		return
	}
	if s.audio != nil {
		s.audio.HandleEvents(events)
	}
	for _, ev := range events {
		switch ev.Type {
		case game.EventLevelUp:
			log.Printf("[GameScene] 第 %d 关（帧 %d）", ev.Level, ev.Frame)
			if s.records != nil && s.records.Observe(s.session.GameState()) {
				log.Printf("[GameScene] 新的最高关卡: %d", ev.Level)
			}
		case game.EventCaptured:
			if s.records != nil {
				s.records.Observe(s.session.GameState())
			}
		}
	}
}

// SaveOnExit 保存记录和设置
func (s *GameScene) SaveOnExit() bool {
	ok := true
	if s.records != nil {
		s.records.Observe(s.session.GameState())
		if err := s.records.Save(); err != nil {
			log.Printf("[GameScene] 保存记录失败: %v", err)
			ok = false
		}
	}
	if s.settings != nil {
		if err := s.settings.Save(); err != nil {
			log.Printf("[GameScene] 保存设置失败: %v", err)
			ok = false
		}
	}
	return ok
}

// Draw 绘制当前快照
func (s *GameScene) Draw(screen *ebiten.Image) {
	snap := s.session.Snapshot()
	s.drawPlayArea(screen, snap)
	s.drawTrash(screen, snap)
	s.drawPaw(screen, snap.Paw)
	s.drawHUD(screen, snap)
	if s.debug {
		s.drawDebug(screen, snap)
	}
}
