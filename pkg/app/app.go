// Package app 提供游戏应用的核心包装器
//
// 该包将游戏初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/trashcatch/pkg/config"
	"github.com/decker502/trashcatch/pkg/game"
	"github.com/decker502/trashcatch/pkg/replay"
	"github.com/decker502/trashcatch/pkg/scenes"
	"github.com/decker502/trashcatch/pkg/sim"
	"github.com/decker502/trashcatch/pkg/sound"
	"github.com/decker502/trashcatch/pkg/utils"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Debug 启用调试按键和调试绘制
	Debug bool
	// Seed 第一局的随机种子，0 表示使用当前时间
	Seed int64
	// TuningPath 数值配置文件，为空时使用嵌入的默认配置
	TuningPath string
	// RecordPath 第一局录像的输出路径，为空则不录像
	RecordPath string
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager *scenes.SceneManager
	settings     *game.SettingsManager
	tuning       config.Tuning
	verbose      bool

	// recorder 只录制第一局
	recorder *replay.Recorder
	recorded *sim.Session

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
//
// 调用此函数前，应先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	tuning, err := config.ResolveTuning(cfg.TuningPath)
	if err != nil {
		return nil, fmt.Errorf("数值配置加载失败: %w", err)
	}
	log.Printf("[App] 数值配置: %d FPS, 摘要 %s", tuning.FrameRate, tuning.Digest())

	// 存储打开失败时降级为仅内存模式
	storage, err := game.OpenStorage(game.AppName)
	if err != nil {
		log.Printf("[App] Warning: %v (settings and records will not persist)", err)
		storage = nil
	}
	settings := game.NewSettingsManager(storage)
	records := game.NewRecordManager(storage)

	audioContext := audio.NewContext(sound.AudioSampleRate)
	audioManager := sound.NewAudioManager(audioContext, settings)
	audioManager.Preload()
	log.Printf("[App] AudioManager initialized")

	a := &App{
		sceneManager: scenes.NewSceneManager(),
		settings:     settings,
		tuning:       tuning,
		verbose:      cfg.Verbose,
	}

	newScene := func(session *sim.Session) scenes.Scene {
		return scenes.NewGameScene(scenes.GameSceneOptions{
			Session:      session,
			SceneManager: a.sceneManager,
			Audio:        audioManager,
			Records:      records,
			Settings:     settings,
			Debug:        cfg.Debug,
		})
	}

	// 重新开始时使用新的种子；录像在第一局结束时收尾
	a.sceneManager.SetSceneFactory(func() scenes.Scene {
		a.finishRecording()
		return newScene(sim.NewSession(tuning, time.Now().UnixNano()))
	})

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	first := sim.NewSession(tuning, seed)
	if cfg.RecordPath != "" {
		rec, err := replay.Create(cfg.RecordPath, seed, tuning)
		if err != nil {
			return nil, fmt.Errorf("无法创建录像文件: %w", err)
		}
		first.SetRecorder(rec)
		a.recorder = rec
		a.recorded = first
		log.Printf("[App] 录像写入 %s", cfg.RecordPath)
	}
	a.sceneManager.SwitchTo(newScene(first))

	if settings.GetSettings().Fullscreen && !utils.IsMobile() {
		ebiten.SetFullscreen(true)
	}
	return a, nil
}

// finishRecording 写入录像结尾并关闭文件，可重复调用
func (a *App) finishRecording() {
	if a.recorder == nil {
		return
	}
	if err := a.recorder.Finish(a.recorded); err != nil {
		log.Printf("[App] Warning: 录像保存失败: %v", err)
	} else {
		log.Printf("[App] 录像已保存（帧 %d）", a.recorded.Frame())
	}
	a.recorder = nil
	a.recorded = nil
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			w, h := a.Layout(0, 0)
			ebiten.SetWindowSize(w, h)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏（移动端没有窗口）
	if !utils.IsMobile() && inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	a.sceneManager.Update(1.0 / float64(ebiten.TPS()))
	return nil
}

func (a *App) toggleFullscreen() {
	fullscreen := !ebiten.IsFullscreen()
	ebiten.SetFullscreen(fullscreen)
	a.settings.SetFullscreen(fullscreen)
	if fullscreen {
		return
	}
	if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
		ebiten.RestoreWindow()
	}
	// 退出全屏后延迟几帧再设置窗口大小，让窗口管理器有时间处理
	a.pendingWindowSizeReset = true
	a.windowSizeResetCountdown = 3
	log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
}

// Draw 绘制游戏画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回游戏区域的逻辑尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(a.tuning.Layout.Width), int(a.tuning.Layout.Height)
}

// Close 保存当前场景并结束录像，在游戏循环退出后调用
func (a *App) Close() {
	if s, ok := a.sceneManager.GetCurrentScene().(scenes.Saveable); ok {
		if !s.SaveOnExit() {
			log.Printf("[App] Warning: 退出时保存失败")
		}
	}
	a.finishRecording()
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
