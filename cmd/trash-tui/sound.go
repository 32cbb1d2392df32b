package main

import (
	"log"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	sfx "github.com/decker502/trashcatch/internal/audio"
	"github.com/decker502/trashcatch/pkg/game"
)

// soundPlayer 通过 speaker 播放合成音效
// 所有音效和背景音乐混在同一个 Mixer 中
type soundPlayer struct {
	mixer   *beep.Mixer
	music   *beep.Ctrl
	enabled bool
	muted   bool
}

// newSoundPlayer 初始化扬声器，失败时返回禁用的播放器（游戏可以无声运行）
func newSoundPlayer(enabled bool) *soundPlayer {
	sp := &soundPlayer{mixer: &beep.Mixer{}}
	if !enabled {
		return sp
	}
	if err := speaker.Init(sfx.SampleRate, sfx.SampleRate.N(100*time.Millisecond)); err != nil {
		log.Printf("[Sound] 扬声器初始化失败: %v（静音运行）", err)
		return sp
	}
	speaker.Play(sp.mixer)
	sp.enabled = true
	return sp
}

// startMusic 开始循环播放背景音乐，重复调用无效
func (sp *soundPlayer) startMusic() {
	if !sp.enabled || sp.music != nil {
		return
	}
	loop := sfx.Repeat(func() beep.Streamer { return sfx.NewBackgroundLoop(sfx.SampleRate) })
	sp.music = &beep.Ctrl{Streamer: loop, Paused: sp.muted}
	speaker.Lock()
	sp.mixer.Add(sp.music)
	speaker.Unlock()
}

// toggleMute 切换静音，返回切换后的状态
func (sp *soundPlayer) toggleMute() bool {
	sp.muted = !sp.muted
	if sp.enabled && sp.music != nil {
		speaker.Lock()
		sp.music.Paused = sp.muted
		speaker.Unlock()
	}
	return sp.muted
}

// handleEvents 为模拟事件播放音效
func (sp *soundPlayer) handleEvents(events []game.Event) {
	if !sp.enabled || sp.muted {
		return
	}
	sounds := sfx.SoundsFor(events)
	if len(sounds) == 0 {
		return
	}
	speaker.Lock()
	for _, st := range sounds {
		if s := sfx.NewSound(st, sfx.SampleRate); s != nil {
			sp.mixer.Add(&effects.Volume{Streamer: s, Base: 2, Volume: -0.5})
		}
	}
	speaker.Unlock()
}

func (sp *soundPlayer) close() {
	if !sp.enabled {
		return
	}
	speaker.Lock()
	sp.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
}
