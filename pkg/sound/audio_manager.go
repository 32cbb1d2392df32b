// Package sound 通过 Ebitengine 播放合成的音效和背景音乐
package sound

import (
	"bytes"
	"log"

	sfx "github.com/decker502/trashcatch/internal/audio"
	"github.com/decker502/trashcatch/pkg/game"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

// AudioSampleRate Ebitengine 音频上下文的采样率
const AudioSampleRate = 48000

// AudioManager 音频管理器
// 职责：
//   - 把合成的音效渲染为 PCM 并缓存
//   - 根据模拟事件播放对应音效
//   - 循环播放背景音乐
//   - 从 SettingsManager 读取音量和开关
//
// audioContext 为 nil 时（测试、无声卡环境）所有播放都是空操作
type AudioManager struct {
	audioContext    *audio.Context
	settingsManager *game.SettingsManager             // 可为 nil
	pcmCache        map[sfx.SoundType][]byte          // 音效 PCM 缓存
	soundPlayers    map[sfx.SoundType][]*audio.Player // 正在播放或可复用的音效播放器
	musicPCM        []byte
	currentMusic    *audio.Player
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - ctx: Ebitengine 音频上下文（可为 nil）
//   - sm: SettingsManager 实例（用于读取音量设置，可为 nil）
func NewAudioManager(ctx *audio.Context, sm *game.SettingsManager) *AudioManager {
	return &AudioManager{
		audioContext:    ctx,
		settingsManager: sm,
		pcmCache:        make(map[sfx.SoundType][]byte),
		soundPlayers:    make(map[sfx.SoundType][]*audio.Player),
	}
}

// Preload 预渲染所有音效，避免首次播放时卡顿
func (am *AudioManager) Preload() {
	for _, st := range sfx.AllSounds {
		am.pcm(st)
	}
	log.Printf("[AudioManager] Preloaded %d sounds", len(sfx.AllSounds))
}

// pcm 获取（必要时渲染）音效的 PCM 数据
func (am *AudioManager) pcm(st sfx.SoundType) []byte {
	if data, ok := am.pcmCache[st]; ok {
		return data
	}
	s := sfx.NewSound(st, sfx.SampleRate)
	if s == nil {
		return nil
	}
	data := sfx.Render(s)
	am.pcmCache[st] = data
	return data
}

// PlaySound 播放音效，返回是否播放
func (am *AudioManager) PlaySound(st sfx.SoundType) bool {
	if am.settingsManager != nil && !am.settingsManager.GetSettings().SoundEnabled {
		return false
	}
	data := am.pcm(st)
	if data == nil || am.audioContext == nil {
		return false
	}

	player := am.idlePlayer(st)
	if player == nil {
		player = am.audioContext.NewPlayerFromBytes(data)
		am.soundPlayers[st] = append(am.soundPlayers[st], player)
	} else if err := player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind sound %s: %v", st, err)
	}
	player.SetVolume(am.getSoundVolume())
	player.Play()
	return true
}

// idlePlayer 返回一个已播放完毕的播放器（允许同一音效重叠播放）
func (am *AudioManager) idlePlayer(st sfx.SoundType) *audio.Player {
	for _, p := range am.soundPlayers[st] {
		if !p.IsPlaying() {
			return p
		}
	}
	return nil
}

// PlayMusic 循环播放背景音乐
func (am *AudioManager) PlayMusic() bool {
	if am.settingsManager != nil && !am.settingsManager.GetSettings().MusicEnabled {
		return false
	}
	if am.audioContext == nil {
		return false
	}
	if am.currentMusic != nil {
		if !am.currentMusic.IsPlaying() {
			am.currentMusic.Play()
		}
		return true
	}

	if am.musicPCM == nil {
		am.musicPCM = sfx.Render(sfx.NewBackgroundLoop(sfx.SampleRate))
	}
	loop := audio.NewInfiniteLoop(bytes.NewReader(am.musicPCM), int64(len(am.musicPCM)))
	player, err := am.audioContext.NewPlayer(loop)
	if err != nil {
		log.Printf("[AudioManager] Warning: Failed to create music player: %v", err)
		return false
	}
	player.SetVolume(am.getMusicVolume())
	player.Play()
	am.currentMusic = player

	log.Printf("[AudioManager] Playing background loop (volume: %.2f)", am.getMusicVolume())
	return true
}

// IsMusicPlaying 背景音乐是否在播放
func (am *AudioManager) IsMusicPlaying() bool {
	return am.currentMusic != nil && am.currentMusic.IsPlaying()
}

// StopMusic 停止背景音乐
func (am *AudioManager) StopMusic() {
	if am.currentMusic != nil {
		am.currentMusic.Pause()
	}
}

// SetMusicVolume 设置音乐音量并立即应用
func (am *AudioManager) SetMusicVolume(volume float64) {
	if am.settingsManager != nil {
		am.settingsManager.SetMusicVolume(volume)
	}
	if am.currentMusic != nil {
		am.currentMusic.SetVolume(am.getMusicVolume())
	}
}

// SetSoundVolume 设置音效音量，影响后续播放
func (am *AudioManager) SetSoundVolume(volume float64) {
	if am.settingsManager != nil {
		am.settingsManager.SetSoundVolume(volume)
	}
}

// HandleEvents 为模拟事件播放对应音效
func (am *AudioManager) HandleEvents(events []game.Event) {
	for _, st := range sfx.SoundsFor(events) {
		am.PlaySound(st)
	}
}

// getMusicVolume 获取音乐音量设置
func (am *AudioManager) getMusicVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().MusicVolume
	}
	return 0.5 // 默认值
}

// getSoundVolume 获取音效音量设置
func (am *AudioManager) getSoundVolume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().SoundVolume
	}
	return 0.8 // 默认值
}
