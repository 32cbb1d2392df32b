package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
)

// SoundType 音效类型
type SoundType int

const (
	SoundCatch   SoundType = iota // 回收
	SoundLevelUp                  // 升级
	SoundPaw                      // 猫爪出现
	SoundSpawn                    // 新一批垃圾
)

// String 返回音效名称
func (t SoundType) String() string {
	switch t {
	case SoundCatch:
		return "catch"
	case SoundLevelUp:
		return "level_up"
	case SoundPaw:
		return "paw"
	case SoundSpawn:
		return "spawn"
	}
	return "unknown"
}

// AllSounds 所有音效类型（预渲染使用）
var AllSounds = []SoundType{SoundCatch, SoundLevelUp, SoundPaw, SoundSpawn}

// NewCatchSound 回收时的清脆提示音：正弦基音加八度泛音
func NewCatchSound(rate beep.SampleRate) beep.Streamer {
	d := 180 * time.Millisecond

	fund, err := generators.SineTone(rate, 880)
	if err != nil {
		fund = NewOscillator(880, d, WaveSine, rate)
	}
	fundShaped := NewEnvelope(beep.Take(rate.N(d), fund), d, 2*time.Millisecond, 150*time.Millisecond, rate)

	over := NewOscillator(1760, d, WaveSine, rate)
	overShaped := NewEnvelope(over, d, 2*time.Millisecond, 80*time.Millisecond, rate)

	return beep.Mix(
		newVolume(fundShaped, 0.6),
		newVolume(overShaped, 0.25),
	)
}

// NewLevelUpSound 升级时的上行琶音
func NewLevelUpSound(rate beep.SampleRate) beep.Streamer {
	d := 90 * time.Millisecond
	return newVolume(beep.Seq(
		note(523.25, d, WaveSquare, rate), // C5
		note(659.25, d, WaveSquare, rate), // E5
		note(783.99, d, WaveSquare, rate), // G5
		note(1046.50, 2*d, WaveSquare, rate),
	), 0.25)
}

// NewPawSound 猫爪出现时的短促噪声
func NewPawSound(rate beep.SampleRate) beep.Streamer {
	d := 220 * time.Millisecond
	noise := NewOscillator(0, d, WaveNoise, rate)
	return newVolume(NewEnvelope(noise, d, 30*time.Millisecond, 160*time.Millisecond, rate), 0.3)
}

// NewSpawnSound 新一批垃圾出现时的轻快双音
func NewSpawnSound(rate beep.SampleRate) beep.Streamer {
	d := 60 * time.Millisecond
	return newVolume(beep.Seq(
		note(392.00, d, WaveTriangle, rate),
		note(587.33, d, WaveTriangle, rate),
	), 0.35)
}

// NewSound 返回指定类型的音效，未知类型返回 nil
func NewSound(t SoundType, rate beep.SampleRate) beep.Streamer {
	switch t {
	case SoundCatch:
		return NewCatchSound(rate)
	case SoundLevelUp:
		return NewLevelUpSound(rate)
	case SoundPaw:
		return NewPawSound(rate)
	case SoundSpawn:
		return NewSpawnSound(rate)
	}
	return nil
}

// backgroundMelody 背景音乐的旋律（频率，0 为休止）
// C E G E | D F A F | B D G D | C - G -
var backgroundMelody = []float64{
	261.63, 329.63, 392.00, 329.63,
	293.66, 349.23, 440.00, 349.23,
	246.94, 293.66, 392.00, 293.66,
	261.63, 0, 196.00, 0,
}

// NewBackgroundLoop 背景音乐的一个循环段（有限长度，由播放端循环）
func NewBackgroundLoop(rate beep.SampleRate) beep.Streamer {
	step := 220 * time.Millisecond
	parts := make([]beep.Streamer, 0, len(backgroundMelody))
	for _, freq := range backgroundMelody {
		if freq == 0 {
			parts = append(parts, rest(step, rate))
			continue
		}
		parts = append(parts, note(freq, step, WaveTriangle, rate))
	}
	return newVolume(beep.Seq(parts...), 0.2)
}

// Repeat 无限重复由 factory 生成的有限流
// 用于终端版的背景音乐（speaker 直接播放流，没有 InfiniteLoop）
func Repeat(factory func() beep.Streamer) beep.Streamer {
	return &repeater{factory: factory, current: factory()}
}

type repeater struct {
	factory func() beep.Streamer
	current beep.Streamer
}

func (r *repeater) Stream(samples [][2]float64) (n int, ok bool) {
	fresh := false
	for n < len(samples) {
		m, more := r.current.Stream(samples[n:])
		n += m
		if more {
			fresh = false
			continue
		}
		if fresh && m == 0 {
			// 新生成的流为空，避免死循环
			return n, n > 0
		}
		r.current = r.factory()
		fresh = true
	}
	return n, true
}

func (r *repeater) Err() error { return r.current.Err() }
