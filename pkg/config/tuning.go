package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/decker502/trashcatch/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// Tuning 游戏数值配置
// 时间单位为秒，速度单位为"游戏区域单位/帧"
type Tuning struct {
	FrameRate int `yaml:"frameRate"` // 模拟帧率（每秒帧数）

	Layout   LayoutConfig   `yaml:"layout"`
	Movement MovementConfig `yaml:"movement"`
	Spawn    SpawnConfig    `yaml:"spawn"`
	Level    LevelConfig    `yaml:"level"`
	Capture  CaptureConfig  `yaml:"capture"`
	Shuffle  ShuffleConfig  `yaml:"shuffle"`
	Message  MessageConfig  `yaml:"message"`
}

// MovementConfig 逃离、抖动、边界反弹参数
type MovementConfig struct {
	FleeRadius    float64 `yaml:"fleeRadius"`    // 指针距离小于该值时触发逃离
	FleeMin       float64 `yaml:"fleeMin"`       // 逃离强度下限
	FleeFalloff   float64 `yaml:"fleeFalloff"`   // (radius - dist) / falloff
	FleeBase      float64 `yaml:"fleeBase"`      // 关卡系数基数
	FleeLevelStep float64 `yaml:"fleeLevelStep"` // 每关增加的关卡系数
	FleeImpulse   float64 `yaml:"fleeImpulse"`   // 每帧速度增量系数
	Jitter        float64 `yaml:"jitter"`        // 每帧随机抖动幅度（每轴 ±Jitter）
	Margin        float64 `yaml:"margin"`        // 边界留白
	Bounce        float64 `yaml:"bounce"`        // 反弹阻尼（速度分量乘以 -Bounce）
	MaxSpeed      float64 `yaml:"maxSpeed"`      // 速度上限，0 表示不限制
}

// SpawnConfig 生成参数
type SpawnConfig struct {
	InitialCount   int     `yaml:"initialCount"`   // 第 1 关的垃圾数量
	CountBase      int     `yaml:"countBase"`      // 升级后数量 = min(MaxCount, CountBase + level)
	MaxCount       int     `yaml:"maxCount"`       // 每批数量上限
	Margin         float64 `yaml:"margin"`         // 生成位置的边界留白
	SizeMin        float64 `yaml:"sizeMin"`        // 随机尺寸下限
	SizeMax        float64 `yaml:"sizeMax"`        // 随机尺寸上限
	SizeFloor      int     `yaml:"sizeFloor"`      // 尺寸最小值
	SizeLevelStep  float64 `yaml:"sizeLevelStep"`  // 每关缩小的尺寸
	SpeedRange     float64 `yaml:"speedRange"`     // 初速度每轴 ±SpeedRange
	SpeedBase      float64 `yaml:"speedBase"`      // 初速度关卡系数基数
	SpeedLevelStep float64 `yaml:"speedLevelStep"` // 每关增加的初速度系数
	PopScale       float64 `yaml:"popScale"`       // 生成时的初始缩放
	PopDelay       float64 `yaml:"popDelay"`       // 恢复到 1.0 的延迟
}

// LevelConfig 升级参数
type LevelConfig struct {
	SpeedStep    float64 `yaml:"speedStep"`    // 每次升级增加的全局速度倍率
	RespawnDelay float64 `yaml:"respawnDelay"` // 升级后生成新一批的延迟
}

// CaptureConfig 回收参数
type CaptureConfig struct {
	FadeDuration float64 `yaml:"fadeDuration"` // 淡出时长，之后删除实体
}

// ShuffleConfig 猫爪打乱事件参数
type ShuffleConfig struct {
	Chance  float64 `yaml:"chance"`  // 每帧触发概率
	Delay   float64 `yaml:"delay"`   // 出现猫爪到打乱位置的延迟
	PawHide float64 `yaml:"pawHide"` // 猫爪消失时间（从出现算起）
	PawSize float64 `yaml:"pawSize"` // 猫爪尺寸
	Margin  float64 `yaml:"margin"`  // 重新放置时的边界留白
}

// MessageConfig 提示消息参数
type MessageConfig struct {
	Timeout float64 `yaml:"timeout"` // 默认显示时长
}

// DefaultTuning 返回默认数值
func DefaultTuning() Tuning {
	return Tuning{
		FrameRate: 60,
		Layout:    DefaultLayout(),
		Movement: MovementConfig{
			FleeRadius:    120,
			FleeMin:       2,
			FleeFalloff:   18,
			FleeBase:      0.6,
			FleeLevelStep: 0.15,
			FleeImpulse:   0.06,
			Jitter:        0.03,
			Margin:        6,
			Bounce:        0.8,
			MaxSpeed:      14,
		},
		Spawn: SpawnConfig{
			InitialCount:   3,
			CountBase:      3,
			MaxCount:       12,
			Margin:         12,
			SizeMin:        48,
			SizeMax:        96,
			SizeFloor:      36,
			SizeLevelStep:  4,
			SpeedRange:     0.5,
			SpeedBase:      0.8,
			SpeedLevelStep: 0.2,
			PopScale:       0.92,
			PopDelay:       0.04,
		},
		Level: LevelConfig{
			SpeedStep:    0.18,
			RespawnDelay: 0.8,
		},
		Capture: CaptureConfig{
			FadeDuration: 0.3,
		},
		Shuffle: ShuffleConfig{
			Chance:  0.004,
			Delay:   0.34,
			PawHide: 0.9,
			PawSize: 60,
			Margin:  12,
		},
		Message: MessageConfig{
			Timeout: 1.6,
		},
	}
}

// FrameDuration 返回一帧的时长（秒）
func (t Tuning) FrameDuration() float64 {
	return 1.0 / float64(t.FrameRate)
}

// Digest 返回配置内容的 SHA-256 摘要（用于录像文件校验）
func (t Tuning) Digest() string {
	data, err := yaml.Marshal(t)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// LoadTuning 从 YAML 文件加载数值配置
// 文件中未出现的字段保持默认值
func LoadTuning(filePath string) (Tuning, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Tuning{}, fmt.Errorf("failed to read tuning file: %w", err)
	}
	return ParseTuning(data)
}

// ParseTuning 解析 YAML 数值配置并校验
func ParseTuning(data []byte) (Tuning, error) {
	t := DefaultTuning()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("failed to parse tuning YAML: %w", err)
	}
	if err := validateTuning(&t); err != nil {
		return Tuning{}, fmt.Errorf("invalid tuning config: %w", err)
	}
	return t, nil
}

// validateTuning 验证配置的有效性
func validateTuning(t *Tuning) error {
	if t.FrameRate <= 0 {
		return fmt.Errorf("frameRate must be > 0, got %d", t.FrameRate)
	}

	// 验证布局
	l := t.Layout
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("layout size must be positive, got %vx%v", l.Width, l.Height)
	}
	if l.Bin.W <= 0 || l.Bin.H <= 0 {
		return fmt.Errorf("layout.bin size must be positive, got %vx%v", l.Bin.W, l.Bin.H)
	}

	// 验证移动参数
	m := t.Movement
	if m.FleeRadius <= 0 {
		return fmt.Errorf("movement.fleeRadius must be > 0, got %v", m.FleeRadius)
	}
	if m.FleeFalloff <= 0 {
		return fmt.Errorf("movement.fleeFalloff must be > 0, got %v", m.FleeFalloff)
	}
	if m.Jitter < 0 {
		return fmt.Errorf("movement.jitter must be >= 0, got %v", m.Jitter)
	}
	if m.Margin < 0 {
		return fmt.Errorf("movement.margin must be >= 0, got %v", m.Margin)
	}
	if m.Bounce < 0 || m.Bounce > 1 {
		return fmt.Errorf("movement.bounce must be between 0 and 1, got %v", m.Bounce)
	}
	if m.MaxSpeed < 0 {
		return fmt.Errorf("movement.maxSpeed must be >= 0, got %v", m.MaxSpeed)
	}

	// 验证生成参数
	s := t.Spawn
	if s.InitialCount < 1 {
		return fmt.Errorf("spawn.initialCount must be >= 1, got %d", s.InitialCount)
	}
	if s.MaxCount < s.InitialCount {
		return fmt.Errorf("spawn.maxCount (%d) must be >= spawn.initialCount (%d)", s.MaxCount, s.InitialCount)
	}
	if s.SizeMin <= 0 || s.SizeMax < s.SizeMin {
		return fmt.Errorf("spawn size range invalid: [%v, %v]", s.SizeMin, s.SizeMax)
	}
	if s.SizeFloor <= 0 {
		return fmt.Errorf("spawn.sizeFloor must be > 0, got %d", s.SizeFloor)
	}
	// 最大尺寸的垃圾也必须能放进游戏区域
	minSide := l.Width
	if l.Height < minSide {
		minSide = l.Height
	}
	if s.SizeMax+2*s.Margin >= minSide {
		return fmt.Errorf("spawn.sizeMax %v does not fit into play area %vx%v", s.SizeMax, l.Width, l.Height)
	}

	// 验证时间参数
	if t.Level.RespawnDelay < 0 || t.Capture.FadeDuration < 0 || t.Message.Timeout < 0 {
		return fmt.Errorf("delays must be >= 0")
	}
	sh := t.Shuffle
	if sh.Chance < 0 || sh.Chance > 1 {
		return fmt.Errorf("shuffle.chance must be between 0 and 1, got %v", sh.Chance)
	}
	if sh.Delay < 0 || sh.PawHide < sh.Delay {
		return fmt.Errorf("shuffle.pawHide (%v) must be >= shuffle.delay (%v) >= 0", sh.PawHide, sh.Delay)
	}

	return nil
}

// DefaultTuningPath 嵌入的默认数值配置路径
const DefaultTuningPath = "data/tuning.yaml"

// ResolveTuning 按优先级加载数值配置：
//  1. path 非空时读取该文件
//  2. 嵌入资源中的 data/tuning.yaml
//  3. DefaultTuning()
func ResolveTuning(path string) (Tuning, error) {
	if path != "" {
		return LoadTuning(path)
	}
	if embedded.IsInitialized() && embedded.Exists(DefaultTuningPath) {
		data, err := embedded.ReadFile(DefaultTuningPath)
		if err != nil {
			return Tuning{}, fmt.Errorf("failed to read embedded tuning: %w", err)
		}
		return ParseTuning(data)
	}
	return DefaultTuning(), nil
}
