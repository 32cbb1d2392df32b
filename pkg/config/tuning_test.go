package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/decker502/trashcatch/pkg/embedded"
)

// TestDefaultTuning 验证默认数值与设计值一致
func TestDefaultTuning(t *testing.T) {
	tu := DefaultTuning()

	if err := validateTuning(&tu); err != nil {
		t.Fatalf("default tuning should be valid: %v", err)
	}

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"fleeRadius", tu.Movement.FleeRadius, 120},
		{"jitter", tu.Movement.Jitter, 0.03},
		{"margin", tu.Movement.Margin, 6},
		{"bounce", tu.Movement.Bounce, 0.8},
		{"speedStep", tu.Level.SpeedStep, 0.18},
		{"shuffleChance", tu.Shuffle.Chance, 0.004},
		{"respawnDelay", tu.Level.RespawnDelay, 0.8},
		{"fadeDuration", tu.Capture.FadeDuration, 0.3},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, c.got, c.want)
		}
	}

	if tu.Spawn.InitialCount != 3 || tu.Spawn.MaxCount != 12 {
		t.Errorf("spawn counts: got initial=%d max=%d, want 3/12", tu.Spawn.InitialCount, tu.Spawn.MaxCount)
	}
	if got := tu.FrameDuration(); got != 1.0/60 {
		t.Errorf("FrameDuration: got %v, want %v", got, 1.0/60)
	}
}

// TestParseTuningPartialOverride 验证部分覆盖时其他字段保持默认值
func TestParseTuningPartialOverride(t *testing.T) {
	data := []byte(`
movement:
  fleeRadius: 150
  maxSpeed: 0
shuffle:
  chance: 0
`)
	tu, err := ParseTuning(data)
	if err != nil {
		t.Fatalf("ParseTuning() error: %v", err)
	}
	if tu.Movement.FleeRadius != 150 {
		t.Errorf("fleeRadius: got %v, want 150", tu.Movement.FleeRadius)
	}
	if tu.Movement.MaxSpeed != 0 {
		t.Errorf("maxSpeed: got %v, want 0", tu.Movement.MaxSpeed)
	}
	if tu.Shuffle.Chance != 0 {
		t.Errorf("shuffle.chance: got %v, want 0", tu.Shuffle.Chance)
	}
	// 未覆盖的字段
	if tu.Movement.Bounce != 0.8 {
		t.Errorf("bounce should keep default 0.8, got %v", tu.Movement.Bounce)
	}
	if tu.Layout.Width != GameWindowWidth {
		t.Errorf("layout.width should keep default, got %v", tu.Layout.Width)
	}
}

// TestParseTuningInvalid 验证校验规则
func TestParseTuningInvalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"negative frame rate", "frameRate: -1", "frameRate"},
		{"zero flee radius", "movement:\n  fleeRadius: 0", "fleeRadius"},
		{"bounce above one", "movement:\n  bounce: 1.5", "bounce"},
		{"negative max speed", "movement:\n  maxSpeed: -2", "maxSpeed"},
		{"max below initial", "spawn:\n  initialCount: 5\n  maxCount: 4", "maxCount"},
		{"size does not fit", "spawn:\n  sizeMax: 700", "does not fit"},
		{"empty bin", "layout:\n  bin:\n    w: 0", "bin"},
		{"chance above one", "shuffle:\n  chance: 2", "chance"},
		{"paw hides before shuffle", "shuffle:\n  delay: 1\n  pawHide: 0.5", "pawHide"},
		{"broken yaml", "movement: [", "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTuning([]byte(tt.yaml))
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

// TestLoadTuning 从文件加载
func TestLoadTuning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("frameRate: 30\n"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	tu, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("LoadTuning() error: %v", err)
	}
	if tu.FrameRate != 30 {
		t.Errorf("frameRate: got %d, want 30", tu.FrameRate)
	}

	if _, err := LoadTuning(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

// TestTuningDigest 摘要随内容变化
func TestTuningDigest(t *testing.T) {
	a := DefaultTuning()
	b := DefaultTuning()
	if a.Digest() == "" || a.Digest() != b.Digest() {
		t.Fatalf("equal tunings should have equal non-empty digests")
	}
	b.Movement.Jitter = 0.05
	if a.Digest() == b.Digest() {
		t.Error("digest should change when tuning changes")
	}
}

func TestBundledTuningMatchesDefaults(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "data", "tuning.yaml"))
	if err != nil {
		t.Fatalf("failed to read bundled tuning: %v", err)
	}
	tu, err := ParseTuning(data)
	if err != nil {
		t.Fatalf("bundled tuning invalid: %v", err)
	}
	if !reflect.DeepEqual(tu, DefaultTuning()) {
		t.Errorf("bundled tuning drifted from DefaultTuning():\n got %+v\nwant %+v", tu, DefaultTuning())
	}
}

func TestResolveTuning(t *testing.T) {
	embedded.Init(fstest.MapFS{
		DefaultTuningPath: &fstest.MapFile{Data: []byte("frameRate: 30\n")},
	})

	tu, err := ResolveTuning("")
	if err != nil {
		t.Fatalf("ResolveTuning failed: %v", err)
	}
	if tu.FrameRate != 30 {
		t.Errorf("expected embedded frameRate 30, got %d", tu.FrameRate)
	}

	path := filepath.Join(t.TempDir(), "override.yaml")
	if err := os.WriteFile(path, []byte("frameRate: 120\n"), 0644); err != nil {
		t.Fatal(err)
	}
	tu, err = ResolveTuning(path)
	if err != nil {
		t.Fatalf("ResolveTuning(path) failed: %v", err)
	}
	if tu.FrameRate != 120 {
		t.Errorf("expected file frameRate 120, got %d", tu.FrameRate)
	}

	embedded.Init(fstest.MapFS{})
	tu, err = ResolveTuning("")
	if err != nil {
		t.Fatalf("ResolveTuning without embedded file failed: %v", err)
	}
	if tu.FrameRate != DefaultTuning().FrameRate {
		t.Errorf("expected defaults, got frameRate %d", tu.FrameRate)
	}
}
