package scenes

import (
	"math"
	"strings"
	"testing"

	"github.com/decker502/trashcatch/pkg/components"
	"github.com/decker502/trashcatch/pkg/config"
	"github.com/decker502/trashcatch/pkg/sim"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTrashGeoM(t *testing.T) {
	base := sim.EntityView{X: 100, Y: 50, Size: 40, Scale: 1, Alpha: 1}

	tests := []struct {
		name         string
		view         func(sim.EntityView) sim.EntityView
		srcX, srcY   float64
		wantX, wantY float64
	}{
		{"精灵中心对齐垃圾中心", func(e sim.EntityView) sim.EntityView { return e }, 32, 32, 120, 70},
		{"左上角缩放到包围盒", func(e sim.EntityView) sim.EntityView { return e }, 0, 0, 100, 50},
		{"逃离时上浮", func(e sim.EntityView) sim.EntityView { e.Fleeing = true; return e }, 32, 32, 120, 66},
		{"淡出缩放围绕中心", func(e sim.EntityView) sim.EntityView { e.Scale = 0.5; return e }, 0, 0, 110, 60},
		{"旋转 90 度", func(e sim.EntityView) sim.EntityView { e.Rotation = 90; return e }, 64, 32, 120, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := trashGeoM(tt.view(base))
			x, y := m.Apply(tt.srcX, tt.srcY)
			if !approx(x, tt.wantX) || !approx(y, tt.wantY) {
				t.Errorf("Apply(%v, %v) = (%v, %v), want (%v, %v)", tt.srcX, tt.srcY, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestHUDLine(t *testing.T) {
	snap := sim.Snapshot{Level: 3, Recycled: 17}

	if got, want := hudLine(snap, 0), "Level 3   Recycled 17"; got != want {
		t.Errorf("hudLine() = %q, want %q", got, want)
	}
	if got := hudLine(snap, 5); !strings.HasSuffix(got, "Best 5") {
		t.Errorf("hudLine() = %q, want suffix %q", got, "Best 5")
	}
}

func TestDebugLines(t *testing.T) {
	snap := sim.Snapshot{
		Frame:           42,
		SpeedMultiplier: 1.25,
		Entities: []sim.EntityView{
			{ID: 1, State: components.TrashIdle},
			{ID: 2, State: components.TrashDragging},
			{ID: 3, State: components.TrashCaptured},
		},
	}

	lines := debugLines(snap, 60, 60)
	if len(lines) != 4 {
		t.Fatalf("len(debugLines) = %d, want 4", len(lines))
	}
	if want := "frame 42  entities 3  dragging 1"; lines[1] != want {
		t.Errorf("lines[1] = %q, want %q", lines[1], want)
	}
	if want := "speed x1.25"; lines[2] != want {
		t.Errorf("lines[2] = %q, want %q", lines[2], want)
	}
}

func TestBinCenter(t *testing.T) {
	x, y := binCenter(config.Rect{X: 660, Y: 440, W: 120, H: 140})
	if x != 720 || y != 510 {
		t.Errorf("binCenter() = (%v, %v), want (720, 510)", x, y)
	}
}

func TestFaceMeasureFallback(t *testing.T) {
	measure := faceMeasure(nil)
	if got := measure("abc"); got != 18 {
		t.Errorf("faceMeasure(nil)(\"abc\") = %v, want 18", got)
	}
	if got := measure("回收箱"); got != 18 {
		t.Errorf("faceMeasure(nil) should count runes, got %v", got)
	}
}
