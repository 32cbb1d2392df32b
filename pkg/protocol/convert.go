package protocol

import (
	"github.com/decker502/trashcatch/pkg/config"
	"github.com/decker502/trashcatch/pkg/game"
	"github.com/decker502/trashcatch/pkg/sim"
)

// RectFrom 转换矩形
func RectFrom(r config.Rect) Rect {
	return Rect{X: r.X, Y: r.Y, W: r.W, H: r.H}
}

// StateFrom 把快照转换为 state 载荷
func StateFrom(snap sim.Snapshot) State {
	st := State{
		Tick:     snap.Frame,
		Level:    snap.Level,
		Recycled: snap.Recycled,
		Message:  snap.Message,
		Entities: make([]Entity, 0, len(snap.Entities)),
		Paw:      Paw{Visible: snap.Paw.Visible, X: snap.Paw.X, Y: snap.Paw.Y, Size: snap.Paw.Size},
	}
	for _, e := range snap.Entities {
		st.Entities = append(st.Entities, Entity{
			ID:       e.ID,
			Kind:     e.Kind.String(),
			X:        e.X,
			Y:        e.Y,
			Size:     e.Size,
			State:    e.State.String(),
			Fleeing:  e.Fleeing,
			Scale:    e.Scale,
			Alpha:    e.Alpha,
			Rotation: e.Rotation,
		})
	}
	return st
}

// EventFrom 把模拟事件转换为 event 载荷
func EventFrom(e game.Event) Event {
	return Event{
		Kind:     e.Type.String(),
		Frame:    e.Frame,
		EntityID: e.EntityID,
		Recycled: e.Recycled,
		Level:    e.Level,
		Count:    e.Count,
		Text:     e.Text,
		X:        e.X,
		Y:        e.Y,
		Visible:  e.Visible,
	}
}
