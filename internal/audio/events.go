package audio

import "github.com/decker502/trashcatch/pkg/game"

// SoundsFor 返回事件对应的音效（按事件顺序，同类音效每批只播放一次）
func SoundsFor(events []game.Event) []SoundType {
	var out []SoundType
	seen := make(map[SoundType]bool)
	add := func(st SoundType) {
		if !seen[st] {
			seen[st] = true
			out = append(out, st)
		}
	}
	for _, e := range events {
		switch e.Type {
		case game.EventCaptured:
			add(SoundCatch)
		case game.EventLevelUp:
			add(SoundLevelUp)
		case game.EventPaw:
			if e.Visible {
				add(SoundPaw)
			}
		case game.EventSpawned:
			// 开局的第一批不播放
			if e.Frame > 0 {
				add(SoundSpawn)
			}
		}
	}
	return out
}
