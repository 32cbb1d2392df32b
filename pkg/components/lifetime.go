package components

// FadeComponent 管理被回收垃圾的淡出动画
// 实体在 Duration 秒内缩小、旋转并变透明，删除由调度器在到期时完成
type FadeComponent struct {
	Duration float64 // 淡出总时长(秒)
	Elapsed  float64 // 已经过时间(秒)
}

// Progress 返回淡出进度 [0, 1]
func (f *FadeComponent) Progress() float64 {
	if f.Duration <= 0 {
		return 1
	}
	p := f.Elapsed / f.Duration
	if p > 1 {
		return 1
	}
	return p
}

// PopComponent 生成时的弹出缩放效果
type PopComponent struct {
	Scale float64
}
