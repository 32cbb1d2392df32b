package utils

import "math"

// 缓动函数接受进度 t ∈ [0, 1]，返回缓动后的值 ∈ [0, 1]。

// EaseFunc 缓动函数
type EaseFunc func(t float64) float64

// EaseLinear 线性缓动
func EaseLinear(t float64) float64 {
	return clamp01(t)
}

// EaseOutQuad 二次方缓出：f(t) = 1 - (1-t)²
func EaseOutQuad(t float64) float64 {
	t = clamp01(t)
	return 1 - (1-t)*(1-t)
}

// Ease 浏览器默认的 "ease" 曲线，即 cubic-bezier(0.25, 0.1, 0.25, 1)
// 回收淡出使用这条曲线
var Ease = CubicBezier(0.25, 0.1, 0.25, 1)

// CubicBezier 返回控制点为 (0,0) (x1,y1) (x2,y2) (1,1) 的缓动曲线
// x1, x2 必须在 [0, 1] 内，保证 x(s) 单调
func CubicBezier(x1, y1, x2, y2 float64) EaseFunc {
	// 多项式系数：B(s) = ((a*s + b)*s + c)*s
	cx := 3 * x1
	bx := 3*(x2-x1) - cx
	ax := 1 - cx - bx
	cy := 3 * y1
	by := 3*(y2-y1) - cy
	ay := 1 - cy - by

	sampleX := func(s float64) float64 { return ((ax*s+bx)*s + cx) * s }
	sampleY := func(s float64) float64 { return ((ay*s+by)*s + cy) * s }
	slopeX := func(s float64) float64 { return (3*ax*s+2*bx)*s + cx }

	return func(t float64) float64 {
		t = clamp01(t)
		if t == 0 || t == 1 {
			return t
		}

		// 牛顿迭代，斜率过小时改用二分
		s := t
		for i := 0; i < 8; i++ {
			dx := sampleX(s) - t
			if math.Abs(dx) < 1e-7 {
				return sampleY(s)
			}
			d := slopeX(s)
			if math.Abs(d) < 1e-6 {
				break
			}
			s -= dx / d
		}

		lo, hi := 0.0, 1.0
		s = t
		for i := 0; i < 50; i++ {
			x := sampleX(s)
			if math.Abs(x-t) < 1e-7 {
				break
			}
			if x < t {
				lo = s
			} else {
				hi = s
			}
			s = (lo + hi) / 2
		}
		return sampleY(s)
	}
}

// Lerp 线性插值：a + (b-a)*t
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}
