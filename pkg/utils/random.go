package utils

import "math/rand"

// RandRange 返回 [min, max) 区间内的均匀随机数
// 所有模拟中的随机数都来自会话持有的 *rand.Rand，以保证同一种子下可复现
func RandRange(rng *rand.Rand, min, max float64) float64 {
	return min + rng.Float64()*(max-min)
}

// RandSign 返回 [-amplitude, amplitude) 区间内的均匀随机数
func RandSign(rng *rand.Rand, amplitude float64) float64 {
	return RandRange(rng, -amplitude, amplitude)
}
