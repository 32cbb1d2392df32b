package main

import (
	"math"

	"github.com/decker502/trashcatch/pkg/config"
)

// hudRows 顶部状态栏占用的行数
const hudRows = 1

// viewport 把游戏区域映射到终端单元格
//
// 第 0 行是状态栏，游戏区域占用其余各行。
type viewport struct {
	cols, rows    int // 游戏区域的列数和行数
	width, height float64
}

func newViewport(termCols, termRows int, width, height float64) viewport {
	return viewport{
		cols:   max(termCols, 1),
		rows:   max(termRows-hudRows, 1),
		width:  width,
		height: height,
	}
}

// toWorld 返回单元格中心对应的游戏坐标
func (v viewport) toWorld(cx, cy int) (float64, float64) {
	x := (float64(cx) + 0.5) * v.width / float64(v.cols)
	y := (float64(cy-hudRows) + 0.5) * v.height / float64(v.rows)
	return x, y
}

// toCell 返回游戏坐标所在的单元格，超出范围时钳制到边缘
func (v viewport) toCell(x, y float64) (int, int) {
	cx := int(math.Floor(x * float64(v.cols) / v.width))
	cy := int(math.Floor(y * float64(v.rows) / v.height))
	return clamp(cx, 0, v.cols-1), clamp(cy, 0, v.rows-1) + hudRows
}

// rectCells 返回矩形覆盖的单元格范围（闭区间）
func (v viewport) rectCells(r config.Rect) (x0, y0, x1, y1 int) {
	x0, y0 = v.toCell(r.X, r.Y)
	// 右下角向内收一点，避免恰好落在下一个单元格
	x1, y1 = v.toCell(r.Right()-1e-6, r.Bottom()-1e-6)
	return x0, y0, x1, y1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
