package utils

import "strings"

// MeasureFunc 返回一行文本的像素宽度
type MeasureFunc func(line string) float64

// WrapText 按单词把文本折成不超过 maxWidth 的多行
//
// 单个单词超宽时独占一行（不在单词内部断开）。
func WrapText(s string, maxWidth float64, measure MeasureFunc) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	if maxWidth <= 0 || measure == nil {
		return []string{strings.Join(words, " ")}
	}

	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		candidate := current + " " + w
		if measure(candidate) > maxWidth {
			lines = append(lines, current)
			current = w
			continue
		}
		current = candidate
	}
	return append(lines, current)
}
