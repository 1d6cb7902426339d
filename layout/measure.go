package layout

import "unicode/utf8"

// approxCharWidthFactor 是没有测量后端时的平均字宽系数（相对字号）。
const approxCharWidthFactor = 0.6

// ApproxMeasurer 按 0.6 × 字号 × 字符数 估算宽度，不依赖任何字体。
type ApproxMeasurer struct{}

var _ Measurer = ApproxMeasurer{}

// Measure 实现 Measurer，忽略字体族与字重。
func (ApproxMeasurer) Measure(font Font) MeasureFunc {
	return ApproxMeasure(font.Size)
}

// ApproxMeasure 返回给定字号下的估算测量函数。
func ApproxMeasure(fontSize float64) MeasureFunc {
	charWidth := fontSize * approxCharWidthFactor
	return func(text string) float64 {
		return float64(utf8.RuneCountInString(text)) * charWidth
	}
}

// EstimateTextWidth 是 ApproxMeasure 的便捷形式。
func EstimateTextWidth(text string, fontSize float64) float64 {
	return ApproxMeasure(fontSize)(text)
}

// measurerOrApprox 在未注入测量后端时退回估算公式。
func measurerOrApprox(m Measurer) Measurer {
	if m == nil {
		return ApproxMeasurer{}
	}
	return m
}
