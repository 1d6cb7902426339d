package layout

import (
	"math"
	"strings"
)

// 基线算法：在策略管线之前给出一个廉价的初始布局。

// 基线布局的 StrategyUsed 标签。
const (
	BaselineTitle       = "legacy-title"
	BaselineStatHeading = "legacy-stat-heading-wrap"
)

// TitleBaseline 以基准字号输出单行标题。
func TitleBaseline(text string) TextLayoutResult {
	cfg := ConfigFor(RoleTitle)
	return TextLayoutResult{
		Role:         RoleTitle,
		Lines:        []string{text},
		FontSize:     cfg.BaseFontSize,
		LineHeight:   cfg.BaseLineHeight,
		StrategyUsed: BaselineTitle,
	}
}

// StatHeadingBaseline 用估算字宽做贪心折行，后续策略会用真实测量修正。
func StatHeadingBaseline(text string, bounds TextBounds) TextLayoutResult {
	cfg := ConfigFor(RoleStatHeading)
	return TextLayoutResult{
		Role:         RoleStatHeading,
		Lines:        WrapApprox(text, bounds.Width, cfg.BaseFontSize),
		FontSize:     cfg.BaseFontSize,
		LineHeight:   cfg.BaseLineHeight,
		StrategyUsed: BaselineStatHeading,
	}
}

// Baseline 按角色选择基线算法。
func Baseline(role TextRole, text string, bounds TextBounds) TextLayoutResult {
	if role == RoleStatHeading {
		return StatHeadingBaseline(text, bounds)
	}
	layout := TitleBaseline(text)
	layout.Role = role
	return layout
}

// WrapApprox 按空格分词，用估算字宽贪心折行。
func WrapApprox(text string, maxWidth, fontSize float64) []string {
	return greedyWords(strings.Split(text, " "), maxWidth, ApproxMeasure(fontSize))
}

// greedyWords 逐词累积当前行，超宽时换行；单个超宽词独占一行。
func greedyWords(words []string, maxWidth float64, measure MeasureFunc) []string {
	var lines []string
	current := ""
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if current == "" || measure(candidate) <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return ensureLines(lines)
}

// ShrinkToFitSingleLine 是旧版单行缩放：用估算字宽求出能放下的字号，不低于 minSize。
func ShrinkToFitSingleLine(text string, maxWidth, maxHeight, baseSize, minSize float64) float64 {
	if text == "" {
		return baseSize
	}
	widthAtBase := EstimateTextWidth(text, baseSize)
	scale := math.Min(1, math.Min(maxWidth/widthAtBase, maxHeight/baseSize))
	return math.Max(minSize, math.Floor(baseSize*scale))
}

// ensureLines 保证结果至少有一行。
func ensureLines(lines []string) []string {
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
