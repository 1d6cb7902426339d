package layout

import (
	"math"
	"strings"
)

const (
	ellipsisGlyph = "…"
	hyphenGlyph   = "-"
)

// StrategyContext 是管线中每一步的输入，按值传递，每次调用重新构建。
type StrategyContext struct {
	Role       TextRole
	Text       string
	Bounds     TextBounds
	FontSize   float64
	LineHeight float64
	Lines      []string
	FontFamily string
	FontWeight int
	Prefs      ResolvedPreferences
	Measurer   Measurer
}

// StrategyResult 是策略输出的布局与自报的成功标记。
type StrategyResult struct {
	Success bool
	Layout  TextLayoutResult
}

// Strategy 是单个排版策略。
type Strategy func(ctx StrategyContext) StrategyResult

// StrategyFor 返回策略 ID 对应的实现。
func StrategyFor(id StrategyID) Strategy {
	switch id {
	case StrategyWrap:
		return Wrap
	case StrategyShrink:
		return Shrink
	case StrategyHyphenate:
		return Hyphenate
	case StrategyEllipsis:
		return Ellipsis
	default:
		return Overflow
	}
}

func (ctx StrategyContext) measureAt(fontSize float64) MeasureFunc {
	return measurerOrApprox(ctx.Measurer).Measure(Font{
		Family: ctx.FontFamily,
		Size:   fontSize,
		Weight: ctx.FontWeight,
	})
}

func (ctx StrategyContext) result(success bool, lines []string, strategy string) StrategyResult {
	return StrategyResult{
		Success: success,
		Layout: TextLayoutResult{
			Role:         ctx.Role,
			Lines:        ensureLines(lines),
			FontSize:     ctx.FontSize,
			LineHeight:   ctx.LineHeight,
			StrategyUsed: strategy,
		},
	}
}

// Wrap 对 statHeading 做折行：优先尝试平衡两行，否则按真实测量贪心折行。
// title 的折行被禁用，始终返回失败。
func Wrap(ctx StrategyContext) StrategyResult {
	switch ctx.Role {
	case RoleTitle:
		return ctx.result(false, ctx.Lines, "wrap-title-disabled")
	case RoleStatHeading:
	default:
		return ctx.result(true, ctx.Lines, "wrap-noop")
	}

	measure := ctx.measureAt(ctx.FontSize)
	words := strings.Split(ctx.Text, " ")

	canUseTwoLines := ctx.LineHeight*2 <= ctx.Bounds.Height
	if ctx.Prefs.ForceTwoLine && canUseTwoLines && len(words) >= 2 {
		if left, right, ok := balancedWordSplit(words, ctx.Bounds.Width, measure); ok {
			return ctx.result(true, []string{left, right}, "wrap-two-line")
		}
	}

	return ctx.result(true, greedyWords(words, ctx.Bounds.Width, measure), "wrap-measured")
}

// balancedWordSplit 在所有词边界中找两段都不超宽、且较宽一段最窄的切分点。
func balancedWordSplit(words []string, maxWidth float64, measure MeasureFunc) (string, string, bool) {
	bestIndex := -1
	bestScore := math.Inf(1)
	for i := 1; i < len(words); i++ {
		leftWidth := measure(strings.Join(words[:i], " "))
		rightWidth := measure(strings.Join(words[i:], " "))
		if leftWidth > maxWidth || rightWidth > maxWidth {
			continue
		}
		if score := math.Max(leftWidth, rightWidth); score < bestScore {
			bestScore = score
			bestIndex = i
		}
	}
	if bestIndex <= 0 {
		return "", "", false
	}
	return strings.Join(words[:bestIndex], " "), strings.Join(words[bestIndex:], " "), true
}

// Shrink 按比例缩小字号，不低于 minFontPercent 对应的字号。
// 适配判断使用拼接成单行的文本，而不是当前的多行 Lines。
func Shrink(ctx StrategyContext) StrategyResult {
	if ctx.Text == "" {
		return ctx.result(true, ctx.Lines, "shrink-skip-empty")
	}

	// 百分比按原值使用；Resolve 已将调用方输入限制在 [50,100]
	minFontSize := math.Max(1, math.Floor(ctx.FontSize*ctx.Prefs.MinFontPercent/100))

	widthAtCurrent := ctx.measureAt(ctx.FontSize)(ctx.Text)
	heightAtCurrent := ctx.LineHeight
	if widthAtCurrent <= ctx.Bounds.Width && heightAtCurrent <= ctx.Bounds.Height {
		return ctx.result(true, ctx.Lines, "shrink-skip-fit")
	}

	scale := math.Min(1, math.Min(ctx.Bounds.Width/widthAtCurrent, ctx.Bounds.Height/heightAtCurrent))
	nextFontSize := math.Max(minFontSize, math.Floor(ctx.FontSize*scale))
	nextLineHeight := ctx.LineHeight * (nextFontSize / ctx.FontSize)
	widthAtNext := ctx.measureAt(nextFontSize)(ctx.Text)
	fits := widthAtNext <= ctx.Bounds.Width && nextLineHeight <= ctx.Bounds.Height

	res := ctx.result(fits, ctx.Lines, "shrink")
	res.Layout.FontSize = nextFontSize
	res.Layout.LineHeight = nextLineHeight
	return res
}

// Hyphenate 重新按词排版 statHeading，超宽词先尝试平衡的连字符两段切分，
// 否则逐字符硬切。每轮至少消耗一个字符，保证终止。
func Hyphenate(ctx StrategyContext) StrategyResult {
	if ctx.Role != RoleStatHeading {
		return ctx.result(true, ctx.Lines, "hyphenate-noop")
	}

	measure := ctx.measureAt(ctx.FontSize)
	maxWidth := ctx.Bounds.Width
	hyphenWidth := measure(hyphenGlyph)

	var lines []string
	current := ""
	pushLine := func(line string) {
		if line != "" {
			lines = append(lines, line)
		}
	}

	for _, line := range ctx.Lines {
		for _, token := range strings.Split(line, " ") {
			if token == "" {
				continue
			}
			tokenWidth := measure(token)

			currentWidth := 0.0
			if current != "" {
				currentWidth = measure(current)
			}
			if tokenWidth+currentWidth <= maxWidth {
				if current != "" {
					current += " " + token
				} else {
					current = token
				}
				continue
			}

			if tokenWidth <= maxWidth {
				pushLine(current)
				current = token
				continue
			}

			if left, right, ok := balancedHyphenSplit(token, maxWidth, hyphenWidth, measure); ok {
				pushLine(current)
				lines = append(lines, left)
				current = right
				continue
			}

			for _, chunk := range hardHyphenChunks(token, maxWidth, hyphenWidth, measure) {
				pushLine(current)
				current = chunk
			}
		}
	}
	pushLine(current)

	return ctx.result(true, lines, "hyphenate")
}

// balancedHyphenSplit 在所有字符位置中找 left+"-" 与 right 都不超宽、且较宽一段最窄的切分。
func balancedHyphenSplit(token string, maxWidth, hyphenWidth float64, measure MeasureFunc) (string, string, bool) {
	runes := []rune(token)
	bestIndex := -1
	bestScore := math.Inf(1)
	for i := 1; i < len(runes); i++ {
		leftWidth := measure(string(runes[:i])) + hyphenWidth
		rightWidth := measure(string(runes[i:]))
		if leftWidth > maxWidth || rightWidth > maxWidth {
			continue
		}
		if score := math.Max(leftWidth, rightWidth); score < bestScore {
			bestScore = score
			bestIndex = i
		}
	}
	if bestIndex <= 0 {
		return "", "", false
	}
	return string(runes[:bestIndex]) + hyphenGlyph, string(runes[bestIndex:]), true
}

// hardHyphenChunks 反复取能放下（非末段需加连字符）的最长前缀；
// 一个字符都放不下时仍取一个字符。
func hardHyphenChunks(token string, maxWidth, hyphenWidth float64, measure MeasureFunc) []string {
	runes := []rune(token)
	var chunks []string
	for start := 0; start < len(runes); {
		best := 0
		for end := start + 1; end <= len(runes); end++ {
			width := measure(string(runes[start:end]))
			if end < len(runes) {
				width += hyphenWidth
			}
			if width > maxWidth {
				break
			}
			best = end - start
		}
		if best == 0 {
			best = 1
		}
		chunk := string(runes[start : start+best])
		start += best
		if start < len(runes) {
			chunk += hyphenGlyph
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}

// Ellipsis 二分查找能与省略号一起放进宽度的最长前缀。
// 文本为空、整行已放得下或省略号本身放不下时跳过。
func Ellipsis(ctx StrategyContext) StrategyResult {
	if ctx.Text == "" {
		return ctx.result(false, ctx.Lines, "ellipsis-skip-empty")
	}

	measure := ctx.measureAt(ctx.FontSize)
	maxWidth := ctx.Bounds.Width
	if measure(ctx.Text) <= maxWidth {
		return ctx.result(false, ctx.Lines, "ellipsis-skip-fit")
	}
	ellipsisWidth := measure(ellipsisGlyph)
	if ellipsisWidth > maxWidth {
		return ctx.result(false, ctx.Lines, "ellipsis-skip-too-narrow")
	}

	runes := []rune(ctx.Text)
	best := 0
	low, high := 0, len(runes)
	for low <= high {
		mid := (low + high) / 2
		if measure(string(runes[:mid]))+ellipsisWidth <= maxWidth {
			best = mid
			low = mid + 1
		} else {
			high = mid - 1
		}
	}

	res := ctx.result(true, []string{string(runes[:best]) + ellipsisGlyph}, "ellipsis")
	res.Layout.Ellipsis = true
	return res
}

// Overflow 是必选的收尾策略：原样接受当前布局并标记溢出。
func Overflow(ctx StrategyContext) StrategyResult {
	res := ctx.result(true, ctx.Lines, "overflow")
	res.Layout.Overflow = true
	return res
}
