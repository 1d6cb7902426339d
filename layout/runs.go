package layout

import (
	"strings"
	"unicode"
)

// TextRun 是一段带样式的文本。
type TextRun struct {
	Text   string `json:"text"`
	Bold   bool   `json:"bold,omitempty"`
	Italic bool   `json:"italic,omitempty"`
}

// Token 是拆分后的最小折行单元（单词或连续空白），保留所属 run 的样式。
type Token struct {
	Text   string
	Bold   bool
	Italic bool
}

func (t Token) isSpace() bool {
	return strings.TrimSpace(t.Text) == ""
}

// RunsToTokens 将 runs 在空白与非空白交界处切分为 token。
func RunsToTokens(runs []TextRun) []Token {
	var tokens []Token
	for _, run := range runs {
		var builder strings.Builder
		lastWasSpace := false
		flush := func() {
			if builder.Len() == 0 {
				return
			}
			tokens = append(tokens, Token{Text: builder.String(), Bold: run.Bold, Italic: run.Italic})
			builder.Reset()
		}
		for _, r := range run.Text {
			isSpace := unicode.IsSpace(r)
			if builder.Len() > 0 && lastWasSpace != isSpace {
				flush()
			}
			lastWasSpace = isSpace
			builder.WriteRune(r)
		}
		flush()
	}
	return tokens
}

// WrapTokens 贪心折行：非空白 token 使当前行超宽时换行，空白 token 永不触发换行。
// 每一行内相邻且样式相同的 token 会合并为一个 run。
func WrapTokens(tokens []Token, maxWidth float64, measure MeasureFunc) [][]TextRun {
	var lines [][]TextRun
	var current []Token
	currentWidth := 0.0

	for _, token := range tokens {
		tokenWidth := measure(token.Text)
		if len(current) > 0 && !token.isSpace() && currentWidth+tokenWidth > maxWidth {
			lines = append(lines, coalesceTokens(current))
			current = nil
			currentWidth = 0
		}
		current = append(current, token)
		currentWidth += tokenWidth
	}
	if len(current) > 0 {
		lines = append(lines, coalesceTokens(current))
	}
	return lines
}

func coalesceTokens(tokens []Token) []TextRun {
	var runs []TextRun
	for _, token := range tokens {
		if n := len(runs); n > 0 && runs[n-1].Bold == token.Bold && runs[n-1].Italic == token.Italic {
			runs[n-1].Text += token.Text
			continue
		}
		runs = append(runs, TextRun{Text: token.Text, Bold: token.Bold, Italic: token.Italic})
	}
	return runs
}

// RunsText 把 runs 拼接为纯文本。
func RunsText(runs []TextRun) string {
	var b strings.Builder
	for _, run := range runs {
		b.WriteString(run.Text)
	}
	return b.String()
}

// WrapRuns 按 res 的角色字体与字号把 runs 折行到 width 内。
func (e *Engine) WrapRuns(res TextLayoutResult, runs []TextRun, width float64) [][]TextRun {
	measure := e.measurer.Measure(Font{
		Family: e.fontFamily,
		Size:   res.FontSize,
		Weight: ConfigFor(res.Role).FontWeight,
	})
	return WrapTokens(RunsToTokens(runs), width, measure)
}
