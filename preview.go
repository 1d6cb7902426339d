package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ByLCY/textfit/layout"
)

var (
	previewBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#44475A")).
			Padding(0, 1)

	previewOverflowBox = previewBox.BorderForeground(lipgloss.Color("#FF5555"))

	previewCaption = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4"))
)

// renderPreview 在终端中画出排版结果：标题加粗，溢出时使用红色边框。
func renderPreview(res layout.TextLayoutResult, bounds layout.TextBounds) string {
	box := previewBox
	if res.Overflow {
		box = previewOverflowBox
	}
	body := strings.Join(res.Lines, "\n")
	if res.Role == layout.RoleTitle {
		body = lipgloss.NewStyle().Bold(true).Render(body)
	}
	caption := fmt.Sprintf("%s · %s · %gpt/%gpt · box %g×%g",
		res.Role, res.StrategyUsed, round1(res.FontSize), round1(res.LineHeight), bounds.Width, bounds.Height)
	return lipgloss.JoinVertical(lipgloss.Left, box.Render(body), previewCaption.Render(caption))
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
