package layout

import (
	"log/slog"
	"strings"
)

// Engine 串联偏好解析、基线算法与策略管线。零值不可用，请使用 New。
// Engine 自身无可变状态，可被多个 goroutine 共享；并发安全性取决于 Measurer。
type Engine struct {
	measurer   Measurer
	fontFamily string
	logger     *slog.Logger
}

// New 根据 Options 构造引擎，缺省使用估算测量与 DefaultFontFamily。
func New(opts Options) *Engine {
	family := opts.FontFamily
	if family == "" {
		family = DefaultFontFamily
	}
	return &Engine{
		measurer:   measurerOrApprox(opts.Measurer),
		fontFamily: family,
		logger:     opts.Logger,
	}
}

var defaultEngine = New(Options{})

// FitText 使用估算测量的默认引擎排版，只返回最终布局。
func FitText(role TextRole, text string, bounds TextBounds, prefs *Preferences) TextLayoutResult {
	return defaultEngine.Fit(role, text, bounds, prefs).Layout
}

// FitText 只返回最终布局。
func (e *Engine) FitText(role TextRole, text string, bounds TextBounds, prefs *Preferences) TextLayoutResult {
	return e.Fit(role, text, bounds, prefs).Layout
}

// Fit 解析偏好、计算策略顺序、生成基线布局并运行管线。
func (e *Engine) Fit(role TextRole, text string, bounds TextBounds, prefs *Preferences) EngineResult {
	resolved := prefs.Resolve(role)
	order := EffectiveOrder(role, resolved)
	base := Baseline(role, text, bounds)
	return e.run(base, bounds, order, resolved)
}

func (e *Engine) log() *slog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return Logger()
}

// run 依次执行策略。wrap/hyphenate 之后，statHeading 由引擎独立复核几何适配，
// 其他角色信任策略自报的成功；shrink 对 statHeading 从不提前返回；ellipsis 成功即返回。
func (e *Engine) run(base TextLayoutResult, bounds TextBounds, order []StrategyID, prefs ResolvedPreferences) EngineResult {
	cfg := ConfigFor(base.Role)
	ctx := StrategyContext{
		Role:       base.Role,
		Text:       strings.Join(base.Lines, " "),
		Bounds:     bounds,
		FontSize:   base.FontSize,
		LineHeight: lineHeightOf(base),
		Lines:      base.Lines,
		FontFamily: e.fontFamily,
		FontWeight: cfg.FontWeight,
		Prefs:      prefs,
		Measurer:   e.measurer,
	}
	attempts := []TextLayoutResult{base}
	log := e.log()

	for _, id := range order {
		res := StrategyFor(id)(ctx)
		attempts = append(attempts, res.Layout)
		log.Debug("text fitting step",
			"role", ctx.Role.String(),
			"strategy", id.String(),
			"used", res.Layout.StrategyUsed,
			"success", res.Success,
			"fontSize", res.Layout.FontSize,
			"lines", len(res.Layout.Lines),
		)

		switch id {
		case StrategyWrap, StrategyHyphenate:
			ctx = ctx.advance(res.Layout)
			if ctx.Role == RoleStatHeading {
				if e.FitsWithinBounds(res.Layout, bounds, ctx.FontWeight) {
					return EngineResult{Layout: res.Layout, Attempts: attempts}
				}
			} else if res.Success {
				return EngineResult{Layout: res.Layout, Attempts: attempts}
			}
		case StrategyShrink:
			ctx = ctx.advance(res.Layout)
			if res.Success && ctx.Role != RoleStatHeading {
				return EngineResult{Layout: res.Layout, Attempts: attempts}
			}
		case StrategyEllipsis:
			if res.Success {
				return EngineResult{Layout: res.Layout, Attempts: attempts}
			}
		case StrategyOverflow:
		}
	}

	return EngineResult{Layout: attempts[len(attempts)-1], Attempts: attempts}
}

// advance 用策略输出更新运行中的字号、行高与行。
func (ctx StrategyContext) advance(layout TextLayoutResult) StrategyContext {
	ctx.FontSize = layout.FontSize
	if layout.LineHeight > 0 {
		ctx.LineHeight = layout.LineHeight
	}
	ctx.Lines = layout.Lines
	return ctx
}

// FitsWithinBounds 用引擎的测量后端复核布局：所有行不超宽，且行数 × 行高不超高。
func (e *Engine) FitsWithinBounds(layout TextLayoutResult, bounds TextBounds, fontWeight int) bool {
	lines := len(layout.Lines)
	if lines < 1 {
		lines = 1
	}
	if float64(lines)*lineHeightOf(layout) > bounds.Height {
		return false
	}
	measure := e.measurer.Measure(Font{Family: e.fontFamily, Size: layout.FontSize, Weight: fontWeight})
	maxLineWidth := 0.0
	for _, line := range layout.Lines {
		if w := measure(line); w > maxLineWidth {
			maxLineWidth = w
		}
	}
	return maxLineWidth <= bounds.Width
}

func lineHeightOf(layout TextLayoutResult) float64 {
	if layout.LineHeight > 0 {
		return layout.LineHeight
	}
	return layout.FontSize * lineHeightFactor
}
